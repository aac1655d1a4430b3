package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/scaffold"
)

type scaffoldOptions struct {
	dir           string
	module        string
	withMigration bool
	file          string
	dryRun        bool
	provider      string
	configModule  string
	now           time.Time
}

var scaffoldOpts scaffoldOptions

var scaffoldCmd = &cobra.Command{
	Use:     "scaffold <resource_name> <field_spec>...",
	Aliases: []string{"g"},
	Short:   "Generate model, schemas, repository, handlers and tests for a resource",
	Long: `
Generate the files of a CRUD resource from field specs of the form
name:type[:option...].

Types:   str, text, int, float, bool, datetime (unknown types fall back to str)
Options: optional, unique, index

Example:
  forge scaffold post title:str content:text published:bool
  forge g user email:str:unique:index full_name:str:optional
  forge scaffold --file post.yaml --with-migration`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts := scaffoldOpts
		if cfg, err := config.Load(); err == nil {
			opts.provider = cfg.Database.Provider
			opts.configModule = cfg.Module
			if !cmd.Flags().Changed("dir") && cfg.Scaffold.Dir != "" {
				opts.dir = cfg.Scaffold.Dir
			}
		}
		if code := runScaffold(opts, args, cmd.OutOrStdout()); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(scaffoldCmd)

	scaffoldCmd.Flags().StringVar(&scaffoldOpts.dir, "dir", ".", "Project root to generate into")
	scaffoldCmd.Flags().StringVar(&scaffoldOpts.module, "module", "", "Go module path of the project (default: read from go.mod)")
	scaffoldCmd.Flags().BoolVar(&scaffoldOpts.withMigration, "with-migration", false, "Also generate a CREATE TABLE migration")
	scaffoldCmd.Flags().StringVar(&scaffoldOpts.file, "file", "", "Read the resource from a YAML descriptor")
	scaffoldCmd.Flags().BoolVar(&scaffoldOpts.dryRun, "dry-run", false, "Print the files that would be generated")
}

// runScaffold returns the process exit status: 1 when no resource name and
// field list could be obtained, 0 otherwise. Skipped fields, rejected names and
// write failures are reported but do not change it.
func runScaffold(opts scaffoldOptions, args []string, out io.Writer) int {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	var (
		res scaffold.Resource
		err error
	)
	if opts.file != "" {
		if len(args) > 0 {
			yellow.Fprintf(out, "⚠️  ignoring positional arguments %q, the resource comes from %s\n", args, opts.file)
		}
		res, err = scaffold.LoadResourceFile(opts.file)
	} else {
		res, err = scaffold.ParseResource(args)
	}
	if err != nil {
		red.Fprintf(out, "❌ %v\n", err)
		if errors.Is(err, scaffold.ErrUsage) || errors.Is(err, scaffold.ErrResourceFile) {
			fmt.Fprintln(out, "Usage: forge scaffold <resource_name> <field_spec>...")
			fmt.Fprintln(out, "Example: forge scaffold post title:str content:text published:bool")
			return 1
		}
		return 0
	}

	for _, w := range res.Warnings {
		yellow.Fprintf(out, "⚠️  %s\n", w)
	}
	if len(res.Fields) == 0 {
		yellow.Fprintf(out, "⚠️  no usable fields for %s, nothing generated\n", res.TypeName())
		return 0
	}

	module := resolveModule(opts, out)

	cyan.Fprintf(out, "🔨 Generating %s (%d fields)\n", res.TypeName(), len(res.Fields))
	artifacts, err := scaffold.Render(res, scaffold.RenderOptions{
		Module:        module,
		WithMigration: opts.withMigration,
		Provider:      opts.provider,
		Now:           opts.now,
	})
	if err != nil {
		red.Fprintf(out, "❌ %v\n", err)
		return 0
	}

	if opts.dryRun {
		for _, a := range artifacts {
			fmt.Fprintf(out, "  %s (%s)\n", a.Path, a.Category)
		}
		return 0
	}

	if errs := scaffold.Write(opts.dir, artifacts, out); len(errs) > 0 {
		yellow.Fprintf(out, "⚠️  %d of %d files could not be written\n", len(errs), len(artifacts))
	} else {
		green.Fprintf(out, "✅ Generated %d files for %s\n", len(artifacts), res.TypeName())
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "🚀 Next steps:")
	for i, step := range scaffold.NextSteps(res, opts.withMigration) {
		fmt.Fprintf(out, "   %d. %s\n", i+1, step)
	}
	return 0
}

// resolveModule prefers --module, then go.mod in the target directory, then
// the config file, then the directory name.
func resolveModule(opts scaffoldOptions, out io.Writer) string {
	if opts.module != "" {
		return opts.module
	}
	if module, err := scaffold.ReadModulePath(opts.dir); err == nil {
		return module
	}
	if opts.configModule != "" {
		return opts.configModule
	}

	abs, err := filepath.Abs(opts.dir)
	if err != nil {
		abs = opts.dir
	}
	module := filepath.Base(abs)
	color.New(color.FgYellow).Fprintf(out, "⚠️  No go.mod found in %s, using module path %q (set --module to override)\n", opts.dir, module)
	return module
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rana718/forge/internal/config"
	"github.com/Rana718/forge/internal/scaffold"
	"github.com/Rana718/forge/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize forge in the current project",
	Long:  `Write forge.config.json, add database settings to .env and create the project directories.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(".", dbType, forceFlag(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(root string, dbType template.DatabaseType, force bool, out io.Writer) error {
	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		color.New(color.FgYellow).Fprintf(out, "ℹ️  Skipped %s (already exists, use --force to overwrite)\n", config.FileName)
	} else {
		module, err := scaffold.ReadModulePath(root)
		if err != nil {
			module = ""
		}
		if err := os.WriteFile(configPath, []byte(tmpl.GetForgeConfig(module)), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", config.FileName, err)
		}
	}

	added, err := mergeEnvFile(filepath.Join(root, ".env"), tmpl.GetEnvTemplate())
	if err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.New(color.FgGreen).Fprintf(out, "✅ Initialized forge with %s database support\n", dbType)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "📁 Project structure created:")
	for _, dir := range directories {
		fmt.Fprintf(out, "   %s/\n", dir)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "📝 Configuration file created:")
	fmt.Fprintf(out, "   %s\n", config.FileName)
	if len(added) > 0 {
		fmt.Fprintf(out, "   .env (+%s)\n", strings.Join(added, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "🚀 Next steps:")
	fmt.Fprintln(out, "   forge scaffold post title:str body:text   # Generate a resource")
	fmt.Fprintln(out, "   forge migrate create create_posts         # Create a migration")
	fmt.Fprintln(out, "   forge migrate up                          # Apply migrations")
	fmt.Fprintln(out, "   forge serve                               # Run the service")
	return nil
}

// mergeEnvFile appends the keys of defaults missing from path and returns
// them. Existing keys are never changed.
func mergeEnvFile(path, defaults string) ([]string, error) {
	wanted, err := godotenv.Unmarshal(defaults)
	if err != nil {
		return nil, err
	}

	existing := map[string]string{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if existing, err = godotenv.Unmarshal(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	var added []string
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(defaults), "\n") {
		key, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if _, present := existing[key]; present {
			continue
		}
		if _, known := wanted[key]; !known {
			continue
		}
		b.WriteString(line + "\n")
		added = append(added, key)
	}
	if len(added) == 0 {
		return nil, nil
	}

	text := string(content)
	if len(text) > 0 {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		text += "\n# Added by forge\n"
	}
	text += b.String()

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return nil, err
	}
	return added, nil
}

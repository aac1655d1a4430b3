package scaffold

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoModule     = errors.New("module path is required")
	ErrResourceFile = errors.New("invalid resource file")
)

// Write stores each artifact under root, creating parent directories and
// overwriting existing files. A failed artifact is reported on out and the
// remaining ones are still written. Nothing is rolled back.
func Write(root string, artifacts []Artifact, out io.Writer) []error {
	var errs []error
	for _, a := range artifacts {
		if err := writeArtifact(root, a); err != nil {
			errs = append(errs, err)
			color.New(color.FgRed).Fprintf(out, "❌ %s: %v\n", a.Path, err)
			continue
		}
		color.New(color.FgGreen).Fprintf(out, "✅ Created %s %s\n", a.Category, a.Path)
	}
	return errs
}

func writeArtifact(root string, a Artifact) error {
	target := filepath.Join(root, filepath.FromSlash(a.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, a.Content, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// NextSteps lists what is left to do by hand after generating res. When the
// migration was generated too, creating one is not among them.
func NextSteps(res Resource, withMigration bool) []string {
	steps := []string{
		fmt.Sprintf("Register the routes in internal/api/v1/router.go: New%sHandler(deps.DB).Register(api)", res.TypeName()),
		fmt.Sprintf("Add &%s{} to models.All() in internal/models/registry.go", res.TypeName()),
	}
	if !withMigration {
		steps = append(steps, fmt.Sprintf("Create a migration: forge migrate create create_%s", res.Table()))
	}
	return append(steps, "Apply it: forge migrate up", "Run the tests: forge test")
}

// ReadModulePath returns the module path declared in dir/go.mod.
func ReadModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	module := modfile.ModulePath(data)
	if module == "" {
		return "", fmt.Errorf("no module directive in %s", filepath.Join(dir, "go.mod"))
	}
	return module, nil
}

// ResourceFile is the YAML form of a scaffold invocation:
//
//	name: post
//	fields:
//	  - title:str
//	  - body:text:optional
type ResourceFile struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
}

// LoadResourceFile reads a resource descriptor from YAML.
func LoadResourceFile(path string) (Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Resource{}, fmt.Errorf("%w: %w", ErrResourceFile, err)
	}
	var rf ResourceFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return Resource{}, fmt.Errorf("%w: failed to parse %s: %w", ErrResourceFile, path, err)
	}
	if len(rf.Fields) == 0 {
		return Resource{}, ErrUsage
	}
	return NewResource(rf.Name, rf.Fields)
}

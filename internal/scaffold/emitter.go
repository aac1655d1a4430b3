package scaffold

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"strings"
	"text/template"
	"time"
)

// Artifact categories.
const (
	CategoryModel      = "model"
	CategorySchema     = "schema"
	CategoryRepository = "repository"
	CategoryHandler    = "handler"
	CategoryTest       = "test"
	CategoryMigration  = "migration"
)

// Artifact is one generated file. Path is slash-separated and relative to the
// project root.
type Artifact struct {
	Path     string
	Category string
	Content  []byte
}

// RenderOptions configures Render.
type RenderOptions struct {
	// Module is the Go module path of the target project.
	Module string
	// WithMigration adds a CREATE TABLE migration for Provider.
	WithMigration bool
	Provider      string
	// Now stamps the migration file name. Zero means time.Now.
	Now time.Time
}

type renderData struct {
	Resource
	Module string
}

type artifactSpec struct {
	path     string
	category string
	tmpl     *template.Template
}

var funcs = template.FuncMap{
	// tag renders a struct tag from key/value pairs, backticks included
	"tag": func(kv ...string) string {
		pairs := make([]string, 0, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			pairs = append(pairs, fmt.Sprintf("%s:%q", kv[i], kv[i+1]))
		}
		return "`" + strings.Join(pairs, " ") + "`"
	},
}

var (
	modelTmpl          = template.Must(template.New("model").Funcs(funcs).Parse(modelTemplate))
	schemaBaseTmpl     = template.Must(template.New("base").Funcs(funcs).Parse(schemaBaseTemplate))
	schemaCreateTmpl   = template.Must(template.New("create").Funcs(funcs).Parse(schemaCreateTemplate))
	schemaUpdateTmpl   = template.Must(template.New("update").Funcs(funcs).Parse(schemaUpdateTemplate))
	schemaResponseTmpl = template.Must(template.New("response").Funcs(funcs).Parse(schemaResponseTemplate))
	repositoryTmpl     = template.Must(template.New("repository").Funcs(funcs).Parse(repositoryTemplate))
	handlerTmpl        = template.Must(template.New("handler").Funcs(funcs).Parse(handlerTemplate))
	handlerTestTmpl    = template.Must(template.New("handler_test").Funcs(funcs).Parse(handlerTestTemplate))
)

func artifactsFor(res Resource) []artifactSpec {
	schemaDir := path.Join("internal/schemas", res.Package())
	return []artifactSpec{
		{path.Join("internal/models", res.Name+".go"), CategoryModel, modelTmpl},
		{path.Join(schemaDir, "base.go"), CategorySchema, schemaBaseTmpl},
		{path.Join(schemaDir, "create.go"), CategorySchema, schemaCreateTmpl},
		{path.Join(schemaDir, "update.go"), CategorySchema, schemaUpdateTmpl},
		{path.Join(schemaDir, "response.go"), CategorySchema, schemaResponseTmpl},
		{path.Join("internal/repositories", res.Name+".go"), CategoryRepository, repositoryTmpl},
		{path.Join("internal/api/v1", res.Plural()+".go"), CategoryHandler, handlerTmpl},
		{path.Join("internal/api/v1", res.Plural()+"_test.go"), CategoryTest, handlerTestTmpl},
	}
}

// Render produces the files of a resource. It has no side effects and is
// deterministic for a given resource and options.
func Render(res Resource, opts RenderOptions) ([]Artifact, error) {
	if res.Name == "" {
		return nil, ErrEmptyName
	}
	if opts.Module == "" {
		return nil, ErrNoModule
	}

	data := renderData{Resource: res, Module: opts.Module}
	specs := artifactsFor(res)
	artifacts := make([]Artifact, 0, len(specs)+1)
	for _, spec := range specs {
		content, err := renderGo(spec.tmpl, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", spec.path, err)
		}
		artifacts = append(artifacts, Artifact{Path: spec.path, Category: spec.category, Content: content})
	}

	if opts.WithMigration {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		artifacts = append(artifacts, Artifact{
			Path:     path.Join("db/migrations", fmt.Sprintf("%s_create_%s.sql", now.UTC().Format(MigrationTimeFormat), res.Table())),
			Category: CategoryMigration,
			Content:  []byte(RenderMigration(res, opts.Provider)),
		})
	}

	return artifacts, nil
}

func renderGo(t *template.Template, data renderData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w", err)
	}
	return out, nil
}

package scaffold

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/stoewer/go-strcase"
)

var (
	ErrUsage        = errors.New("usage: scaffold <resource_name> <field_spec>...")
	ErrEmptyName    = errors.New("resource name cannot be empty")
	ErrInvalidName  = errors.New("resource name is not a valid Go identifier")
	ErrReservedName = errors.New("resource name clashes with the service skeleton")
)

// reserved columns are declared by every generated model
var reserved = map[string]bool{"ID": true, "CreatedAt": true, "UpdatedAt": true}

// generatedMembers are declared by the templates next to the fields: the
// embedded Base, the model's TableName, Update.Changes and Create.ToModel.
var generatedMembers = map[string]bool{"Base": true, "TableName": true, "Changes": true, "ToModel": true}

// Resource is the descriptor driving one scaffold run.
type Resource struct {
	// Name is the singular snake_case form, e.g. blog_post.
	Name   string
	Fields []Field
	// Warnings collects everything the parser normalized away.
	Warnings []string
}

// TypeName is the Go type name, e.g. BlogPost.
func (r Resource) TypeName() string { return goIdent(r.Name) }

// Var is the lower camel form, e.g. blogPost.
func (r Resource) Var() string { return strcase.LowerCamelCase(r.Name) }

// Plural is the snake_case plural, e.g. blog_posts.
func (r Resource) Plural() string { return inflection.Plural(r.Name) }

// Table is the database table name. It follows gorm's naming so generated
// migrations and AutoMigrate agree.
func (r Resource) Table() string { return r.Plural() }

// Path is the URL segment the handlers are mounted on.
func (r Resource) Path() string { return strings.ReplaceAll(r.Plural(), "_", "-") }

// Package is the schema package name, e.g. blogpost.
func (r Resource) Package() string { return strings.ReplaceAll(r.Name, "_", "") }

// PluralTypeName is the Go identifier of the plural, e.g. BlogPosts.
func (r Resource) PluralTypeName() string { return goIdent(r.Plural()) }

// Label is the lower-case prose form, e.g. "blog post".
func (r Resource) Label() string { return strings.ReplaceAll(r.Name, "_", " ") }

// Human is a readable label used in messages, e.g. "Blog post".
func (r Resource) Human() string {
	s := strings.ReplaceAll(r.Name, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

// HasTime reports whether any field maps to time.Time.
func (r Resource) HasTime() bool {
	for _, f := range r.Fields {
		if f.IsTime() {
			return true
		}
	}
	return false
}

// UniqueFields returns the fields carrying a uniqueness constraint.
func (r Resource) UniqueFields() []Field {
	var out []Field
	for _, f := range r.Fields {
		if f.Unique {
			out = append(out, f)
		}
	}
	return out
}

// ParseResource turns command-line tokens into a Resource. The first token is
// the resource name, the rest are field specs. Field order is preserved.
func ParseResource(args []string) (Resource, error) {
	if len(args) < 2 {
		return Resource{}, ErrUsage
	}
	return NewResource(args[0], args[1:])
}

// NewResource builds a Resource from a name and field spec tokens.
func NewResource(name string, specs []string) (Resource, error) {
	res := Resource{Name: inflection.Singular(snakeName(name))}
	if res.Name == "" {
		return Resource{}, ErrEmptyName
	}
	if !token.IsIdentifier(res.TypeName()) || token.IsKeyword(res.Package()) || res.Package() == "main" {
		return Resource{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := checkSkeleton(res); err != nil {
		return Resource{}, err
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		f := ParseField(spec)
		goName := f.GoName()
		switch {
		case f.Name == "":
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping field spec %q: empty field name", spec))
			continue
		case !token.IsIdentifier(goName):
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping field %q: not a valid Go identifier", f.Name))
			continue
		case reserved[goName]:
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping field %q: declared by every model", f.Name))
			continue
		case generatedMembers[goName]:
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping field %q: clashes with the generated %s", f.Name, goName))
			continue
		case seen[goName]:
			res.Warnings = append(res.Warnings, fmt.Sprintf("skipping duplicate field %q", f.Name))
			continue
		}
		seen[goName] = true

		if f.RawType != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("unknown type %q for field %q, using str", f.RawType, f.Name))
		}
		for _, opt := range f.Ignored {
			res.Warnings = append(res.Warnings, fmt.Sprintf("ignoring unknown option %q on field %q", opt, f.Name))
		}
		res.Fields = append(res.Fields, f)
	}

	return res, nil
}

func snakeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strcase.SnakeCase(s)
}

var initialisms = map[string]string{
	"api": "API", "db": "DB", "html": "HTML", "http": "HTTP", "id": "ID", "ip": "IP",
	"json": "JSON", "sql": "SQL", "uri": "URI", "url": "URL", "uuid": "UUID",
}

// goIdent converts snake_case to an exported Go identifier, keeping common
// initialisms upper-case.
func goIdent(snake string) string {
	var b strings.Builder
	for _, part := range strings.Split(snake, "_") {
		if part == "" {
			continue
		}
		if up, ok := initialisms[part]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

package scaffold

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/stoewer/go-strcase"
)

const (
	OptOptional = "optional"
	OptUnique   = "unique"
	OptIndex    = "index"
)

// Field is one parsed `name:type[:opt...]` token.
type Field struct {
	Name     string
	Type     LogicalType
	Optional bool
	Unique   bool
	Indexed  bool

	// RawType is the type token as given when it was not recognized.
	RawType string
	// Ignored holds option tokens that were not recognized.
	Ignored []string
}

// GoName is the exported Go identifier for the field.
func (f Field) GoName() string { return goIdent(f.Name) }

// GoType is the Go type of the field in models and create schemas.
func (f Field) GoType() string {
	t := mappingFor(f.Type).goType
	if f.Optional {
		return "*" + t
	}
	return t
}

// BaseGoType is the Go type without the optional pointer.
func (f Field) BaseGoType() string { return mappingFor(f.Type).goType }

// Var is a lower camel identifier safe to use as a parameter name.
func (f Field) Var() string {
	v := strcase.LowerCamelCase(f.Name)
	if token.IsKeyword(v) || v == "ctx" || v == "r" {
		return v + "Value"
	}
	return v
}

// Label is the field name as prose, e.g. "first name".
func (f Field) Label() string { return strings.ReplaceAll(f.Name, "_", " ") }

// PointerType is the field's type in partial-update schemas.
func (f Field) PointerType() string { return "*" + mappingFor(f.Type).goType }

// GormTag returns the gorm struct tag value, or "" when no tag is needed.
func (f Field) GormTag() string {
	var parts []string
	if t := mappingFor(f.Type).gormType; t != "" {
		parts = append(parts, t)
	}
	if !f.Optional {
		parts = append(parts, "not null")
	}
	switch {
	case f.Unique && f.Indexed:
		parts = append(parts, "uniqueIndex")
	case f.Unique:
		parts = append(parts, "unique")
	case f.Indexed:
		parts = append(parts, "index")
	}
	return strings.Join(parts, ";")
}

// Binding returns the validation rules used when the field is part of a create
// request.
func (f Field) Binding() string {
	m := mappingFor(f.Type)
	var rules []string
	switch {
	case f.Optional:
		rules = append(rules, "omitempty")
	case !m.zeroValid:
		rules = append(rules, "required")
	}
	if m.binding != "" {
		rules = append(rules, m.binding)
	}
	return strings.Join(rules, ",")
}

// UpdateBinding returns the validation rules for partial updates.
func (f Field) UpdateBinding() string {
	rules := []string{"omitempty"}
	if b := mappingFor(f.Type).binding; b != "" {
		rules = append(rules, b)
	}
	return strings.Join(rules, ",")
}

// ModelTag is the full struct tag, backticks included, for the model field.
func (f Field) ModelTag() string {
	if g := f.GormTag(); g != "" {
		return fmt.Sprintf("`gorm:%q json:%q`", g, f.Name)
	}
	return fmt.Sprintf("`json:%q`", f.Name)
}

// SchemaTag is the full struct tag for the base request schema.
func (f Field) SchemaTag() string { return taggedJSON(f.Name, f.Binding()) }

// UpdateTag is the full struct tag for the update request schema.
func (f Field) UpdateTag() string { return taggedJSON(f.Name, f.UpdateBinding()) }

// ResponseTag is the full struct tag for the response schema.
func (f Field) ResponseTag() string { return fmt.Sprintf("`json:%q`", f.Name) }

// Literal is a sample value usable both as a Go and a JSON literal.
func (f Field) Literal() string { return mappingFor(f.Type).literal(f.Name) }

// IsTime reports whether the field's Go type comes from package time.
func (f Field) IsTime() bool { return mappingFor(f.Type).goType == "time.Time" }

func taggedJSON(name, binding string) string {
	if binding == "" {
		return fmt.Sprintf("`json:%q`", name)
	}
	return fmt.Sprintf("`json:%q binding:%q`", name, binding)
}

// ParseField parses a single field spec token. It never fails: unknown types
// resolve to str and unknown options are ignored, both recorded on the field.
func ParseField(token string) Field {
	parts := strings.Split(token, ":")
	f := Field{Name: snakeName(parts[0]), Type: TypeString}

	if len(parts) > 1 && parts[1] != "" {
		t, ok := ParseType(parts[1])
		f.Type = t
		if !ok {
			f.RawType = parts[1]
		}
	}

	if len(parts) > 2 {
		for _, opt := range parts[2:] {
			switch strings.ToLower(strings.TrimSpace(opt)) {
			case OptOptional:
				f.Optional = true
			case OptUnique:
				f.Unique = true
			case OptIndex:
				f.Indexed = true
			case "":
			default:
				f.Ignored = append(f.Ignored, opt)
			}
		}
	}

	return f
}

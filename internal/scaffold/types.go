package scaffold

import "strings"

// LogicalType is one of the abstract data kinds a field spec can name.
type LogicalType string

const (
	TypeString   LogicalType = "str"
	TypeText     LogicalType = "text"
	TypeInt      LogicalType = "int"
	TypeFloat    LogicalType = "float"
	TypeBool     LogicalType = "bool"
	TypeDatetime LogicalType = "datetime"
)

// LogicalTypes lists the supported types in documentation order.
var LogicalTypes = []LogicalType{TypeString, TypeText, TypeInt, TypeFloat, TypeBool, TypeDatetime}

type typeMapping struct {
	goType string
	// gorm column fragment, empty when gorm's default for goType is right
	gormType string
	// extra validation rules after required/omitempty
	binding string
	// zero values are valid input, so "required" would reject them
	zeroValid bool
	literal   func(field string) string
}

var typeMappings = map[LogicalType]typeMapping{
	TypeString: {
		goType:   "string",
		gormType: "size:255",
		binding:  "max=255",
		literal:  func(field string) string { return `"test ` + strings.ReplaceAll(field, "_", " ") + `"` },
	},
	TypeText: {
		goType:   "string",
		gormType: "type:text",
		literal:  func(field string) string { return `"test ` + strings.ReplaceAll(field, "_", " ") + ` content"` },
	},
	TypeInt: {
		goType:    "int",
		zeroValid: true,
		literal:   func(string) string { return "1" },
	},
	TypeFloat: {
		goType:    "float64",
		zeroValid: true,
		literal:   func(string) string { return "1.5" },
	},
	TypeBool: {
		goType:    "bool",
		zeroValid: true,
		literal:   func(string) string { return "true" },
	},
	TypeDatetime: {
		goType:  "time.Time",
		literal: func(string) string { return `"2024-01-01T00:00:00Z"` },
	},
}

// mappingFor is total: anything unknown resolves to the string mapping.
func mappingFor(t LogicalType) typeMapping {
	if m, ok := typeMappings[t]; ok {
		return m
	}
	return typeMappings[TypeString]
}

// ParseType resolves a type token. Unknown tokens fall back to TypeString and
// report ok=false.
func ParseType(token string) (LogicalType, bool) {
	t := LogicalType(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := typeMappings[t]; ok {
		return t, true
	}
	return TypeString, false
}

package scaffold

import (
	"fmt"
	"strings"

	dbtemplate "github.com/Rana718/forge/template"
)

// MigrationTimeFormat stamps migration file names.
const MigrationTimeFormat = "20060102150405"

// RenderMigration returns a migration creating the resource table for the
// given provider, with matching down section.
func RenderMigration(res Resource, provider string) string {
	pt := dbtemplate.NewProjectTemplate(dbtemplate.ValidateDatabaseType(provider))
	table := res.Table()

	cols := []string{"id " + pt.PrimaryKey()}
	for _, f := range res.Fields {
		cols = append(cols, generateColumn(pt, f))
	}
	cols = append(cols,
		"created_at "+pt.TimestampColumn(),
		"updated_at "+pt.TimestampColumn(),
	)

	var b strings.Builder
	b.WriteString("-- migrate:up\n")
	fmt.Fprintf(&b, "CREATE TABLE %s (\n    %s\n);\n", table, strings.Join(cols, ",\n    "))
	for _, f := range res.Fields {
		if f.Indexed && !f.Unique {
			fmt.Fprintf(&b, "CREATE INDEX idx_%s_%s ON %s (%s);\n", table, f.Name, table, f.Name)
		}
	}
	b.WriteString("\n-- migrate:down\n")
	fmt.Fprintf(&b, "DROP TABLE IF EXISTS %s;\n", table)
	return b.String()
}

func generateColumn(pt *dbtemplate.ProjectTemplate, f Field) string {
	parts := []string{f.Name, pt.ColumnType(string(f.Type))}
	if !f.Optional {
		parts = append(parts, "NOT NULL")
	}
	if f.Unique {
		parts = append(parts, "UNIQUE")
	}
	return strings.Join(parts, " ")
}

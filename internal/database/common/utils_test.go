package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSQLStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "two statements",
			sql:  "CREATE TABLE a (id INT);\nCREATE TABLE b (id INT);",
			want: []string{"CREATE TABLE a (id INT)", "CREATE TABLE b (id INT)"},
		},
		{
			name: "semicolon in string",
			sql:  "INSERT INTO t VALUES ('x;y');",
			want: []string{"INSERT INTO t VALUES ('x;y')"},
		},
		{
			name: "comments dropped",
			sql:  "-- first\nDROP TABLE a;\n  -- trailing",
			want: []string{"DROP TABLE a"},
		},
		{
			name: "no trailing semicolon",
			sql:  "SELECT 1",
			want: []string{"SELECT 1"},
		},
		{
			name: "empty",
			sql:  "  \n-- nothing\n",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSQLStatements(tt.sql))
		})
	}
}

func TestFormatValue(t *testing.T) {
	id := [16]byte{0x12, 0x3e, 0x45, 0x67, 0xe8, 0x9b, 0x12, 0xd3, 0xa4, 0x56, 0x42, 0x66, 0x14, 0x17, 0x40, 0x00}

	assert.Equal(t, "hello", FormatValue([]byte("hello")))
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", FormatValue(id))
	assert.Equal(t, int64(7), FormatValue(int64(7)))
	assert.Nil(t, FormatValue(nil))
}

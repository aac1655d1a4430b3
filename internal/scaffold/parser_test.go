package scaffold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		token string
		want  Field
	}{
		{"title:str", Field{Name: "title", Type: TypeString}},
		{"title", Field{Name: "title", Type: TypeString}},
		{"title:", Field{Name: "title", Type: TypeString}},
		{"body:text:optional", Field{Name: "body", Type: TypeText, Optional: true}},
		{"email:str:unique:index", Field{Name: "email", Type: TypeString, Unique: true, Indexed: true}},
		{"price:FLOAT:Index", Field{Name: "price", Type: TypeFloat, Indexed: true}},
		{"createdBy:int", Field{Name: "created_by", Type: TypeInt}},
		{"field:weird", Field{Name: "field", Type: TypeString, RawType: "weird"}},
		{"count:int:sparkly", Field{Name: "count", Type: TypeInt, Ignored: []string{"sparkly"}}},
		{"at:datetime::optional", Field{Name: "at", Type: TypeDatetime, Optional: true}},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseField(tt.token))
		})
	}
}

func TestParseResourceUsage(t *testing.T) {
	for _, args := range [][]string{nil, {}, {"post"}} {
		_, err := ParseResource(args)
		assert.ErrorIs(t, err, ErrUsage)
	}
}

func TestParseResourcePreservesOrder(t *testing.T) {
	res, err := ParseResource([]string{"post", "title:str", "content:text", "published:bool"})
	require.NoError(t, err)

	assert.Equal(t, "post", res.Name)
	require.Len(t, res.Fields, 3)
	assert.Equal(t, "title", res.Fields[0].Name)
	assert.Equal(t, "content", res.Fields[1].Name)
	assert.Equal(t, "published", res.Fields[2].Name)
	assert.Empty(t, res.Warnings)
}

func TestNewResourceNaming(t *testing.T) {
	tests := []struct {
		in                                 string
		name, typeName, table, path, pkg string
	}{
		{"post", "post", "Post", "posts", "posts", "post"},
		{"Posts", "post", "Post", "posts", "posts", "post"},
		{"BlogPost", "blog_post", "BlogPost", "blog_posts", "blog-posts", "blogpost"},
		{"blog-post", "blog_post", "BlogPost", "blog_posts", "blog-posts", "blogpost"},
		{"category", "category", "Category", "categories", "categories", "category"},
		{"api_key", "api_key", "APIKey", "api_keys", "api-keys", "apikey"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res, err := NewResource(tt.in, []string{"title"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, res.Name)
			assert.Equal(t, tt.typeName, res.TypeName())
			assert.Equal(t, tt.table, res.Table())
			assert.Equal(t, tt.path, res.Path())
			assert.Equal(t, tt.pkg, res.Package())
		})
	}
}

func TestNewResourceEmptyName(t *testing.T) {
	_, err := NewResource("  ", []string{"title"})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestNewResourceDropsDuplicatesAndReserved(t *testing.T) {
	res, err := NewResource("post", []string{"title:str", "id:int", "title:text", "created_at:datetime", ":int"})
	require.NoError(t, err)

	require.Len(t, res.Fields, 1)
	assert.Equal(t, TypeString, res.Fields[0].Type)
	assert.Len(t, res.Warnings, 4)
}

func TestNewResourceWarnsOnFallbacks(t *testing.T) {
	res, err := NewResource("post", []string{"field:weird", "n:int:shiny"})
	require.NoError(t, err)

	require.Len(t, res.Fields, 2)
	assert.Equal(t, []string{
		`unknown type "weird" for field "field", using str`,
		`ignoring unknown option "shiny" on field "n"`,
	}, res.Warnings)
}

func TestGoIdent(t *testing.T) {
	assert.Equal(t, "CreatedBy", goIdent("created_by"))
	assert.Equal(t, "UserID", goIdent("user_id"))
	assert.Equal(t, "AvatarURL", goIdent("avatar_url"))
	assert.Equal(t, "Title", goIdent("title"))
}

func TestFieldVarAvoidsKeywords(t *testing.T) {
	assert.Equal(t, "typeValue", Field{Name: "type"}.Var())
	assert.Equal(t, "firstName", Field{Name: "first_name"}.Var())
}

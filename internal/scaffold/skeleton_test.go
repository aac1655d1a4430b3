package scaffold

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoRoot = "../.."

func TestSkeletonMatchesService(t *testing.T) {
	for file := range skeletonFiles {
		assert.FileExists(t, filepath.Join(repoRoot, file))
	}

	fset := token.NewFileSet()
	for _, d := range skeletonDecls {
		f, err := parser.ParseFile(fset, filepath.Join(repoRoot, d.file), nil, parser.SkipObjectResolution)
		require.NoError(t, err)
		assert.Equal(t, d.pkg, f.Name.Name, d.file)
		assert.Contains(t, topLevelNames(f), d.name, "%s no longer declares %s", d.file, d.name)
	}
}

func topLevelNames(f *ast.File) []string {
	var names []string
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}
	return names
}

func TestNewResourceRejectsSkeletonNames(t *testing.T) {
	tests := map[string]string{
		"helper":   "would overwrite internal/api/v1/helpers.go",
		"dep":      "would overwrite internal/api/v1/deps.go",
		"base":     "would overwrite internal/models/base.go",
		"registry": "would overwrite internal/models/registry.go",
		"auth":     "would redeclare v1.AuthHandler",
		"all":      "would redeclare models.All",
		"me":       "would redeclare v1_test.TestUpdateMe",
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewResource(name, []string{"title:str"})
			require.ErrorIs(t, err, ErrReservedName)
			assert.Contains(t, err.Error(), want)
		})
	}
}

func TestNewResourceAllowsUserRegeneration(t *testing.T) {
	res, err := NewResource("user", []string{"email:str:unique:index", "password:str"})
	require.NoError(t, err)
	assert.Len(t, res.Fields, 2)
}

func TestNewResourceRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"func", "type", "1st", "main"} {
		_, err := NewResource(name, []string{"title:str"})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestNewResourceSkipsGeneratedMembers(t *testing.T) {
	res, err := NewResource("widget", []string{"name:str", "table_name:str", "changes:int", "base:str", "to_model:bool"})
	require.NoError(t, err)

	require.Len(t, res.Fields, 1)
	assert.Equal(t, "name", res.Fields[0].Name)
	assert.Equal(t, []string{
		`skipping field "table_name": clashes with the generated TableName`,
		`skipping field "changes": clashes with the generated Changes`,
		`skipping field "base": clashes with the generated Base`,
		`skipping field "to_model": clashes with the generated ToModel`,
	}, res.Warnings)

	res, err = NewResource("widget", []string{"name:str", "1st:int"})
	require.NoError(t, err)
	assert.Len(t, res.Fields, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "not a valid Go identifier")
}

// stubImporter serves already checked packages by path and defers the rest to
// the standard library source importer.
type stubImporter struct {
	pkgs map[string]*types.Package
	std  types.Importer
}

func (s stubImporter) Import(p string) (*types.Package, error) {
	if pkg, ok := s.pkgs[p]; ok {
		return pkg, nil
	}
	return s.std.Import(p)
}

// typeCheck checks the generated model together with the service models and
// then the generated schema package against them.
func typeCheck(t *testing.T, res Resource) error {
	t.Helper()
	artifacts, err := Render(res, RenderOptions{Module: testModule})
	require.NoError(t, err)

	fset := token.NewFileSet()
	imp := stubImporter{pkgs: make(map[string]*types.Package), std: importer.ForCompiler(fset, "source", nil)}

	var modelFiles []*ast.File
	entries, err := os.ReadDir(filepath.Join(repoRoot, "internal/models"))
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".go") || strings.HasSuffix(e.Name(), "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(repoRoot, "internal/models", e.Name()), nil, 0)
		require.NoError(t, err)
		modelFiles = append(modelFiles, f)
	}

	schemaDir := path.Join("internal/schemas", res.Package())
	var schemaFiles []*ast.File
	for _, a := range artifacts {
		switch {
		case a.Category == CategoryModel:
			f, err := parser.ParseFile(fset, a.Path, a.Content, 0)
			require.NoError(t, err)
			modelFiles = append(modelFiles, f)
		case a.Category == CategorySchema && path.Dir(a.Path) == schemaDir:
			f, err := parser.ParseFile(fset, a.Path, a.Content, 0)
			require.NoError(t, err)
			schemaFiles = append(schemaFiles, f)
		}
	}
	require.Len(t, schemaFiles, 4)

	conf := types.Config{Importer: imp}
	models, err := conf.Check(testModule+"/internal/models", fset, modelFiles, nil)
	if err != nil {
		return err
	}
	imp.pkgs[testModule+"/internal/models"] = models

	_, err = conf.Check(testModule+"/"+schemaDir, fset, schemaFiles, nil)
	return err
}

func TestGeneratedModelAndSchemasTypeCheck(t *testing.T) {
	res, err := NewResource("blog_post", []string{
		"title:str:unique",
		"content:text:optional",
		"published:bool",
		"published_at:datetime:optional",
		"views:int",
		"rating:float",
	})
	require.NoError(t, err)

	assert.NoError(t, typeCheck(t, res))
}

func TestSkippedMembersKeepGeneratedCodeValid(t *testing.T) {
	res, err := NewResource("widget", []string{"name:str", "table_name:str", "changes:int", "base:str", "to_model:bool"})
	require.NoError(t, err)
	assert.NoError(t, typeCheck(t, res))

	clashing := Resource{Name: "widget", Fields: []Field{{Name: "table_name", Type: TypeString}}}
	err = typeCheck(t, clashing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TableName")
}

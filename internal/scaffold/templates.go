package scaffold

const modelTemplate = `package models
{{if .HasTime}}
import "time"
{{end}}
// {{.TypeName}} is the persistence model for the {{.Table}} table.
type {{.TypeName}} struct {
	Base
{{- range .Fields}}
	{{.GoName}} {{.GoType}} {{.ModelTag}}
{{- end}}
}

// TableName returns the table backing {{.TypeName}}.
func ({{.TypeName}}) TableName() string {
	return "{{.Table}}"
}
`

const schemaBaseTemplate = `package {{.Package}}
{{if .HasTime}}
import "time"
{{end}}
// Base holds the {{.Label}} fields shared by requests.
type Base struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}} {{.SchemaTag}}
{{- end}}
}
`

const schemaCreateTemplate = `package {{.Package}}

import "{{.Module}}/internal/models"

// Create is the request body for a new {{.Label}}.
type Create struct {
	Base
}

// ToModel builds the {{.TypeName}} to insert.
func (c Create) ToModel() *models.{{.TypeName}} {
	return &models.{{.TypeName}}{
{{- range .Fields}}
		{{.GoName}}: c.{{.GoName}},
{{- end}}
	}
}
`

const schemaUpdateTemplate = `package {{.Package}}
{{if .HasTime}}
import "time"
{{end}}
// Update is a partial update of a {{.Label}}. Nil fields are left unchanged.
type Update struct {
{{- range .Fields}}
	{{.GoName}} {{.PointerType}} {{.UpdateTag}}
{{- end}}
}

// Changes returns the columns to update keyed by column name.
func (u Update) Changes() map[string]any {
	changes := make(map[string]any)
{{- range .Fields}}
	if u.{{.GoName}} != nil {
		changes["{{.Name}}"] = *u.{{.GoName}}
	}
{{- end}}
	return changes
}
`

const schemaResponseTemplate = `package {{.Package}}

import (
	"time"

	"{{.Module}}/internal/models"
)

type Response struct {
	ID uint {{tag "json" "id"}}
{{- range .Fields}}
	{{.GoName}} {{.GoType}} {{.ResponseTag}}
{{- end}}
	CreatedAt time.Time {{tag "json" "created_at"}}
	UpdatedAt time.Time {{tag "json" "updated_at"}}
}

func FromModel(m *models.{{.TypeName}}) Response {
	return Response{
		ID: m.ID,
{{- range .Fields}}
		{{.GoName}}: m.{{.GoName}},
{{- end}}
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(ms []models.{{.TypeName}}) []Response {
	out := make([]Response, 0, len(ms))
	for i := range ms {
		out = append(out, FromModel(&ms[i]))
	}
	return out
}
`

const repositoryTemplate = `package repositories

import (
{{- if .UniqueFields}}
	"context"
{{end}}
	"gorm.io/gorm"

	"{{.Module}}/internal/models"
)

// {{.TypeName}}Repository is the data access layer for {{.Table}}.
type {{.TypeName}}Repository struct {
	*Repository[models.{{.TypeName}}]
}

func New{{.TypeName}}Repository(db *gorm.DB) *{{.TypeName}}Repository {
	return &{{.TypeName}}Repository{Repository: NewRepository[models.{{.TypeName}}](db)}
}
{{range .UniqueFields}}
// GetBy{{.GoName}} returns the {{$.Label}} with the given {{.Label}}.
func (r *{{$.TypeName}}Repository) GetBy{{.GoName}}(ctx context.Context, {{.Var}} {{.BaseGoType}}) (*models.{{$.TypeName}}, error) {
	return r.First(ctx, map[string]any{"{{.Name}}": {{.Var}}})
}

// {{.GoName}}Exists reports whether a {{$.Label}} with the given {{.Label}} exists.
func (r *{{$.TypeName}}Repository) {{.GoName}}Exists(ctx context.Context, {{.Var}} {{.BaseGoType}}) (bool, error) {
	return r.Exists(ctx, map[string]any{"{{.Name}}": {{.Var}}})
}
{{end}}`

const handlerTemplate = `package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"{{.Module}}/internal/apperrors"
	"{{.Module}}/internal/repositories"
	{{.Package}}schema "{{.Module}}/internal/schemas/{{.Package}}"
)

// {{.TypeName}}Handler serves the /{{.Path}} endpoints.
type {{.TypeName}}Handler struct {
	repo *repositories.{{.TypeName}}Repository
}

func New{{.TypeName}}Handler(db *gorm.DB) *{{.TypeName}}Handler {
	return &{{.TypeName}}Handler{repo: repositories.New{{.TypeName}}Repository(db)}
}

// Register mounts the {{.Label}} routes on rg.
func (h *{{.TypeName}}Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/{{.Path}}")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *{{.TypeName}}Handler) List(c *gin.Context) {
	page, err := parsePage(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items, err := h.repo.GetAll(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, {{.Package}}schema.FromModels(items))
}

func (h *{{.TypeName}}Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var in {{.Package}}schema.Create
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}
{{range .UniqueFields}}
{{- if .Optional}}
	if in.{{.GoName}} != nil {
		exists, err := h.repo.{{.GoName}}Exists(ctx, *in.{{.GoName}})
		if err != nil {
			_ = c.Error(err)
			return
		}
		if exists {
			_ = c.Error(apperrors.Conflict("{{$.Human}} with this {{.Label}} already exists"))
			return
		}
	}
{{- else}}
	exists{{.GoName}}, err := h.repo.{{.GoName}}Exists(ctx, in.{{.GoName}})
	if err != nil {
		_ = c.Error(err)
		return
	}
	if exists{{.GoName}} {
		_ = c.Error(apperrors.Conflict("{{$.Human}} with this {{.Label}} already exists"))
		return
	}
{{- end}}
{{end}}
	item := in.ToModel()
	if err := h.repo.Create(ctx, item); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, {{.Package}}schema.FromModel(item))
}

func (h *{{.TypeName}}Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(notFound(err, "{{.Human}} not found"))
		return
	}
	c.JSON(http.StatusOK, {{.Package}}schema.FromModel(item))
}

func (h *{{.TypeName}}Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	var in {{.Package}}schema.Update
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(apperrors.Validation(err.Error()))
		return
	}
{{- if .UniqueFields}}
	current, err := h.repo.GetByID(ctx, id)
	if err != nil {
		_ = c.Error(notFound(err, "{{.Human}} not found"))
		return
	}
{{- range .UniqueFields}}
	if in.{{.GoName}} != nil && {{if .Optional}}(current.{{.GoName}} == nil || *current.{{.GoName}} != *in.{{.GoName}}){{else}}current.{{.GoName}} != *in.{{.GoName}}{{end}} {
		exists, err := h.repo.{{.GoName}}Exists(ctx, *in.{{.GoName}})
		if err != nil {
			_ = c.Error(err)
			return
		}
		if exists {
			_ = c.Error(apperrors.Conflict("{{$.Human}} with this {{.Label}} already exists"))
			return
		}
	}
{{- end}}
{{- end}}

	item, err := h.repo.UpdateByID(ctx, id, in.Changes())
	if err != nil {
		_ = c.Error(notFound(err, "{{.Human}} not found"))
		return
	}
	c.JSON(http.StatusOK, {{.Package}}schema.FromModel(item))
}

func (h *{{.TypeName}}Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.repo.DeleteByID(c.Request.Context(), id); err != nil {
		_ = c.Error(notFound(err, "{{.Human}} not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
`

const handlerTestTemplate = `package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "{{.Module}}/internal/api/v1"
	"{{.Module}}/internal/models"
	"{{.Module}}/internal/testutil"
)

func new{{.TypeName}}App(t *testing.T) *testutil.App {
	t.Helper()
	app := testutil.NewApp(t, &models.{{.TypeName}}{})
	v1.New{{.TypeName}}Handler(app.DB).Register(app.Engine.Group("/api/v1"))
	return app
}

func create{{.TypeName}}(t *testing.T, app *testutil.App) map[string]any {
	t.Helper()
	w := app.Do(t, http.MethodPost, "/api/v1/{{.Path}}", map[string]any{
{{- range .Fields}}
		"{{.Name}}": {{.Literal}},
{{- end}}
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	app.Decode(t, w, &got)
	return got
}

func TestCreate{{.TypeName}}(t *testing.T) {
	app := new{{.TypeName}}App(t)

	payload := map[string]any{
{{- range .Fields}}
		"{{.Name}}": {{.Literal}},
{{- end}}
	}
	w := app.Do(t, http.MethodPost, "/api/v1/{{.Path}}", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	app.Decode(t, w, &got)
	assert.NotZero(t, got["id"])
{{- range .Fields}}
	assert.EqualValues(t, {{.Literal}}, got["{{.Name}}"])
{{- end}}
	assert.Contains(t, got, "created_at")
	assert.Contains(t, got, "updated_at")
}
{{if .UniqueFields}}
func TestCreate{{.TypeName}}Duplicate(t *testing.T) {
	app := new{{.TypeName}}App(t)
	first := create{{.TypeName}}(t, app)
	delete(first, "id")
	delete(first, "created_at")
	delete(first, "updated_at")

	w := app.Do(t, http.MethodPost, "/api/v1/{{.Path}}", first, nil)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}
{{end}}
func TestList{{.PluralTypeName}}(t *testing.T) {
	app := new{{.TypeName}}App(t)
	create{{.TypeName}}(t, app)

	w := app.Do(t, http.MethodGet, "/api/v1/{{.Path}}?skip=0&limit=10", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []map[string]any
	app.Decode(t, w, &got)
	assert.Len(t, got, 1)
}

func TestGet{{.TypeName}}(t *testing.T) {
	app := new{{.TypeName}}App(t)
	created := create{{.TypeName}}(t, app)

	w := app.Do(t, http.MethodGet, fmt.Sprintf("/api/v1/{{.Path}}/%v", created["id"]), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got map[string]any
	app.Decode(t, w, &got)
	assert.Equal(t, created["id"], got["id"])
}

func TestGet{{.TypeName}}NotFound(t *testing.T) {
	app := new{{.TypeName}}App(t)

	w := app.Do(t, http.MethodGet, "/api/v1/{{.Path}}/999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, ` + "`" + `{"detail":"{{.Human}} not found"}` + "`" + `, w.Body.String())
}

func TestUpdate{{.TypeName}}(t *testing.T) {
	app := new{{.TypeName}}App(t)
	created := create{{.TypeName}}(t, app)
	path := fmt.Sprintf("/api/v1/{{.Path}}/%v", created["id"])

	w := app.Do(t, http.MethodPatch, path, map[string]any{
{{- range .Fields}}
		"{{.Name}}": {{.Literal}},
{{- end}}
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDelete{{.TypeName}}(t *testing.T) {
	app := new{{.TypeName}}App(t)
	created := create{{.TypeName}}(t, app)
	path := fmt.Sprintf("/api/v1/{{.Path}}/%v", created["id"])

	w := app.Do(t, http.MethodDelete, path, nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = app.Do(t, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
`

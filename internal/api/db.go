package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-murals/internal/db"
)

// DBHandler serves read-only SQL over the data files.
type DBHandler struct {
	db *db.DB
}

// NewDBHandler creates a new database handler. A nil db answers 503.
func NewDBHandler(d *db.DB) *DBHandler {
	return &DBHandler{db: d}
}

// RegisterRoutes registers database routes with Huma.
func (h *DBHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/tables", h.ListTables, huma.OperationTags("db"))
	huma.Register(api, huma.Operation{
		OperationID: "query",
		Method:      "POST",
		Path:        "/api/v1/query",
		Summary:     "Run a SQL query",
		Tags:        []string{"db"},
	}, h.Query)
}

type TablesBody struct {
	Tables []string `json:"tables" doc:"Tables and views over the data files"`
}

// ListTables returns the queryable tables and views.
func (h *DBHandler) ListTables(ctx context.Context, input *struct{}) (*struct{ Body TablesBody }, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}
	h.db.Refresh(ctx)
	tables, err := h.db.Tables(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list tables", err)
	}
	return &struct{ Body TablesBody }{Body: TablesBody{Tables: tables}}, nil
}

// QueryInput is the input for SQL queries.
type QueryInput struct {
	Body struct {
		Query string `json:"query" minLength:"1" doc:"SQL query to execute" example:"SELECT id, lat, lng FROM mural_points"`
	}
}

// Query executes a SQL query against DuckDB.
func (h *DBHandler) Query(ctx context.Context, input *QueryInput) (*struct{ Body db.Result }, error) {
	if h.db == nil {
		return nil, huma.Error503ServiceUnavailable("Database not available")
	}
	res, err := h.db.Query(ctx, input.Body.Query)
	if err != nil {
		return nil, huma.Error400BadRequest("Query failed: " + err.Error())
	}
	return &struct{ Body db.Result }{Body: res}, nil
}

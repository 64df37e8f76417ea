// Package db exposes the JSON data files to DuckDB as read-only views for
// ad-hoc inspection.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/service"
)

// Config holds database configuration. An empty DBName opens an in-memory
// database.
type Config struct {
	DataDir string
	DBName  string
}

// view is a named query over a data file.
type view struct {
	name  string
	file  string
	query string // %s is replaced by the read_json_auto source
}

var views = []view{
	{name: "murals", file: "murals.json", query: `SELECT * FROM %s`},
	{name: "mural_points", file: "murals.json", query: `SELECT id, name, buildingCode,
		location.building AS building,
		location.coordinates.lat AS lat,
		location.coordinates.lng AS lng,
		artist.name AS artist
		FROM %s`},
	{name: "buildings", file: "buildings.json", query: `SELECT * FROM %s`},
	{name: "building_footprints", file: "buildings.json", query: `SELECT id, height, len(coordinates) AS points FROM %s`},
}

// DB is a DuckDB connection with views over the data directory.
type DB struct {
	*sql.DB
	dataDir string

	mu     sync.Mutex
	active map[string]bool
}

// Open connects to DuckDB and creates the views.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dsn := ""
	if cfg.DBName != "" {
		duckdbDir := filepath.Join(cfg.DataDir, "duckdb")
		if err := os.MkdirAll(duckdbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
		}
		dsn = filepath.Join(duckdbDir, cfg.DBName+".duckdb")
	}

	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening duckdb: %w", err)
	}
	d := &DB{DB: conn, dataDir: cfg.DataDir, active: map[string]bool{}}
	d.Refresh(ctx)
	return d, nil
}

// Refresh recreates every view. Views whose file is missing or cannot be
// parsed are dropped and logged. It returns the active view names.
func (d *DB) Refresh(ctx context.Context) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var names []string
	for _, v := range views {
		path := filepath.Join(d.dataDir, v.file)
		if _, err := os.Stat(path); err != nil {
			d.drop(ctx, v.name)
			continue
		}
		src := fmt.Sprintf("read_json_auto('%s')", strings.ReplaceAll(path, "'", "''"))
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS %s", v.name, fmt.Sprintf(v.query, src))
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			log.WithFields(log.Fields{"view": v.name, "file": path}).WithError(err).Warn("skipping view")
			d.drop(ctx, v.name)
			continue
		}
		d.active[v.name] = true
		names = append(names, v.name)
	}
	return names
}

func (d *DB) drop(ctx context.Context, name string) {
	if d.active[name] {
		_, _ = d.ExecContext(ctx, "DROP VIEW IF EXISTS "+name)
		delete(d.active, name)
	}
}

// Watch refreshes the views whenever a data file changes, until ctx is done.
func (d *DB) Watch(ctx context.Context, bus *service.EventBus) {
	sub := bus.Subscribe("murals", "buildings")
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C:
				if !ok {
					return
				}
				d.Refresh(ctx)
			}
		}
	}()
}

// Tables lists the tables and views visible to queries.
func (d *DB) Tables(ctx context.Context) ([]string, error) {
	rows, err := d.QueryContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Result is a generic query result.
type Result struct {
	Columns []string         `json:"columns" doc:"Column names"`
	Rows    []map[string]any `json:"rows" doc:"Query results"`
	Count   int              `json:"count" doc:"Number of rows returned"`
}

// Query runs q and collects every row into maps keyed by column.
func (d *DB) Query(ctx context.Context, q string) (Result, error) {
	rows, err := d.QueryContext(ctx, q)
	if err != nil {
		return Result{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Result{}, err
	}

	res := Result{Columns: columns, Rows: []map[string]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Result{}, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		res.Rows = append(res.Rows, row)
	}
	res.Count = len(res.Rows)
	return res, rows.Err()
}

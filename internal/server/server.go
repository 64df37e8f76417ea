package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/joeblew999/plat-murals/internal/api"
	"github.com/joeblew999/plat-murals/internal/api/editor"
	"github.com/joeblew999/plat-murals/internal/config"
	"github.com/joeblew999/plat-murals/internal/db"
	"github.com/joeblew999/plat-murals/internal/service"
	"github.com/joeblew999/plat-murals/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Optional directory with static/ and templates/ for the map page
	Site    config.Site
}

// Server is the murals HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	handler  http.Handler
	humaAPI  huma.API
	db       *db.DB
	bus      *service.EventBus
	services *api.Services
	renderer *templates.Renderer
	cancel   context.CancelFunc
}

// New creates a new murals server.
func New(cfg Config) *Server {
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("plat-murals API", api.Version)
	humaConfig.Info.Description = "Verde Station murals map: murals, traced buildings, map styles, tiles and walking directions."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	bus := service.NewEventBus()
	services := &api.Services{
		Murals:    service.NewMuralService(cfg.DataDir, bus),
		Buildings: service.NewBuildingService(cfg.DataDir, bus),
		Map:       cfg.Site.MapOptions(),
	}
	if cfg.Site.Token != "" {
		services.Directions = cfg.Site.Directions()
	} else {
		log.Warn("no directions token configured, /api/directions is disabled")
	}

	renderer, err := templates.New()
	if err != nil {
		log.WithError(err).Fatal("parsing embedded fragments")
	}
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		if _, err := os.Stat(fragmentsDir); err == nil {
			if r, err := templates.NewFromDir(fragmentsDir); err == nil {
				renderer = r
				log.WithField("dir", fragmentsDir).Info("loaded fragment templates")
			} else {
				log.WithError(err).Warn("using embedded fragments")
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		bus:      bus,
		services: services,
		renderer: renderer,
		cancel:   cancel,
	}

	conn, err := db.Open(ctx, db.Config{DataDir: cfg.DataDir, DBName: "murals"})
	if err != nil {
		log.WithError(err).Warn("duckdb unavailable")
	} else {
		s.db = conn
		conn.Watch(ctx, bus)
	}

	s.routes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(mux)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Services exposes the data services for CLI commands.
func (s *Server) Services() *api.Services {
	return s.services
}

// Close stops the view watcher and closes DuckDB.
func (s *Server) Close() error {
	s.cancel()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Server) routes() {
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.config.DataDir, s.db != nil, s.services.Directions != nil).RegisterRoutes(s.humaAPI)

	api.NewDBHandler(s.db).RegisterRoutes(s.humaAPI)

	murals := editor.NewMuralHandler(s.services.Murals, s.services.Directions, s.renderer)
	murals.RegisterRoutes(s.humaAPI)
	editor.NewEventHandler(murals, s.bus).RegisterRoutes(s.humaAPI)
	editor.NewCaptureHandler(s.services.Buildings).RegisterRoutes(s.humaAPI)

	if dir := s.config.Site.AssetsDir; dir != "" {
		s.mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(dir))))
	}

	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.config.WebDir != "" {
		page := filepath.Join(s.config.WebDir, "templates", "index.html")
		if _, err := os.Stat(page); err == nil {
			http.ServeFile(w, r, page)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-murals",
		"status":  "running",
	})
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/danielgtaylor/huma/v2/humacli"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-murals/internal/api"
	"github.com/joeblew999/plat-murals/internal/assets"
	"github.com/joeblew999/plat-murals/internal/config"
	"github.com/joeblew999/plat-murals/internal/geo"
	"github.com/joeblew999/plat-murals/internal/geolocation"
	"github.com/joeblew999/plat-murals/internal/mapview"
	"github.com/joeblew999/plat-murals/internal/server"
	"github.com/joeblew999/plat-murals/internal/service"
	"github.com/joeblew999/plat-murals/internal/store"
	"github.com/joeblew999/plat-murals/pkg/muralclient"
)

// Options defines all CLI flags and env vars for the murals server.
// Flags: --host, --port, --data-dir, --web-dir, --config
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR, SERVICE_CONFIG
type Options struct {
	Host    string `doc:"Host to bind to" default:"0.0.0.0"`
	Port    int    `doc:"Port to listen on" short:"p" default:"8086"`
	DataDir string `doc:"Directory holding murals.json and buildings.json" default:"data"`
	WebDir  string `doc:"Path to web/ directory" default:""`
	Config  string `doc:"Site config file (default: ./site.yaml if present)" default:""`
}

func loadSite(opts *Options) config.Site {
	site, err := config.Load(opts.Config, ".")
	if err != nil {
		log.WithError(err).Fatal("loading site config")
	}
	return site
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    strconv.Itoa(opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
		Site:    loadSite(opts),
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var srv *server.Server
		var httpServer *http.Server

		hooks.OnStart(func() {
			log.SetFormatter(&log.JSONFormatter{})
			srv = newServer(opts)

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			log.WithFields(log.Fields{
				"server":  baseURL,
				"data":    opts.DataDir,
				"docs":    baseURL + "/docs",
				"openapi": baseURL + "/openapi.json",
			}).Info("plat-murals API server starting")

			httpServer = &http.Server{Addr: addr, Handler: srv}
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Fatal("server error")
			}
		})

		hooks.OnStop(func() {
			if httpServer != nil {
				_ = httpServer.Shutdown(context.Background())
			}
			if srv != nil {
				_ = srv.Close()
			}
		})
	})

	cli.Root().Use = "murals"
	cli.Root().Short = "Verde Station murals map server"
	cli.Root().Version = api.Version

	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	nearestCmd := &cobra.Command{
		Use:   "nearest [<lat> <lng>]",
		Short: "Print the mural closest to a coordinate",
		Long: "Print the mural closest to a coordinate. With --watch, positions are read " +
			"from stdin one per line as \"lat,lng[,accuracy]\" and each fix prints the nearest mural.",
		Args: func(cmd *cobra.Command, args []string) error {
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			murals, err := service.NewMuralService(opts.DataDir, nil).List()
			if err != nil {
				log.WithError(err).Fatal("reading murals")
			}

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				w := geolocation.NewWatcher(geolocation.ReaderSource{R: os.Stdin})
				// stdin waits on the user, not a device
				w.Timeout = 0
				w.OnChange(func(state geolocation.State) {
					if state.Error != "" {
						fmt.Fprintln(os.Stderr, state.Error)
						return
					}
					at := geo.Coordinate{Lat: state.Position.Lat, Lng: state.Position.Lng}
					printNearest(at, murals)
				})
				if err := w.Start(cmd.Context()); err != nil {
					log.WithError(err).Fatal("watching positions")
				}
				w.Wait()
				return
			}

			if !printNearest(parseCoordinate(args[0], args[1]), murals) {
				os.Exit(1)
			}
		}),
	}
	nearestCmd.Flags().BoolP("watch", "w", false, "Read positions from stdin")
	cli.Root().AddCommand(nearestCmd)

	directionsCmd := &cobra.Command{
		Use:   "directions <lat> <lng> <mural-id>",
		Short: "Print walking directions from a coordinate to a mural",
		Args:  cobra.ExactArgs(3),
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			from := parseCoordinate(args[0], args[1])
			site := loadSite(opts)
			if site.Token == "" {
				log.Fatal("directions need MURALS_DIRECTIONS_TOKEN or MAPBOX_TOKEN")
			}
			m, err := service.NewMuralService(opts.DataDir, nil).Get(args[2])
			if err != nil {
				log.WithError(err).Fatal("finding mural")
			}

			route, err := site.Directions().Walking(cmd.Context(), from, m.Coordinate())
			if err != nil {
				log.WithError(err).Fatal("planning route")
			}
			summary := route.Summary()
			fmt.Printf("To %s: %s, %s\n", m.Name, summary.Distance, summary.Duration)
			for _, step := range summary.Steps {
				if step.Distance != "" {
					fmt.Printf("  %s %s (%s)\n", step.Icon, step.Instruction, step.Distance)
				} else {
					fmt.Printf("  %s %s\n", step.Icon, step.Instruction)
				}
			}
		}),
	}
	cli.Root().AddCommand(directionsCmd)

	matchCmd := &cobra.Command{
		Use:   "match-images",
		Short: "Attach asset folder images to murals using the folder mapping",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			site := loadSite(opts)
			mapping, err := assets.LoadMapping(site.AssetsMapping)
			if err != nil {
				log.WithError(err).Fatal("loading folder mapping")
			}
			svc := service.NewMuralService(opts.DataDir, nil)
			if _, err := assets.Run(svc, site.AssetsDir, mapping); err != nil {
				if errors.Is(err, assets.ErrNoChanges) {
					log.Warn("no murals updated")
					return
				}
				log.WithError(err).Fatal("matching images")
			}
		}),
	}
	cli.Root().AddCommand(matchCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the murals held by a running server as indented JSON",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			from, _ := cmd.Flags().GetString("from")
			s := store.New(muralclient.New(from))
			if err := s.Load(cmd.Context()); err != nil {
				os.Exit(1)
			}
			if err := s.Export(os.Stdout); err != nil {
				log.WithError(err).Fatal("exporting murals")
			}
		}),
	}
	exportCmd.Flags().String("from", "http://localhost:8086", "Base URL of the murals server")
	cli.Root().AddCommand(exportCmd)

	cli.Run()
}

func printNearest(at geo.Coordinate, murals []service.Mural) bool {
	m, meters, ok := mapview.NearestMural(at, murals)
	if !ok {
		fmt.Fprintln(os.Stderr, "No murals")
		return false
	}
	fmt.Printf("%s (%s) by %s, %s away\n", m.Name, m.BuildingCode, m.Artist.Name, geo.FormatDistance(meters))
	return true
}

func parseCoordinate(lat, lng string) geo.Coordinate {
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		log.WithError(err).Fatal("invalid latitude")
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		log.WithError(err).Fatal("invalid longitude")
	}
	return geo.Coordinate{Lat: la, Lng: ln}
}

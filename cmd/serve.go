package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/adjacency"
	"github.com/sells-group/demographics-cli/internal/coverage"
	"github.com/sells-group/demographics-cli/internal/demographics"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demographics HTTP API",
	Long: `Serves the aggregation and coverage APIs over HTTP. If a precomputed
adjacency artifact exists at the configured path it is loaded at startup and
exposed as a neighbour lookup endpoint.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, cleanup, err := openStatsStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var table *adjacency.Table
		if path := cfg.Adjacency.OutputPath; path != "" {
			if _, statErr := os.Stat(path); statErr == nil {
				table, err = adjacency.LoadFile(path)
				if err != nil {
					return err
				}
				zap.L().Info("adjacency table loaded",
					zap.String("path", path),
					zap.Int("areas", table.AreaCount),
				)
			} else {
				zap.L().Warn("no adjacency artifact, neighbour lookups disabled",
					zap.String("path", path),
				)
			}
		}

		router := buildRouter(store, table, cfg.Server.AllowedOrigins)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// buildRouter assembles the API routes. The adjacency table may be nil,
// in which case neighbour lookups answer 503.
func buildRouter(store demographics.StatsStore, table *adjacency.Table, origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/demographics", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			AreaCodes []string `json:"area_codes"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if len(body.AreaCodes) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "area_codes is required"})
			return
		}

		res, err := demographics.AggregateFromStore(req.Context(), store, body.AreaCodes)
		if err != nil {
			if eris.Is(err, demographics.ErrNoData) {
				writeJSON(w, http.StatusNotFound, map[string]string{
					"error": "no demographic data available for this selection",
				})
				return
			}
			zap.L().Error("aggregation failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		writeJSON(w, http.StatusOK, res)
	})

	r.Get("/v1/coverage", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		lat, _ := strconv.ParseFloat(q.Get("lat"), 64)
		lng, _ := strconv.ParseFloat(q.Get("lng"), 64)

		rep := coverage.Classify(splitAndTrim(q.Get("codes")), coverage.Location{
			Lat:  lat,
			Lng:  lng,
			Name: q.Get("name"),
		})
		writeJSON(w, http.StatusOK, rep)
	})

	r.Get("/v1/adjacency/{code}", func(w http.ResponseWriter, req *http.Request) {
		if table == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "adjacency table not loaded",
			})
			return
		}
		code := chi.URLParam(req, "code")
		neighbors, known := table.Neighbors[code]
		if !known {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": fmt.Sprintf("unknown area code %s", code),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"area_code": code,
			"neighbors": neighbors,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

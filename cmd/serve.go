package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/model"
	"github.com/sells-group/account-intel/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for research requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initResearch(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/research", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Company string `json:"company"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Company == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "company is required"})
				return
			}

			// Runs detached from the request: research takes minutes.
			go func() {
				result, err := env.Agent.Run(ctx, body.Company, nil)
				if err != nil {
					zap.L().Error("research failed",
						zap.String("company", body.Company),
						zap.Error(err),
					)
					return
				}
				if err := env.Store.SaveAnalysis(ctx, result); err != nil {
					zap.L().Error("save failed",
						zap.String("company", body.Company),
						zap.Error(err),
					)
					return
				}
				zap.L().Info("research complete",
					zap.String("company", body.Company),
					zap.String("id", result.ID),
					zap.String("status", string(result.RunStatus)),
				)
			}()

			writeJSON(w, http.StatusAccepted, map[string]string{
				"status":  "accepted",
				"company": body.Company,
			})
		})

		r.Get("/analyses", func(w http.ResponseWriter, req *http.Request) {
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			summaries, err := env.Store.ListAnalyses(req.Context(), store.AnalysisFilter{
				Status:  model.RunStatus(req.URL.Query().Get("status")),
				Subject: req.URL.Query().Get("subject"),
				Limit:   limit,
			})
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list failed"})
				return
			}
			if summaries == nil {
				summaries = []store.AnalysisSummary{}
			}
			writeJSON(w, http.StatusOK, summaries)
		})

		r.Get("/analyses/{id}", func(w http.ResponseWriter, req *http.Request) {
			a, err := env.Store.GetAnalysis(req.Context(), chi.URLParam(req, "id"))
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "get failed"})
				return
			}
			writeJSON(w, http.StatusOK, a)
		})

		r.Delete("/analyses/{id}", func(w http.ResponseWriter, req *http.Request) {
			err := env.Store.DeleteAnalysis(req.Context(), chi.URLParam(req, "id"))
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
				return
			}
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "delete failed"})
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/claims", func(w http.ResponseWriter, req *http.Request) {
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			claims, err := env.Store.TopClaims(req.Context(), limit)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "claims failed"})
				return
			}
			if claims == nil {
				claims = []store.ClaimRecord{}
			}
			writeJSON(w, http.StatusOK, claims)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

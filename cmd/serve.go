package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/floodscope/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored accuracy runs and histogram charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore()
		if err != nil {
			return eris.Wrap(err, "serve")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "serve")
		}

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /runs", func(w http.ResponseWriter, r *http.Request) {
			runs, err := st.ListRuns(r.Context(), 100)
			if err != nil {
				zap.L().Error("serve: list runs failed", zap.Error(err))
				http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(runs)
		})

		mux.HandleFunc("GET /runs/{id}/chart", func(w http.ResponseWriter, r *http.Request) {
			id := r.PathValue("id")
			runs, err := st.ListRuns(r.Context(), 1000)
			if err != nil {
				http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
				return
			}
			for _, run := range runs {
				if run.ID == id {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					entry := report.Entry{Raster: run.Raster, Result: run.Result}
					if err := report.RenderHistogramHTML(w, entry); err != nil {
						zap.L().Error("serve: render chart failed", zap.Error(err))
					}
					return
				}
			}
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}

		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()

		zap.L().Info("report server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (0 uses config)")
	rootCmd.AddCommand(serveCmd)
}

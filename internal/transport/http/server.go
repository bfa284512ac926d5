package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ForgeClient/internal/domain"
	"github.com/ForgeClient/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewHTTPServer(cfg *config.Config, repo domain.Repository) *http.Server {
	return &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: NewRouter(repo),
	}
}

func NewRouter(reader domain.RecordReader) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := fmt.Fprintf(w, "OK"); err != nil {
			slog.Debug("Failed to write health response", "error", err)
		}
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/records/{target:.+}", latestRecord(reader)).Methods("GET")
	return r
}

// latestRecord serves the most recently fetched record of a target such as "pulls:rails/rails".
func latestRecord(reader domain.RecordReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := mux.Vars(r)["target"]
		record, err := reader.GetLatest(r.Context(), target)
		if err != nil {
			slog.Error("Failed to load latest record", "target", target, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if record == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(record); err != nil {
			slog.Error("Failed to encode record", "target", target, "error", err)
		}
	}
}

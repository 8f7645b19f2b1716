// Package server exposes the latest scan over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"RSIRelative/internal/export"
	"RSIRelative/internal/scanner"

	"github.com/gorilla/mux"
)

// Runner triggers scans and keeps the latest report.
type Runner interface {
	RunNow(ctx context.Context) (*scanner.Report, error)
	Latest() *scanner.Report
}

// API serves scan results and a manual trigger.
type API struct {
	Runner Runner
	Router *mux.Router
}

// NewAPI creates the router.
func NewAPI(r Runner) *API {
	api := &API{Runner: r}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", api.Health).Methods("GET")
	router.HandleFunc("/results", api.GetResults).Methods("GET")
	router.HandleFunc("/results.csv", api.DownloadCSV).Methods("GET")
	router.HandleFunc("/scan", api.TriggerScan).Methods("POST")

	api.Router = router
	return api
}

// ServeHTTP implements the http.Handler interface
func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.Router.ServeHTTP(w, r)
}

func (api *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetResults returns the latest report as JSON.
func (api *API) GetResults(w http.ResponseWriter, r *http.Request) {
	rep := api.Runner.Latest()
	if rep == nil {
		http.Error(w, "no scan has completed yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// DownloadCSV streams the latest ranked table as an attachment.
func (api *API) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	rep := api.Runner.Latest()
	if rep == nil {
		http.Error(w, "no scan has completed yet", http.StatusNotFound)
		return
	}
	if rep.Empty() {
		http.Error(w, "latest scan produced no valid results", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DefaultFileName))
	if err := export.WriteCSV(w, rep.Rows); err != nil {
		log.Printf("[ERROR] write csv response: %v", err)
	}
}

// TriggerScan runs a scan synchronously and returns its summary.
func (api *API) TriggerScan(w http.ResponseWriter, r *http.Request) {
	rep, err := api.Runner.RunNow(r.Context())
	if err != nil {
		log.Printf("[ERROR] manual scan: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":  rep.RunID,
		"ranked":  len(rep.Rows),
		"skipped": len(rep.Skipped),
		"empty":   rep.Empty(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

// ListenAndServe serves api on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, api *API) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] http listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/ticket-raiser/judge/internal/handlers"
)

const checkTimeout = 2 * time.Second

// Checker is a dependency that can report whether it is reachable
type Checker interface {
	Ping(ctx context.Context) error
}

type ApiHandler struct {
	checks map[string]Checker
}

func NewHandler(checks map[string]Checker) *ApiHandler {
	return &ApiHandler{
		checks: checks,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", api.Live).Methods("GET")
	r.HandleFunc("/readyz", api.Ready).Methods("GET")
}

func (api *ApiHandler) Live(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready pings every dependency and answers 503 when any of them fails
func (api *ApiHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(api.checks))
	for name := range api.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := api.checks[name].Ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	handlers.ResponseWithJson(w, status, results)
}

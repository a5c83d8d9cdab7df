package workers

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/ticket-raiser/judge/internal/core/services/worker"
	"gitlab.com/ticket-raiser/judge/internal/handlers"
)

type ApiHandler struct {
	WorkerService worker.IWorkerStatusService
}

func NewHandler(WorkerService worker.IWorkerStatusService) *ApiHandler {
	return &ApiHandler{
		WorkerService: WorkerService,
	}
}

func (api *ApiHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/worker", api.GetSelf).Methods("GET")
	r.HandleFunc("/api/workers", api.GetWorkers).Methods("GET")
}

// GetSelf returns the local state of this worker
func (api *ApiHandler) GetSelf(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, api.WorkerService.Snapshot())
}

// GetWorkers lists every worker in the shared registry
func (api *ApiHandler) GetWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := api.WorkerService.GetAllWorkers(r.Context())
	if err != nil {
		handlers.ResponseError(w, "Failed to get workers", http.StatusInternalServerError)
		return
	}

	handlers.ResponseWithJson(w, http.StatusOK, map[string]interface{}{"workers": workers})
}

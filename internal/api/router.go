package api

import (
	"net/http"

	"github.com/mkagd/technik-sub005/internal/api/handlers"
	"github.com/mkagd/technik-sub005/internal/ports"
	"github.com/mkagd/technik-sub005/internal/services"
)

// RouterDeps carries the ports the API needs. Handlers stay unaware of
// concrete adapters; this is the API composition root.
type RouterDeps struct {
	Tasks       ports.TaskRepository
	Technicians ports.TechnicianRepository
	Demand      ports.DemandCounter
	Provider    ports.DistanceProvider
	SlotConfig  services.SlotConfig
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	availability := &handlers.AvailabilityHandler{
		Demand: deps.Demand,
		Roster: deps.Technicians,
	}
	match := &handlers.MatchHandler{Roster: deps.Technicians}
	route := &handlers.RouteHandler{Provider: deps.Provider}
	dispatch := &handlers.DispatchHandler{
		Tasks:       deps.Tasks,
		Technicians: deps.Technicians,
		Provider:    deps.Provider,
		SlotConfig:  deps.SlotConfig,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/availability", availability.Quote)
	mux.HandleFunc("/match", match.Match)
	mux.HandleFunc("/routes/optimize", route.Optimize)
	mux.HandleFunc("/dispatch/plan", dispatch.Plan)

	return loggingMiddleware(mux)
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bridgetable/internal/history"
	"bridgetable/internal/hub"
	"bridgetable/internal/ws"
)

func SetupRoutes(h *hub.Hub, rec history.Recorder, log *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/rooms", RoomStats(h))
	r.Get("/rooms/{roomID}/history", RoomHistory(rec, log))
	r.Get("/ws", ws.Handler(h, log))
	return r
}

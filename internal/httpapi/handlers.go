package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bridgetable/internal/engine"
	"bridgetable/internal/history"
	"bridgetable/internal/hub"
	"bridgetable/internal/room"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// roomStat is the read-only occupancy summary for a room browser.
type roomStat struct {
	ID        string       `json:"id"`
	Phase     engine.Phase `json:"phase"`
	Occupied  int          `json:"occupied"`
	Connected int          `json:"connected"`
}

// RoomStats answers the lobby-stats-query: per-room occupancy counts.
func RoomStats(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := make([]roomStat, 0, len(h.RoomIDs()))
		for _, id := range h.RoomIDs() {
			rm := h.Room(id)
			reply := make(chan room.View, 1)
			rm.Inbox() <- room.GetView{Reply: reply}
			select {
			case v := <-reply:
				stats = append(stats, roomStat{
					ID:        id,
					Phase:     v.Phase,
					Occupied:  len(v.Players),
					Connected: v.ConnectedHumans,
				})
			case <-time.After(2 * time.Second):
				http.Error(w, "room unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}

// RoomHistory serves the hand-history export documents for one room.
func RoomHistory(rec history.Recorder, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rec == nil {
			http.Error(w, "history not enabled", http.StatusNotFound)
			return
		}
		roomID := chi.URLParam(r, "roomID")
		exports, err := rec.ByRoom(roomID)
		if err != nil {
			if log != nil {
				log.Errorw("load history", "room", roomID, "err", err)
			}
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(exports)
	}
}

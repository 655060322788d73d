package preview

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Handler upgrades GET /ws/scenes/{sceneId} to a preview connection.
type Handler struct {
	hub            *Hub
	originPatterns []string
	exists         func(r *http.Request, sceneID string) bool
}

// NewHandler returns a websocket handler for hub. exists reports whether a
// scene may be watched; a nil exists admits every scene id.
func NewHandler(hub *Hub, originPatterns []string, exists func(r *http.Request, sceneID string) bool) *Handler {
	return &Handler{hub: hub, originPatterns: originPatterns, exists: exists}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sceneID := mux.Vars(r)["sceneId"]
	if h.exists != nil && !h.exists(r, sceneID) {
		http.Error(w, "scene not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, sceneID, uuid.New().String())
	if !h.hub.Register(client) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

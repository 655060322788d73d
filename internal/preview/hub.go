package preview

import (
	"context"
	"log/slog"
	"sync"
)

// MarkupLoader returns the current markup of a scene. It is used to greet a
// viewer joining a room that has not seen an update yet.
type MarkupLoader func(ctx context.Context, sceneID string) (string, error)

type Room struct {
	sceneID string
	clients map[string]*Client // clientID -> client
	seq     int64
	markup  string
}

func NewRoom(sceneID string) *Room {
	return &Room{
		sceneID: sceneID,
		clients: make(map[string]*Client),
	}
}

// Hub fans emitted markup out to every viewer of a scene.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sceneID -> room
	load       MarkupLoader
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub(load MarkupLoader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		load:       load,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register and unregister requests until ctx is done, then drops
// every remaining viewer.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Register adds client to its scene's room. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Viewers returns how many clients are watching sceneID.
func (h *Hub) Viewers(sceneID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[sceneID]; ok {
		return len(room.clients)
	}
	return 0
}

// Publish sends markup to all viewers of sceneID. Scenes without viewers are
// ignored.
func (h *Hub) Publish(sceneID, markup string) {
	msg, err := newMessage(TypeMarkupUpdate, sceneID, MarkupPayload{Markup: markup})
	if err != nil {
		slog.Error("marshal markup update", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sceneID]
	if !ok {
		return
	}
	room.seq++
	room.markup = markup
	msg.Seq = room.seq
	for _, c := range room.clients {
		c.Send(msg)
	}
}

// Close tells the viewers of sceneID that the scene is gone and drops them.
func (h *Hub) Close(sceneID string) {
	msg, _ := newMessage(TypeError, sceneID, ErrorPayload{Message: "scene deleted"})

	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sceneID]
	if !ok {
		return
	}
	for id, c := range room.clients {
		c.Send(msg)
		close(c.send)
		delete(room.clients, id)
	}
	delete(h.rooms, sceneID)
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SceneID]
	if !ok {
		room = NewRoom(client.SceneID)
		h.rooms[client.SceneID] = room
	}
	room.clients[client.ClientID] = client
	markup, seq := room.markup, room.seq
	h.mu.Unlock()

	var loadErr error
	if seq == 0 && h.load != nil {
		markup, loadErr = h.load(ctx, client.SceneID)
		if loadErr != nil {
			slog.Warn("load preview markup", "error", loadErr, "scene", client.SceneID)
		}
	}

	welcome, _ := newMessage(TypeWelcome, client.SceneID, WelcomePayload{ClientID: client.ClientID})
	welcome.ClientID = client.ClientID

	// Sends happen under the read lock so a concurrent Close cannot close
	// the channel underneath them.
	h.mu.RLock()
	if _, ok := room.clients[client.ClientID]; ok {
		client.Send(welcome)
		switch {
		case loadErr != nil:
			msg, _ := newMessage(TypeError, client.SceneID, ErrorPayload{Message: loadErr.Error()})
			client.Send(msg)
		case markup != "":
			msg, _ := newMessage(TypeMarkupUpdate, client.SceneID, MarkupPayload{Markup: markup})
			msg.Seq = seq
			client.Send(msg)
		}
	}
	h.mu.RUnlock()

	h.broadcastViewers(client.SceneID)
	slog.Info("viewer joined", "client", client.ClientID, "scene", client.SceneID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SceneID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)

	if len(room.clients) == 0 {
		delete(h.rooms, client.SceneID)
	}
	h.mu.Unlock()

	h.broadcastViewers(client.SceneID)
	slog.Info("viewer left", "client", client.ClientID, "scene", client.SceneID)
}

func (h *Hub) broadcastViewers(sceneID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[sceneID]
	if !ok {
		return
	}
	msg, err := newMessage(TypeViewers, sceneID, ViewersPayload{Count: len(room.clients)})
	if err != nil {
		return
	}
	for _, c := range room.clients {
		c.Send(msg)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sceneID, room := range h.rooms {
		for _, c := range room.clients {
			close(c.send)
		}
		delete(h.rooms, sceneID)
	}
}

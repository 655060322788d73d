package scenes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/ops"
	"github.com/inamate/vecscene/internal/snapshot"
)

const maxBodySize = 8 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes registers the scene endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/scenes", h.List).Methods("GET")
	r.HandleFunc("/scenes", h.Create).Methods("POST")
	r.HandleFunc("/scenes/import", h.Import).Methods("POST")
	r.HandleFunc("/scenes/{sceneId}", h.Get).Methods("GET")
	r.HandleFunc("/scenes/{sceneId}", h.Put).Methods("PUT")
	r.HandleFunc("/scenes/{sceneId}", h.Delete).Methods("DELETE")
	r.HandleFunc("/scenes/{sceneId}/ops", h.Apply).Methods("POST")
	r.HandleFunc("/scenes/{sceneId}/svg", h.Markup).Methods("GET")
}

type createResponse struct {
	ID string `json:"id"`
}

type applyResponse struct {
	OperationID string          `json:"operationId"`
	Scene       json.RawMessage `json:"scene"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	codec, err := requestCodec(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	scene := document.NewScene(document.Viewport{})
	if len(bytes.TrimSpace(body)) > 0 {
		scene, err = codec.Decode(bytes.NewReader(body))
		if err != nil {
			handleServiceError(w, err)
			return
		}
	}

	id, err := h.service.Create(r.Context(), scene)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/scenes/"+id)
	writeJSON(w, http.StatusCreated, createResponse{ID: id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	codec, err := requestCodec(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	scene, err := h.service.Get(r.Context(), mux.Vars(r)["sceneId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, scene); err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	codec, err := requestCodec(r)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	scene, err := codec.Decode(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.Put(r.Context(), mux.Vars(r)["sceneId"], scene); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["sceneId"]); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	op, err := ops.Decode(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if op.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type is required"})
		return
	}

	applied, err := h.service.Apply(r.Context(), mux.Vars(r)["sceneId"], op)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	data, err := snapshot.Marshal(applied.Scene)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, applyResponse{OperationID: applied.OperationID, Scene: data})
}

func (h *Handler) Markup(w http.ResponseWriter, r *http.Request) {
	minify, _ := strconv.ParseBool(r.URL.Query().Get("minify"))
	out, err := h.service.Markup(r.Context(), mux.Vars(r)["sceneId"], minify)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", markup.MediaType)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// requestCodec picks the snapshot format from ?format=, then from a YAML
// Content-Type, and falls back to JSON.
func requestCodec(r *http.Request) (snapshot.Codec, error) {
	if format := r.URL.Query().Get("format"); format != "" {
		return snapshot.CodecFor(format)
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return snapshot.YAML, nil
	}
	return snapshot.JSON, nil
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "scene not found"})
	case errors.Is(err, document.ErrIndexOutOfRange), errors.Is(err, document.ErrNotGroup):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, snapshot.ErrDecode),
		errors.Is(err, snapshot.ErrUnknownFormat),
		errors.Is(err, ops.ErrUnknownOperation),
		errors.Is(err, ops.ErrMissingPayload),
		errors.Is(err, ops.ErrWrongTarget),
		errors.Is(err, ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

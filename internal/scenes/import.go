package scenes

import (
	"net/http"

	"github.com/inamate/vecscene/internal/snapshot"
)

const maxUploadSize = 10 << 20 // 10MB

// ImportResponse is returned from the import endpoint.
type ImportResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Shapes int    `json:"shapes"`
}

// Import handles POST /scenes/import (multipart form with a "file" field).
// The snapshot format follows the file name's extension.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	codec, err := snapshot.CodecFor(header.Filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	scene, err := codec.Decode(file)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	id, err := h.service.Create(r.Context(), scene)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/scenes/"+id)
	writeJSON(w, http.StatusCreated, ImportResponse{
		ID:     id,
		URL:    "/scenes/" + id,
		Name:   header.Filename,
		Format: codec.Name(),
		Shapes: len(scene.Shapes),
	})
}

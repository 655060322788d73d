package scenes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/tdewolff/test"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/snapshot"
	"github.com/inamate/vecscene/internal/store"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published map[string][]string
	closed    []string
}

func (p *recordingPublisher) Publish(sceneID, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil {
		p.published = map[string][]string{}
	}
	p.published[sceneID] = append(p.published[sceneID], text)
}

func (p *recordingPublisher) Close(sceneID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, sceneID)
}

type fixture struct {
	router  *mux.Router
	service *Service
	pub     *recordingPublisher
	dir     string
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	dir := t.TempDir()
	st, err := store.NewFileStore(dir, snapshot.JSON)
	test.Error(t, err)

	pub := &recordingPublisher{}
	svc := NewService(st, pub, opts)
	r := mux.NewRouter()
	NewHandler(svc).Routes(r)
	return &fixture{router: r, service: svc, pub: pub, dir: dir}
}

func (f *fixture) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) create(t *testing.T, scene document.Scene) string {
	t.Helper()
	data, err := snapshot.Marshal(scene)
	test.Error(t, err)
	rec := f.do(t, http.MethodPost, "/scenes", data)
	test.T(t, rec.Code, http.StatusCreated)

	var resp createResponse
	test.Error(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	test.That(t, strings.HasPrefix(resp.ID, "scene_"), resp.ID)
	test.String(t, rec.Header().Get("Location"), "/scenes/"+resp.ID)
	return resp.ID
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t, Options{})
	scene := document.Sample()
	id := f.create(t, scene)

	rec := f.do(t, http.MethodGet, "/scenes/"+id, nil)
	test.T(t, rec.Code, http.StatusOK)
	test.String(t, rec.Header().Get("Content-Type"), "application/json")
	got, err := snapshot.Unmarshal(rec.Body.Bytes())
	test.Error(t, err)
	test.That(t, document.Equal(got, scene), document.Diff(got, scene))

	rec = f.do(t, http.MethodGet, "/scenes/"+id+"?format=yaml", nil)
	test.T(t, rec.Code, http.StatusOK)
	test.String(t, rec.Header().Get("Content-Type"), "application/yaml")
	got, err = snapshot.YAML.Decode(rec.Body)
	test.Error(t, err)
	test.That(t, document.Equal(got, scene))

	test.T(t, len(f.pub.published[id]), 1)
	test.String(t, f.pub.published[id][0], markup.String(scene))
}

func TestCreateEmptyBody(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(t, http.MethodPost, "/scenes", nil)
	test.T(t, rec.Code, http.StatusCreated)

	var resp createResponse
	test.Error(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	scene, err := f.service.Get(context.Background(), resp.ID)
	test.Error(t, err)
	test.T(t, len(scene.Shapes), 0)
}

func TestList(t *testing.T) {
	f := newFixture(t, Options{})
	a := f.create(t, document.Sample())
	b := f.create(t, document.Sample())

	rec := f.do(t, http.MethodGet, "/scenes", nil)
	test.T(t, rec.Code, http.StatusOK)
	var ids []string
	test.Error(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	test.T(t, len(ids), 2)
	test.That(t, (ids[0] == a && ids[1] == b) || (ids[0] == b && ids[1] == a), ids)
}

func TestPut(t *testing.T) {
	f := newFixture(t, Options{})
	id := f.create(t, document.Sample())

	replacement := document.NewScene(document.Viewport{To: document.Pt(1, 1)}, document.NewLine(document.Pt(0, 0), document.Pt(1, 1)))
	var buf bytes.Buffer
	test.Error(t, snapshot.YAML.Encode(&buf, replacement))

	rec := f.do(t, http.MethodPut, "/scenes/"+id+"?format=yaml", buf.Bytes())
	test.T(t, rec.Code, http.StatusNoContent)
	got, err := f.service.Get(context.Background(), id)
	test.Error(t, err)
	test.That(t, document.Equal(got, replacement), document.Diff(got, replacement))

	rec = f.do(t, http.MethodPut, "/scenes/not-a-typeid", []byte(`{"viewport":{"from":{"x":0,"y":0},"to":{"x":0,"y":0}},"shapes":[]}`))
	test.T(t, rec.Code, http.StatusBadRequest)
}

func TestPutRejectsUnemittableScene(t *testing.T) {
	f := newFixture(t, Options{})
	scene := document.Sample()
	id := f.create(t, scene)

	broken := document.NewScene(document.Viewport{}, document.Shape{})
	err := f.service.Put(context.Background(), id, broken)
	test.That(t, errors.Is(err, markup.ErrUnsupportedVariant), err)

	got, err := f.service.Get(context.Background(), id)
	test.Error(t, err)
	test.That(t, document.Equal(got, scene))
	test.T(t, len(f.pub.published[id]), 1)
}

func TestApply(t *testing.T) {
	f := newFixture(t, Options{})
	id := f.create(t, document.NewScene(document.Viewport{To: document.Pt(10, 10)}))

	op := []byte(`{"type":"shape.insert","index":0,"shape":{"shape":{"Rectangle":{"origin":{"x":1,"y":2},"width":3,"height":4}},"styles":{"translate":{"x":0,"y":0},"rotate":"Flipx","fill":{"red":0,"green":0,"blue":0,"transparency":0},"outline":{"red":0,"green":0,"blue":0,"transparency":0}}}}`)
	rec := f.do(t, http.MethodPost, "/scenes/"+id+"/ops", op)
	test.T(t, rec.Code, http.StatusOK)

	var resp applyResponse
	test.Error(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	test.That(t, strings.HasPrefix(resp.OperationID, "op_"), resp.OperationID)
	scene, err := snapshot.Unmarshal(resp.Scene)
	test.Error(t, err)
	test.T(t, len(scene.Shapes), 1)
	test.T(t, scene.Shapes[0].Styles.Rotate, document.FlipX())

	stored, err := f.service.Get(context.Background(), id)
	test.Error(t, err)
	test.That(t, document.Equal(stored, scene))
	test.T(t, len(f.pub.published[id]), 2)
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t, Options{})
	id := f.create(t, document.NewScene(document.Viewport{}))

	var tests = []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"malformed body", id, `{`, http.StatusBadRequest},
		{"missing type", id, `{"index":0}`, http.StatusBadRequest},
		{"unknown type", id, `{"type":"shape.spin"}`, http.StatusBadRequest},
		{"misspelled index", id, `{"type":"shape.remove","idx":0}`, http.StatusBadRequest},
		{"missing index", id, `{"type":"shape.remove"}`, http.StatusBadRequest},
		{"bad payload", id, `{"type":"shape.insert","shape":{"shape":"Blob"}}`, http.StatusBadRequest},
		{"out of range", id, `{"type":"shape.remove","index":0}`, http.StatusUnprocessableEntity},
		{"unknown scene", "scene_missing", `{"type":"shape.remove","index":0}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/scenes/"+tt.target+"/ops", []byte(tt.body))
			test.T(t, rec.Code, tt.status)
		})
	}

	// Nothing but the initial create was published or saved.
	test.T(t, len(f.pub.published[id]), 1)
	scene, err := f.service.Get(context.Background(), id)
	test.Error(t, err)
	test.T(t, len(scene.Shapes), 0)
}

func TestMarkupEndpoint(t *testing.T) {
	f := newFixture(t, Options{})
	scene := document.Sample()
	id := f.create(t, scene)

	rec := f.do(t, http.MethodGet, "/scenes/"+id+"/svg", nil)
	test.T(t, rec.Code, http.StatusOK)
	test.String(t, rec.Header().Get("Content-Type"), markup.MediaType)
	test.String(t, rec.Body.String(), markup.String(scene))

	rec = f.do(t, http.MethodGet, "/scenes/"+id+"/svg?minify=true", nil)
	test.T(t, rec.Code, http.StatusOK)
	test.That(t, rec.Body.Len() < len(markup.String(scene)))
}

func TestDelete(t *testing.T) {
	f := newFixture(t, Options{})
	id := f.create(t, document.Sample())

	rec := f.do(t, http.MethodDelete, "/scenes/"+id, nil)
	test.T(t, rec.Code, http.StatusNoContent)
	test.T(t, f.pub.closed, []string{id})

	rec = f.do(t, http.MethodGet, "/scenes/"+id, nil)
	test.T(t, rec.Code, http.StatusNotFound)
	rec = f.do(t, http.MethodDelete, "/scenes/"+id, nil)
	test.T(t, rec.Code, http.StatusNotFound)
}

func TestUnknownFormat(t *testing.T) {
	f := newFixture(t, Options{})
	id := f.create(t, document.Sample())
	rec := f.do(t, http.MethodGet, "/scenes/"+id+"?format=toml", nil)
	test.T(t, rec.Code, http.StatusBadRequest)
}

func TestExportOnSave(t *testing.T) {
	f := newFixture(t, Options{ExportMarkup: true})
	scene := document.Sample()
	id := f.create(t, scene)

	data, err := os.ReadFile(filepath.Join(f.dir, id+".svg"))
	test.Error(t, err)
	test.String(t, string(data), markup.String(scene))
}

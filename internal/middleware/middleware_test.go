package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tdewolff/test"
)

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	test.T(t, rec.Code, http.StatusInternalServerError)
}

func TestLoggerKeepsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pot", nil))
	test.T(t, rec.Code, http.StatusTeapot)
	test.String(t, rec.Body.String(), "short and stout")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := CORS([]string{"http://localhost:5173"})(next)

	var tests = []struct {
		method  string
		origin  string
		status  int
		allowed string
	}{
		{http.MethodGet, "http://localhost:5173", http.StatusOK, "http://localhost:5173"},
		{http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{http.MethodOptions, "http://localhost:5173", http.StatusNoContent, "http://localhost:5173"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/scenes", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		test.T(t, rec.Code, tt.status)
		test.String(t, rec.Header().Get("Access-Control-Allow-Origin"), tt.allowed)
	}

	wildcard := CORS([]string{"*"})(next)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	rec := httptest.NewRecorder()
	wildcard.ServeHTTP(rec, req)
	test.String(t, rec.Header().Get("Access-Control-Allow-Origin"), "http://anywhere.example")
}

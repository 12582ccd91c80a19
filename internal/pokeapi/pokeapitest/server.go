// Package pokeapitest serves a small fixed catalog over HTTP for tests.
package pokeapitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tturner/dexterm/internal/pokeapi"
)

// Fixture is one entry served by the fake API.
type Fixture struct {
	ID    int
	Name  string
	Types []string
}

// DefaultFixtures returns three entries with distinct first types.
func DefaultFixtures() []Fixture {
	return []Fixture{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}},
		{ID: 4, Name: "charmander", Types: []string{"fire"}},
		{ID: 7, Name: "squirtle", Types: []string{"water"}},
	}
}

// Server is a fake catalog API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	fixtures []Fixture
	fail     map[string]int // path -> status code
	requests []string
}

// NewServer starts a server for fixtures and closes it when t finishes.
func NewServer(t testing.TB, fixtures []Fixture) *Server {
	t.Helper()
	s := &Server{fixtures: fixtures, fail: map[string]int{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail makes requests for path answer with status.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = status
}

// Requests returns the paths requested so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	if r.URL.Path == "/pokemon/" {
		path = "/pokemon"
	}

	s.mu.Lock()
	s.requests = append(s.requests, path)
	status, failing := s.fail[path]
	s.mu.Unlock()
	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}

	switch {
	case path == "/pokemon":
		s.writeList(w, r)
	case strings.HasPrefix(path, "/pokemon/"):
		s.writeDetail(w, strings.TrimPrefix(path, "/pokemon/"))
	case strings.HasPrefix(path, "/img/"):
		writePNG(w)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) writeList(w http.ResponseWriter, r *http.Request) {
	limit := len(s.fixtures)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v < limit {
		limit = v
	}
	out := pokeapi.ListResponse{Count: len(s.fixtures)}
	for _, f := range s.fixtures[:limit] {
		out.Results = append(out.Results, pokeapi.NamedResource{
			Name: f.Name,
			URL:  fmt.Sprintf("%s/pokemon/%d/", s.URL, f.ID),
		})
	}
	writeJSON(w, out)
}

func (s *Server) writeDetail(w http.ResponseWriter, key string) {
	for _, f := range s.fixtures {
		if key == f.Name || key == strconv.Itoa(f.ID) {
			writeJSON(w, s.payload(f))
			return
		}
	}
	http.Error(w, "Not Found", http.StatusNotFound)
}

// payload builds the detail JSON the real API returns for f.
func (s *Server) payload(f Fixture) map[string]any {
	types := make([]map[string]any, 0, len(f.Types))
	for i, name := range f.Types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": name, "url": ""}})
	}
	return map[string]any{
		"id":     f.ID,
		"name":   f.Name,
		"height": 7,
		"weight": 69,
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("%s/img/front/%d.png", s.URL, f.ID),
			"back_default":  fmt.Sprintf("%s/img/back/%d.png", s.URL, f.ID),
			"other": map[string]any{
				"official-artwork": map[string]string{"front_default": fmt.Sprintf("%s/img/art/%d.png", s.URL, f.ID)},
			},
		},
		"types": types,
		"abilities": []map[string]any{
			{"ability": map[string]string{"name": "overgrow", "url": ""}, "is_hidden": false, "slot": 1},
			{"ability": map[string]string{"name": "chlorophyll", "url": ""}, "is_hidden": true, "slot": 3},
		},
		"stats": []map[string]any{
			{"base_stat": 45, "effort": 0, "stat": map[string]string{"name": "hp", "url": ""}},
			{"base_stat": 65, "effort": 1, "stat": map[string]string{"name": "special-attack", "url": ""}},
		},
		"forms": []map[string]string{{"name": f.Name, "url": ""}},
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writePNG(w http.ResponseWriter) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 0x7A, G: 0xC7, B: 0x4C, A: 0xFF})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

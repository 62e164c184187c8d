package testkit

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxUploadSize = 10 << 20 // 10MB

// Reply is a canned response
type Reply struct {
	Status      int
	Body        string
	ContentType string // defaults to application/json
}

// JSONReply marshals v into a 200 reply
func JSONReply(v interface{}) Reply {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Reply{Status: http.StatusOK, Body: string(raw)}
}

// Hit records one request received by the stub
type Hit struct {
	Path        string
	ContentType string
	RequestID   string
	FileName    string
	FileContent []byte
	Body        []byte
}

// StubServer serves canned /upload and /predict replies and records every request.
// It does not look at dataset contents.
type StubServer struct {
	mu           sync.Mutex
	router       *chi.Mux
	uploadReply  Reply
	predictReply Reply
	hits         []Hit
}

// NewStubServer creates a stub answering with a small successful dataset and forecast
func NewStubServer() *StubServer {
	s := &StubServer{
		router:       chi.NewRouter(),
		uploadReply:  JSONReply(map[string]interface{}{"weeks": 52}),
		predictReply: JSONReply(map[string]interface{}{"predictions": []int{120, 131, 118, 125, 97}}),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/predict", s.handlePredict)
	return s
}

// Handler returns the HTTP handler
func (s *StubServer) Handler() http.Handler {
	return s.router
}

// SetUploadReply replaces the /upload response
func (s *StubServer) SetUploadReply(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadReply = r
}

// SetPredictReply replaces the /predict response
func (s *StubServer) SetPredictReply(r Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictReply = r
}

// Hits returns a copy of the recorded requests
func (s *StubServer) Hits() []Hit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Hit, len(s.hits))
	copy(out, s.hits)
	return out
}

// HitCount returns how many requests reached path
func (s *StubServer) HitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		if h.Path == path {
			n++
		}
	}
	return n
}

func (s *StubServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	hit := newHit(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.record(hit)
		writeReply(w, JSONReply(map[string]string{"error": "No file uploaded"}))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.record(hit)
		writeReply(w, JSONReply(map[string]string{"error": "No file uploaded"}))
		return
	}
	defer file.Close()

	hit.FileName = header.Filename
	hit.FileContent, _ = io.ReadAll(file)
	s.record(hit)

	s.mu.Lock()
	reply := s.uploadReply
	s.mu.Unlock()
	writeReply(w, reply)
}

func (s *StubServer) handlePredict(w http.ResponseWriter, r *http.Request) {
	hit := newHit(r)
	hit.Body, _ = io.ReadAll(r.Body)
	s.record(hit)

	s.mu.Lock()
	reply := s.predictReply
	s.mu.Unlock()
	writeReply(w, reply)
}

func (s *StubServer) record(hit Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits = append(s.hits, hit)
}

func newHit(r *http.Request) Hit {
	return Hit{
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
	}
}

func writeReply(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := reply.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply.Body)
}

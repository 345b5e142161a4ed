package server

import (
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/nicebartender/bothost/store"
)

// Server routes bot requests to registered bots and serves the admin
// interface. The request counter lives in memory and resets on restart.
type Server struct {
	registry *Registry
	store    *store.Store // nil disables the request log
	public   string
	requests atomic.Int64
}

func New(registry *Registry, st *store.Store, publicDir string) *Server {
	return &Server{
		registry: registry,
		store:    st,
		public:   publicDir,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleAdmin)
	mux.Handle("GET /js/", http.StripPrefix("/js/", http.FileServer(http.Dir(filepath.Join(s.public, "js")))))
	mux.Handle("GET /css/", http.StripPrefix("/css/", http.FileServer(http.Dir(filepath.Join(s.public, "css")))))

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /bot/{name}", s.handleBot)
	mux.HandleFunc("GET /bot/{name}/settings", s.handleSettings)
	mux.HandleFunc("GET /requests", s.handleRequests)

	return mux
}

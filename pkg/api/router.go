package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"imageboard/pkg/config"
	"imageboard/pkg/media"
	"imageboard/pkg/store"
)

// Server bundles the handlers with their collaborators.
type Server struct {
	cfg      *config.Config
	pipeline *media.Pipeline
	limiter  *limiterPool
}

// NewServer builds the HTTP surface around the given config and media
// pipeline.
func NewServer(cfg *config.Config, pipeline *media.Pipeline) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		limiter:  newLimiterPool(cfg.Security.RateLimit),
	}
}

// Router returns the fully wired mux router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware, metricsMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if !store.Ready() {
			jsonError(w, http.StatusServiceUnavailable, "store not ready")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// pages
	r.HandleFunc("/", s.homepage).Methods(http.MethodGet)
	r.HandleFunc("/thread/{id:[0-9]+}", s.viewThread).Methods(http.MethodGet)
	r.Handle("/thread", s.limiter.wrap(http.HandlerFunc(s.createThread))).Methods(http.MethodPost)
	r.Handle("/reply", s.limiter.wrap(http.HandlerFunc(s.createReply))).Methods(http.MethodPost)

	// JSON listings
	r.HandleFunc("/api/threads", s.apiListThreads).Methods(http.MethodGet)
	r.HandleFunc("/api/threads/{id:[0-9]+}/replies", s.apiListReplies).Methods(http.MethodGet)

	// static media and assets; directory listings are not exposed
	r.PathPrefix("/uploads/images/").Handler(
		http.StripPrefix("/uploads/images/", noIndexFileServer(s.pipeline.ImageDir)))
	r.PathPrefix("/uploads/videos/").Handler(
		http.StripPrefix("/uploads/videos/", noIndexFileServer(s.pipeline.VideoDir)))
	r.PathPrefix("/thumbs/images/").Handler(
		http.StripPrefix("/thumbs/images/", noIndexFileServer(s.pipeline.ThumbDir)))
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", noIndexFileServer("./static")))

	return r
}

// noIndexFileServer serves files from dir but refuses directory browsing.
func noIndexFileServer(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

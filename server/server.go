// Package server exposes the analysis pipeline as a JSON HTTP API. Every
// analysis response carries a fresh run id; scans run in the background
// and are polled by id.
package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/scanner"
)

// PathPrefix is where the API is mounted.
const PathPrefix = "/api/v1"

const uuidPattern = "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}"

// maxSourceBytes bounds request bodies.
const maxSourceBytes = 1 << 20

type Server struct {
	router   chi.Router
	scanner  *scanner.Scanner
	analysis []java.Option
	log      commonlog.Logger
}

type Option func(*Server)

// WithAnalysis sets the defaults every analysis request starts from.
func WithAnalysis(opts ...java.Option) Option {
	return func(s *Server) {
		s.analysis = append(s.analysis, opts...)
	}
}

// WithScanner makes the server submit scans to sc instead of its own
// scanner.
func WithScanner(sc *scanner.Scanner) Option {
	return func(s *Server) {
		s.scanner = sc
	}
}

func NewServer(opts ...Option) *Server {
	s := &Server{log: commonlog.GetLogger("jfront.http")}
	for _, opt := range opts {
		opt(s)
	}
	if s.scanner == nil {
		s.scanner = scanner.New(scanner.WithAnalysis(s.analysis...))
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	api := chi.NewRouter()

	api.Post("/tokens", s.endpoint(s.tokens))
	api.Post("/structure", s.endpoint(s.structure))
	api.Post("/parse", s.endpoint(s.parse))
	api.Post("/semantics", s.endpoint(s.semantics))
	api.Post("/check", s.endpoint(s.check))
	api.Post("/triples", s.endpoint(s.triples))
	api.Post("/quadruples", s.endpoint(s.quadruples))
	api.Post("/classes", s.endpoint(s.classes))

	api.Route("/scans", func(r chi.Router) {
		r.Get("/", s.endpoint(s.listScans))
		r.Post("/", s.endpoint(s.submitScan))
		r.Get("/{id:"+uuidPattern+"}", s.endpoint(s.getScan))
	})

	api.NotFound(s.endpoint(func(req *http.Request) result {
		return notFound("no route for %s", req.URL.Path)
	}))
	api.MethodNotAllowed(s.endpoint(methodNotAllowed))

	r := chi.NewRouter()
	r.Mount(PathPrefix, api)
	r.NotFound(api.NotFoundHandler())
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the background scanner.
func (s *Server) Close() {
	s.scanner.Close()
}

type endpointFunc func(req *http.Request) result

// endpoint turns ep into a handler that logs every response and turns
// panics into a 500.
func (s *Server) endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		req.Body = http.MaxBytesReader(w, req.Body, maxSourceBytes)

		r := s.run(ep, req)
		if r.isErr() {
			s.log.Errorf("%s %s: HTTP-%d %s", req.Method, req.URL.Path, r.status, r.internal)
		} else {
			s.log.Infof("%s %s: HTTP-%d %s", req.Method, req.URL.Path, r.status, r.internal)
		}
		if err := r.write(w); err != nil {
			s.log.Errorf("%s %s: %v", req.Method, req.URL.Path, err)
		}
	}
}

func (s *Server) run(ep endpointFunc, req *http.Request) (r result) {
	defer func() {
		if v := recover(); v != nil {
			r = internalError("panic: %v\n%s", v, debug.Stack())
		}
	}()
	return ep(req)
}

func requireJSON(req *http.Request) error {
	contentType := strings.ToLower(req.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}
	return nil
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/ir"
	"github.com/dhamidi/jfront/java/parser"
	"github.com/dhamidi/jfront/java/scanner"
	"github.com/dhamidi/jfront/java/symtab"
)

// AnalysisRequest is the body of every analysis endpoint. Unset flags
// keep the server defaults.
type AnalysisRequest struct {
	Source         string `json:"source"`
	File           string `json:"file,omitempty"`
	Warnings       *bool  `json:"warnings,omitempty"`
	StructuralGate *bool  `json:"structuralGate,omitempty"`
}

// Run is the envelope of every analysis response.
type Run struct {
	RunID  string `json:"runId"`
	Result any    `json:"result"`
}

func newRun(v any) Run {
	return Run{RunID: uuid.NewString(), Result: v}
}

type analysis struct {
	src  []byte
	opts []java.Option
}

func (s *Server) decodeAnalysis(req *http.Request) (analysis, *result) {
	if err := requireJSON(req); err != nil {
		r := badRequest(err.Error(), "bad content type")
		return analysis{}, &r
	}
	var body AnalysisRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r := errResult(http.StatusRequestEntityTooLarge, "source is too large", "body over %d bytes", tooLarge.Limit)
			return analysis{}, &r
		}
		r := badRequest("malformed JSON in request", "decode: %v", err)
		return analysis{}, &r
	}

	opts := append([]java.Option(nil), s.analysis...)
	if body.File != "" {
		opts = append(opts, java.WithFile(body.File))
	}
	if body.Warnings != nil {
		opts = append(opts, java.WithWarnings(*body.Warnings))
	}
	if body.StructuralGate != nil {
		opts = append(opts, java.WithStructuralGate(*body.StructuralGate))
	}
	return analysis{src: []byte(body.Source), opts: opts}, nil
}

type TokensResponse struct {
	Tokens      any          `json:"tokens"`
	Diagnostics diag.List    `json:"diagnostics"`
	Symbols     []symtab.Row `json:"symbols"`
}

func (s *Server) tokens(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	res := java.Tokenize(a.src, a.opts...)
	return ok(newRun(TokensResponse{
		Tokens:      format.Tokens(res.Tokens).Value,
		Diagnostics: nonNil(res.Diagnostics),
		Symbols:     nonNil(res.Symbols),
	}), "%d tokens", len(res.Tokens))
}

type DiagnosticsResponse struct {
	Diagnostics diag.List `json:"diagnostics"`
}

func (s *Server) structure(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	diags := java.CheckStructure(a.src)
	return ok(newRun(DiagnosticsResponse{Diagnostics: nonNil(diags)}), "%d structural diagnostics", len(diags))
}

func (s *Server) semantics(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	diags := java.AnalyzeSemantics(a.src)
	return ok(newRun(DiagnosticsResponse{Diagnostics: nonNil(diags)}), "%d semantic diagnostics", len(diags))
}

func (s *Server) parse(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	res := java.Parse(a.src, a.opts...)
	res.Diagnostics = nonNil(res.Diagnostics)
	res.Symbols = nonNil(res.Symbols)
	return ok(newRun(res), "%d diagnostics", len(res.Diagnostics))
}

func (s *Server) check(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	report := java.Check(a.src, a.opts...)
	report.Diagnostics = nonNil(report.Diagnostics)
	report.Symbols = nonNil(report.Symbols)
	return ok(newRun(report), "%d diagnostics, gated=%t", len(report.Diagnostics), report.Gated)
}

type TriplesResponse struct {
	Triples []ir.Triple `json:"triples"`
	Stats   ir.Stats    `json:"stats"`
}

func (s *Server) triples(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	triples := java.GenerateTriples(a.src)
	return ok(newRun(TriplesResponse{
		Triples: nonNil(triples),
		Stats:   ir.TripleStats(triples),
	}), "%d triples", len(triples))
}

type QuadruplesResponse struct {
	Quadruples []ir.Quadruple   `json:"quadruples"`
	Stats      ir.Stats         `json:"stats"`
	ObjectCode []ir.Instruction `json:"objectCode"`
	Problems   []string         `json:"problems"`
}

func (s *Server) quadruples(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	quads := java.GenerateQuadruples(a.src)
	problems := []string{}
	for _, err := range ir.ValidateQuadruples(quads) {
		problems = append(problems, err.Error())
	}
	return ok(newRun(QuadruplesResponse{
		Quadruples: nonNil(quads),
		Stats:      ir.QuadrupleStats(quads),
		ObjectCode: nonNil(ir.ObjectCode(quads)),
		Problems:   problems,
	}), "%d quadruples", len(quads))
}

type ClassesResponse struct {
	Classes []*java.ClassModel `json:"classes"`
	Tree    *parser.Node       `json:"tree"`
}

func (s *Server) classes(req *http.Request) result {
	a, errRes := s.decodeAnalysis(req)
	if errRes != nil {
		return *errRes
	}
	tree := java.Parse(a.src, a.opts...).Tree
	models := java.ClassModelsFromTree(tree)
	return ok(newRun(ClassesResponse{Classes: nonNil(models), Tree: tree}), "%d classes", len(models))
}

type ScanRequest struct {
	Path    string   `json:"path"`
	Include []string `json:"include,omitempty"`
}

func (s *Server) submitScan(req *http.Request) result {
	if err := requireJSON(req); err != nil {
		return badRequest(err.Error(), "bad content type")
	}
	var body ScanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON in request", "decode: %v", err)
	}
	if body.Path == "" {
		return badRequest("path is required", "missing path")
	}

	id := s.scanner.Submit(scanner.Request{Path: body.Path, Include: body.Include})
	r, _ := s.scanner.Get(id)
	return accepted(r, PathPrefix+"/scans/"+id, "scan %s queued for %s", id, body.Path)
}

func (s *Server) getScan(req *http.Request) result {
	id := chi.URLParam(req, "id")
	r, found := s.scanner.Get(id)
	if !found {
		return notFound("scan %s does not exist", id)
	}
	return ok(r, "scan %s is %s", id, r.Status)
}

func (s *Server) listScans(req *http.Request) result {
	scans := s.scanner.List()
	return ok(scans, "%d scans", len(scans))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

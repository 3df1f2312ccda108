// Package scanner analyzes every Java source below a directory with a
// pool of workers and keeps the results of past scans.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/project"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Request struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Include   []string  `json:"include,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path    string         `json:"path"`
	Counts  map[string]int `json:"counts"`
	Classes []string       `json:"classes,omitempty"`
	Gated   bool           `json:"gated,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Errors is the number of diagnostics that fail the file. Warnings do
// not count.
func (f FileResult) Errors() int {
	n := 0
	for kind, count := range f.Counts {
		if kind != diag.Warning.String() {
			n += count
		}
	}
	return n
}

type Result struct {
	ID        string       `json:"id"`
	Status    Status       `json:"status"`
	Request   Request      `json:"request"`
	Files     []FileResult `json:"files"`
	Error     string       `json:"error,omitempty"`
	StartedAt time.Time    `json:"startedAt"`
	EndedAt   time.Time    `json:"endedAt"`
	Progress  int          `json:"progress"`
	Total     int          `json:"total"`
}

func (r *Result) ProgressPercent() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Progress * 100) / r.Total
}

// Totals sums the per-kind counts over all files.
func (r *Result) Totals() map[string]int {
	totals := make(map[string]int)
	for _, f := range r.Files {
		for kind, n := range f.Counts {
			totals[kind] += n
		}
	}
	return totals
}

// Failed lists the files with at least one error diagnostic or a read
// error.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Error != "" || f.Errors() > 0 {
			out = append(out, f)
		}
	}
	return out
}

type Option func(*Scanner)

// WithWorkers sets the number of files analyzed at once. Values below one
// fall back to the number of CPUs.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		s.workers = n
	}
}

// WithAnalysis passes opts to every java.Check call.
func WithAnalysis(opts ...java.Option) Option {
	return func(s *Scanner) {
		s.analysis = append(s.analysis, opts...)
	}
}

type Scanner struct {
	mu       sync.RWMutex
	scans    map[string]*Result
	requests chan Request
	workers  int
	analysis []java.Option
	log      commonlog.Logger
	once     sync.Once
}

// New returns a scanner whose background loop serves Submit. Call Close
// to stop it.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		scans:    make(map[string]*Result),
		requests: make(chan Request, 100),
		workers:  runtime.NumCPU(),
		log:      commonlog.GetLogger("jfront.scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Scanner) Close() {
	s.once.Do(func() { close(s.requests) })
}

func (s *Scanner) run() {
	for req := range s.requests {
		s.process(context.Background(), req)
	}
}

// Submit queues req and returns the id to poll with Get.
func (s *Scanner) Submit(req Request) string {
	req = s.register(req)
	s.requests <- req
	return req.ID
}

// Scan runs req to completion on the calling goroutine. Cancelling ctx
// stops handing out files; the result is marked failed.
func (s *Scanner) Scan(ctx context.Context, req Request) *Result {
	req = s.register(req)
	s.process(ctx, req)
	result, _ := s.Get(req.ID)
	return result
}

func (s *Scanner) register(req Request) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	req.ID = uuid.NewString()
	req.CreatedAt = time.Now()
	s.scans[req.ID] = &Result{
		ID:      req.ID,
		Status:  StatusPending,
		Request: req,
	}
	return req
}

// Get returns a copy of the scan called id.
func (s *Scanner) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.scans[id]
	if !ok {
		return nil, false
	}
	snapshot := *result
	snapshot.Files = append([]FileResult(nil), result.Files...)
	return &snapshot, true
}

// List returns copies of all scans, oldest first.
func (s *Scanner) List() []*Result {
	s.mu.RLock()
	ids := make([]string, 0, len(s.scans))
	for id := range s.scans {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	results := make([]*Result, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.Get(id); ok {
			results = append(results, r)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Request.CreatedAt.Before(results[j].Request.CreatedAt)
	})
	return results
}

func (s *Scanner) update(id string, fn func(*Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.scans[id])
}

func (s *Scanner) process(ctx context.Context, req Request) {
	s.update(req.ID, func(r *Result) {
		r.Status = StatusInProgress
		r.StartedAt = time.Now()
	})
	s.log.Infof("scan %s: %s", req.ID, req.Path)

	files, err := collect(req.Path, req.Include)
	if err != nil {
		s.finish(req.ID, nil, err)
		return
	}
	s.update(req.ID, func(r *Result) { r.Total = len(files) })

	results := s.analyzeAll(ctx, req.ID, files)
	s.finish(req.ID, results, ctx.Err())
}

func (s *Scanner) finish(id string, files []FileResult, err error) {
	s.update(id, func(r *Result) {
		r.EndedAt = time.Now()
		r.Files = files
		if err != nil {
			r.Status = StatusFailed
			r.Error = err.Error()
			s.log.Errorf("scan %s: %v", id, err)
			return
		}
		r.Status = StatusCompleted
		s.log.Infof("scan %s: %d files in %s", id, len(files), r.EndedAt.Sub(r.StartedAt))
	})
}

// collect lists the files below root whose base name matches one of
// include, in lexical order. Hidden directories are skipped. A root that
// is a file is returned as is.
func collect(root string, include []string) ([]string, error) {
	if len(include) == 0 {
		include = []string{"*.java"}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if project.Matches(include, path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// analyzeAll checks files with the worker pool. Results keep the order
// of files regardless of which worker finished first.
func (s *Scanner) analyzeAll(ctx context.Context, id string, files []string) []FileResult {
	results := make([]FileResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, max(len(files), 1)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.analyzeFile(files[i])
				s.update(id, func(r *Result) { r.Progress++ })
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var done []FileResult
	for _, r := range results {
		if r.Path != "" {
			done = append(done, r)
		}
	}
	return done
}

func (s *Scanner) analyzeFile(path string) FileResult {
	result := FileResult{Path: path, Counts: make(map[string]int)}
	src, err := os.ReadFile(path)
	if err != nil {
		result.Error = err.Error()
		s.log.Warningf("read %s: %v", path, err)
		return result
	}

	opts := append([]java.Option{java.WithFile(path)}, s.analysis...)
	report := java.Check(src, opts...)
	for _, d := range report.Diagnostics {
		result.Counts[d.Kind.String()]++
	}
	result.Gated = report.Gated
	for _, cls := range java.ClassModelsFromTree(report.Tree) {
		result.Classes = append(result.Classes, cls.Name)
	}
	return result
}

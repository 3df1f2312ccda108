package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `public class Main {
  public static void main(String[] args) {
    int x = 2 + 3;
  }
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer()
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	switch b := body.(type) {
	case nil:
		reader = strings.NewReader("")
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, PathPrefix+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type runOf[T any] struct {
	RunID  string `json:"runId"`
	Result T      `json:"result"`
}

func TestTokens(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/tokens", AnalysisRequest{Source: "int x = 5;"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	run := decode[runOf[struct {
		Tokens []struct {
			Kind   string `json:"kind"`
			Class  string `json:"class"`
			Lexeme string `json:"lexeme"`
		} `json:"tokens"`
		Symbols []map[string]any `json:"symbols"`
	}]](t, rec)
	assert.NotEmpty(t, run.RunID)
	require.Len(t, run.Result.Tokens, 5)
	assert.Equal(t, "reserved", run.Result.Tokens[0].Class)
	assert.Equal(t, "x", run.Result.Tokens[1].Lexeme)
}

func TestRunIDsDiffer(t *testing.T) {
	s := newTestServer(t)
	body := AnalysisRequest{Source: program}
	first := decode[Run](t, do(t, s, http.MethodPost, "/check", body))
	second := decode[Run](t, do(t, s, http.MethodPost, "/check", body))
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestCheck(t *testing.T) {
	off := false
	tests := []struct {
		name      string
		source    string
		warnings  *bool
		wantGated bool
		wantKinds []string
	}{
		{
			name:     "clean program",
			source:   program,
			warnings: &off,
		},
		{
			name:      "unused local warns",
			source:    program,
			wantKinds: []string{"warning"},
		},
		{
			name:      "undeclared variable",
			source:    "public class A { public static void main(String[] args) { y = 2; } }",
			wantKinds: []string{"semantic"},
		},
		{
			name:      "unbalanced braces are gated",
			source:    "public class A { ",
			wantGated: true,
			wantKinds: []string{"structural"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/check", AnalysisRequest{Source: tt.source, Warnings: tt.warnings})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			run := decode[runOf[struct {
				Gated       bool `json:"gated"`
				Diagnostics []struct {
					Kind string `json:"kind"`
				} `json:"diagnostics"`
			}]](t, rec)
			assert.Equal(t, tt.wantGated, run.Result.Gated)

			kinds := map[string]bool{}
			for _, d := range run.Result.Diagnostics {
				kinds[d.Kind] = true
			}
			for _, kind := range tt.wantKinds {
				assert.True(t, kinds[kind], "missing %s diagnostic in %s", kind, rec.Body.String())
			}
			if len(tt.wantKinds) == 0 {
				assert.Empty(t, run.Result.Diagnostics)
			}
		})
	}
}

func TestQuadruples(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/quadruples", AnalysisRequest{Source: program})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	run := decode[runOf[QuadruplesResponse]](t, rec)
	require.Len(t, run.Result.Quadruples, 2)
	assert.Equal(t, "+", run.Result.Quadruples[0].Op.String())
	assert.Equal(t, "x", run.Result.Quadruples[1].Result)
	assert.Empty(t, run.Result.Problems)
	assert.NotEmpty(t, run.Result.ObjectCode)
	assert.Equal(t, 2, run.Result.Stats.Instructions)
}

func TestTriples(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/triples", AnalysisRequest{Source: program})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	run := decode[runOf[TriplesResponse]](t, rec)
	require.Len(t, run.Result.Triples, 2)
	assert.Equal(t, "+", run.Result.Triples[0].Op.String())
}

func TestClasses(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/classes", AnalysisRequest{Source: program})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	run := decode[runOf[struct {
		Classes []struct {
			Name string `json:"Name"`
		} `json:"classes"`
	}]](t, rec)
	require.Len(t, run.Result.Classes, 1)
	assert.Equal(t, "Main", run.Result.Classes[0].Name)
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		body        any
		contentType string
		wantStatus  int
	}{
		{"malformed json", http.MethodPost, "/check", "{", "application/json", http.StatusBadRequest},
		{"wrong content type", http.MethodPost, "/check", `{"source":""}`, "text/plain", http.StatusBadRequest},
		{"unknown route", http.MethodPost, "/nope", nil, "application/json", http.StatusNotFound},
		{"wrong method", http.MethodGet, "/check", nil, "application/json", http.StatusMethodNotAllowed},
		{"scan without path", http.MethodPost, "/scans", `{}`, "application/json", http.StatusBadRequest},
		{"unknown scan", http.MethodGet, "/scans/00000000-0000-0000-0000-000000000000", nil, "application/json", http.StatusNotFound},
		{"scan id that is not a uuid", http.MethodGet, "/scans/abc", nil, "application/json", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body, _ := tt.body.(string)
			req := httptest.NewRequest(tt.method, PathPrefix+tt.path, strings.NewReader(body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSourceTooLarge(t *testing.T) {
	s := newTestServer(t)
	big := AnalysisRequest{Source: strings.Repeat("x", maxSourceBytes+1)}
	rec := do(t, s, http.MethodPost, "/tokens", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestScans(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.java"), []byte(program), 0o644))

	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/scans", ScanRequest{Path: dir})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var submitted struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.ID)
	assert.Equal(t, PathPrefix+"/scans/"+submitted.ID, rec.Header().Get("Location"))

	require.Eventually(t, func() bool {
		rec := do(t, s, http.MethodGet, "/scans/"+submitted.ID, nil)
		var got struct {
			Status string `json:"status"`
		}
		return rec.Code == http.StatusOK &&
			json.Unmarshal(rec.Body.Bytes(), &got) == nil &&
			got.Status == "completed"
	}, 5*time.Second, 10*time.Millisecond)

	rec = do(t, s, http.MethodGet, "/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		ID    string `json:"id"`
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, submitted.ID, list[0].ID)
	require.Len(t, list[0].Files, 1)
	assert.Equal(t, filepath.Join(dir, "Main.java"), list[0].Files[0].Path)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// result is what an endpoint produces: a status, the body shown to the
// client and a message that only goes to the log.
type result struct {
	status   int
	body     any
	internal string
	headers  [][2]string
}

func ok(body any, internal string, args ...any) result {
	return response(http.StatusOK, body, internal, args...)
}

func accepted(body any, location string, internal string, args ...any) result {
	r := response(http.StatusAccepted, body, internal, args...)
	r.headers = append(r.headers, [2]string{"Location", location})
	return r
}

func badRequest(userMsg string, internal string, args ...any) result {
	return errResult(http.StatusBadRequest, userMsg, internal, args...)
}

func notFound(internal string, args ...any) result {
	return errResult(http.StatusNotFound, "The requested resource was not found", internal, args...)
}

func methodNotAllowed(req *http.Request) result {
	return errResult(http.StatusMethodNotAllowed, "Method "+req.Method+" is not allowed for "+req.URL.Path, "method not allowed")
}

func internalError(internal string, args ...any) result {
	return errResult(http.StatusInternalServerError, "An internal server error occurred", internal, args...)
}

func response(status int, body any, internal string, args ...any) result {
	return result{status: status, body: body, internal: fmt.Sprintf(internal, args...)}
}

func errResult(status int, userMsg, internal string, args ...any) result {
	return response(status, ErrorResponse{Error: userMsg, Status: status}, internal, args...)
}

func (r result) isErr() bool {
	return r.status >= 400
}

// write marshals the body before touching w, so a marshaling failure
// still yields a clean 500.
func (r result) write(w http.ResponseWriter) error {
	data, err := json.Marshal(r.body)
	if err != nil {
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return fmt.Errorf("marshal response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.headers {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.status)
	_, err = w.Write(append(data, '\n'))
	return err
}

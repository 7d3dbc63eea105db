package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"CompanyAPI/internal/apperror"
	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/model"
	"CompanyAPI/internal/repository"

	"github.com/google/uuid"
)

const (
	mediaJSON    = "application/json"
	mediaProblem = "application/problem+json"
	maxBodyBytes = 1 << 20
)

type problem struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
	TraceID  string              `json:"traceId"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	writeMedia(w, status, mediaJSON, v)
}

// writeMedia encodes v as JSON under a negotiated media type.
func writeMedia(w http.ResponseWriter, status int, mediaType string, v any) {
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write_response_failed", map[string]any{"error": err.Error()})
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, p problem) {
	p.Instance = r.URL.Path
	p.TraceID = uuid.NewString()
	w.Header().Set("Content-Type", mediaProblem)
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func statusProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	writeProblem(w, r, problem{Title: http.StatusText(status), Status: status, Detail: detail})
}

func validationProblem(w http.ResponseWriter, r *http.Request, ve *model.ValidationError) {
	writeProblem(w, r, problem{
		Type:   "https://tools.ietf.org/html/rfc4918#section-11.2",
		Title:  "One or more validation errors occurred.",
		Status: http.StatusUnprocessableEntity,
		Detail: "See the errors property for details.",
		Errors: ve.Errors,
	})
}

// fail maps an error from the repository or model layer to a response.
func fail(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		validationProblem(w, r, ve)
	case errors.Is(err, repository.ErrNotFound):
		statusProblem(w, r, http.StatusNotFound, "")
	case errors.Is(err, repository.ErrConflict):
		statusProblem(w, r, http.StatusConflict, err.Error())
	case apperror.IsClientError(err), errors.Is(err, apperror.ErrInvalidArgument):
		logger.Warn("bad_request", map[string]any{"endpoint": endpoint, "error": err.Error()})
		statusProblem(w, r, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request_failed", map[string]any{"endpoint": endpoint, "error": err.Error()})
		statusProblem(w, r, http.StatusInternalServerError, "")
	}
}

// readBody reads the request body, rejecting anything over maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

// decodeBody reads a JSON payload into v. Unknown fields are ignored.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// contentType returns the bare, lower-cased media type of the request body.
func contentType(r *http.Request) string {
	raw := r.Header.Get("Content-Type")
	if raw == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(mt)
}

// negotiate picks the offer with the highest Accept weight; equal weights
// keep header order. q=0 excludes a type. A missing Accept header or a
// wildcard selects offers[0]. ok is false when the header does not parse; the
// returned type is empty when nothing acceptable matches.
func negotiate(accept string, offers ...string) (string, bool) {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return offers[0], true
	}
	type candidate struct {
		media string
		q     float64
	}
	var ranked []candidate
	for _, part := range strings.Split(accept, ",") {
		mt, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			return "", false
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			q, err = strconv.ParseFloat(raw, 64)
			if err != nil || q < 0 || q > 1 {
				return "", false
			}
		}
		if q == 0 {
			continue
		}
		ranked = append(ranked, candidate{media: strings.ToLower(mt), q: q})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].q > ranked[j].q })

	for _, c := range ranked {
		if c.media == "*/*" || c.media == "application/*" {
			return offers[0], true
		}
		for _, o := range offers {
			if c.media == o {
				return o, true
			}
		}
	}
	return "", true
}

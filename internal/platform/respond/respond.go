// Package respond renders router-level failures (unknown route, wrong method, panic)
// as RFC 9457 problem details, matching what Huma produces for operation errors.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	applog "github.com/janisto/journal-api/internal/platform/logging"
)

const (
	msgNotFound       = "resource not found"
	msgInternalServer = "internal server error"

	typeProblemJSON = "application/problem+json"
	typeProblemCBOR = "application/problem+cbor"
)

// problem mirrors huma.ErrorModel's wire shape as served with schema links disabled.
type problem struct {
	Title  string `json:"title,omitempty"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NotFoundHandler renders 404 for requests no route matched.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, msgNotFound)
	}
}

// MethodNotAllowedHandler renders 405 and lists the methods the path does support.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		writeProblem(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	}
}

// Recoverer turns panics into 500 problem responses. http.ErrAbortHandler is re-panicked
// so net/http can abort the connection. Nothing is written when the handler already
// started the response.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}
				applog.LogError(r.Context(), "panic recovered", panicError(rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				if rw.wroteHeader {
					return
				}
				writeProblem(rw, r, http.StatusInternalServerError, msgInternalServer)
			}()
			next.ServeHTTP(rw, r)
		})
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("%v", rec)
}

// responseWriter records whether the response has been started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(code int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	body := problem{
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	if selectFormat(r.Header.Get("Accept")) == formatCBOR {
		contentType = typeProblemCBOR
		data, err = cbor.Marshal(body)
	} else {
		contentType = typeProblemJSON
		data, err = marshalJSON(body)
	}
	if err != nil {
		applog.LogError(r.Context(), "failed to encode problem", err, zap.Int("status", status))
		http.Error(w, http.StatusText(status), status)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentType)
	ensureVary(h, "Accept")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		applog.LogWarn(r.Context(), "failed to write problem", zap.Error(err))
	}
}

func marshalJSON(v any) ([]byte, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return []byte(strings.TrimSuffix(sb.String(), "\n")), nil
}

// ensureVary appends values to Vary unless already listed.
func ensureVary(h http.Header, values ...string) {
	existing := map[string]struct{}{}
	for _, line := range h.Values("Vary") {
		for part := range strings.SplitSeq(line, ",") {
			if p := strings.TrimSpace(part); p != "" {
				existing[strings.ToLower(p)] = struct{}{}
			}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := existing[key]; ok {
			continue
		}
		existing[key] = struct{}{}
		h.Add("Vary", v)
	}
}

type format int

const (
	formatJSON format = iota
	formatCBOR
)

type mediaRange struct {
	typ string
	q   float64
}

func parseAccept(header string) []mediaRange {
	var out []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		params := strings.Split(part, ";")
		typ := strings.ToLower(strings.TrimSpace(params[0]))
		if typ == "" || !strings.Contains(typ, "/") {
			continue
		}
		q := 1.0
		for _, p := range params[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || strings.TrimSpace(k) != "q" {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || parsed < 0 || parsed > 1 {
				parsed = 0
			}
			q = parsed
		}
		out = append(out, mediaRange{typ: typ, q: q})
	}
	return out
}

// quality returns the q-value of the most specific range matching one of the exact
// types, a "+suffix" structured syntax wildcard, "application/*", or "*/*".
func quality(ranges []mediaRange, suffix string, exact ...string) float64 {
	best, bestRank := 0.0, -1
	for _, mr := range ranges {
		rank := -1
		switch {
		case containsString(exact, mr.typ):
			rank = 3
		case mr.typ == "application/*+"+suffix:
			rank = 2
		case mr.typ == "application/*":
			rank = 1
		case mr.typ == "*/*":
			rank = 0
		}
		if rank > bestRank {
			best, bestRank = mr.q, rank
		}
	}
	return best
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// selectFormat picks CBOR only when the client prefers it over JSON.
func selectFormat(accept string) format {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return formatJSON
	}
	cborQ := quality(ranges, "cbor", "application/cbor", typeProblemCBOR)
	jsonQ := quality(ranges, "json", "application/json", typeProblemJSON)
	if cborQ > jsonQ {
		return formatCBOR
	}
	return formatJSON
}

// allowedMethods asks chi's route tree which methods match the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}
	var allowed []string
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

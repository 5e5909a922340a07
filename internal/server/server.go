// Package server exposes the translator over a small JSON HTTP API.
package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/comigor/tradutor-go/internal/app"
	"github.com/comigor/tradutor-go/internal/history"
	"github.com/comigor/tradutor-go/internal/logger"
)

// maxBodyBytes leaves room for CharLimit multi-byte characters plus JSON.
const maxBodyBytes = 64 << 10

type translateRequest struct {
	Text string `json:"text"`
}

type translateResponse struct {
	Entry    history.Entry `json:"entry"`
	Result   string        `json:"result"`
	Fallback bool          `json:"fallback"`
	Provider string        `json:"provider,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New returns the API handler.
func New(svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/translate", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			logger.L.Warn("read body error", "err", err)
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, app.UserMessage(app.ErrTooLong))
				return
			}
			writeError(w, http.StatusBadRequest, "could not read request body")
			return
		}
		var req translateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		out, err := svc.Translate(r.Context(), req.Text)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, app.ErrInvalidInput) {
				status = http.StatusBadRequest
			} else {
				logger.L.Error("translate error", "err", err)
			}
			writeError(w, status, app.UserMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, translateResponse{
			Entry:    out.Entry,
			Result:   out.Result.String(),
			Fallback: out.Result.IsFallback(),
			Provider: out.Result.Provider,
		})
	})

	mux.HandleFunc("GET /api/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.SearchHistory(r.URL.Query().Get("q")))
	})

	mux.HandleFunc("GET /api/history/{id}", func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Entry(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, app.UserMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, e)
	})

	mux.HandleFunc("DELETE /api/history", func(w http.ResponseWriter, r *http.Request) {
		confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
		if err := svc.ClearHistory(confirmed); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, app.ErrClearNotConfirmed) {
				status = http.StatusBadRequest
			}
			writeError(w, status, app.UserMessage(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return recoverer(mux)
}

// recoverer turns handler panics into the generic error message.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.L.Error("handler panic", "panic", rec, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, app.GenericErrorMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.L.Error("encode response error", "err", err)
		http.Error(w, app.GenericErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

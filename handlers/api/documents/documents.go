package documents

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"invoice-docstore/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	DocumentCreateResponse struct {
		Status   string `json:"status"`
		FileHash string `json:"file_hash"`
	}

	ErrorResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
)

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Status: "error", Message: message})
}

// HandleCreate renders the posted invoice and stores the resulting document.
func HandleCreate(documentStore core.DocumentStore, renderer core.Renderer, maxBodyBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logrus.WithField("request_id", requestID(r))

		var invoice core.Invoice
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&invoice); err != nil {
			log.WithField("error", err).Warn("Invalid invoice body")
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				renderError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			renderError(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := invoice.Validate(); err != nil {
			log.WithField("error", err).Warn("Invoice failed validation")
			renderError(w, r, http.StatusBadRequest, err.Error())
			return
		}

		data, err := renderer.Render(&invoice)
		if err != nil {
			log.WithField("error", err).Error("Failed to render document")
			renderError(w, r, http.StatusInternalServerError, "failed to render document")
			return
		}

		id, err := documentStore.Create(r.Context(), &core.Document{Data: data})
		if err != nil {
			log.WithField("error", err).Error("Failed to store document")
			renderError(w, r, http.StatusInternalServerError, "failed to store document")
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, DocumentCreateResponse{Status: "success", FileHash: id})
	}
}

// HandleGet serves stored bytes unchanged. Documents never change under a
// hash, so they are cacheable forever and the hash doubles as the ETag.
func HandleGet(documentStore core.DocumentStore, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "hash")
		etag := strconv.Quote(id)

		document, err := documentStore.FindID(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				renderError(w, r, http.StatusNotFound, "document not found")
				return
			}
			logrus.WithFields(logrus.Fields{
				"request_id":  requestID(r),
				"document_id": id,
				"error":       err,
			}).Error("Failed to fetch document")
			renderError(w, r, http.StatusInternalServerError, "failed to fetch document")
			return
		}

		h := w.Header()
		h.Set("ETag", etag)
		h.Set("Cache-Control", "public, max-age=31536000, immutable")
		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		h.Set("Content-Type", contentType)
		h.Set("Content-Length", strconv.Itoa(len(document.Data)))
		h.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", id+core.DocumentExtension))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(document.Data)
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// etagMatches reports whether an If-None-Match header names etag. The header
// is "*" or a comma separated list; weak tags compare by their opaque value.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

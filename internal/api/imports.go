package api

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/starford/salesdesk/internal/checksum"
	"github.com/starford/salesdesk/internal/crm"
)

const maxImportBytes = 10 << 20 // 10 MB

// readImportText returns the CSV text of an import request: the multipart
// field "file" when the request is multipart/form-data, the raw body
// otherwise.
func readImportText(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", errors.New("failed to read body")
		}
		return string(data), nil
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		return "", errors.New("file too large or invalid multipart")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return "", errors.New("missing 'file' field in multipart form")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", errors.New("failed to read file")
	}
	return string(data), nil
}

func (h *Handler) importCSV(kind string, merge func(context.Context, string) (crm.ImportResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := readImportText(w, r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		res, err := merge(r.Context(), text)
		if err != nil {
			writeError(w, "import "+kind, err)
			return
		}
		writeJSON(w, http.StatusOK, ImportResponse{Kind: kind, ImportResult: res})
	}
}

// ImportClients handles POST /api/clients/import.
//
//	@Summary		Merge clients from CSV (name,address,phone,email)
//	@Tags			clients
//	@Accept			text/csv
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		200	{object}	ImportResponse
//	@Failure		400	{object}	errResponse
//	@Router			/clients/import [post]
func (h *Handler) ImportClients(w http.ResponseWriter, r *http.Request) {
	h.importCSV("clients", h.store.MergeClients)(w, r)
}

// ImportProducts handles POST /api/products/import.
//
//	@Summary		Merge products from CSV (name,description,unit)
//	@Tags			products
//	@Accept			text/csv
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		200	{object}	ImportResponse
//	@Failure		400	{object}	errResponse
//	@Router			/products/import [post]
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	h.importCSV("products", h.store.MergeProducts)(w, r)
}

// Snapshot handles GET /api/snapshot. The ETag is the SHA-256 of the body,
// and a matching If-None-Match yields 304.
//
//	@Summary		Full persisted snapshot
//	@Tags			snapshot
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"Previously returned ETag"
//	@Success		200
//	@Success		304
//	@Router			/snapshot [get]
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Snapshot()
	if err != nil {
		writeError(w, "snapshot", err)
		return
	}
	etag := checksum.ETag(data)
	w.Header().Set("ETag", etag)
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ryandol1/qrserver/internal/config"
	"github.com/ryandol1/qrserver/internal/models"
	"github.com/ryandol1/qrserver/internal/qr"
	"github.com/ryandol1/qrserver/internal/services"
	"github.com/ryandol1/qrserver/internal/storage"
	"github.com/ryandol1/qrserver/internal/util"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	store   storage.Registry
	log     *zap.SugaredLogger
	baseURL string
	qrSize  int
}

func New(store storage.Registry, log *zap.SugaredLogger, cfg config.Config) *Handler {
	return &Handler{
		store:   store,
		log:     log,
		baseURL: cfg.BaseURL,
		qrSize:  cfg.QRSize,
	}
}

func (h *Handler) Health(w http.ResponseWriter, req *http.Request) {
	util.JSONResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// Webhook registers or updates one redirect and returns the short link
// together with its QR code: 201 on create, 200 on update.
func (h *Handler) Webhook(w http.ResponseWriter, req *http.Request) {
	var payload models.WebhookRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: "invalid request format"}, http.StatusBadRequest)
		return
	}
	if err := payload.Validate(); err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}

	entry, created, err := h.store.Upsert(req.Context(), payload.UniqueID, payload.FinalURL)
	if err != nil {
		h.storeError(w, err)
		return
	}

	redirectURL := h.redirectURL(req, entry.Slug)
	qrCode, err := qr.EncodeBase64(redirectURL, h.qrSize)
	if err != nil {
		h.encodingError(w, entry.UniqueID, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	util.JSONResponse(w, models.WebhookResponse{
		UniqueID:     entry.UniqueID,
		RedirectURL:  redirectURL,
		FinalURL:     entry.FinalURL,
		QRCodeBase64: qrCode,
		Status:       statusLabel(created),
	}, status)
}

// WebhookBatch registers a list of webhook payloads in one call. The batch
// is all-or-nothing: one invalid item rejects the whole request. QR images
// are not inlined; clients fetch /qr/{uniqueID} per item.
func (h *Handler) WebhookBatch(w http.ResponseWriter, req *http.Request) {
	var items []models.WebhookRequest
	if err := json.NewDecoder(req.Body).Decode(&items); err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: "invalid request format"}, http.StatusBadRequest)
		return
	}

	results, err := services.RegisterBatch(req.Context(), h.store, items)
	if err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}

	response := make([]models.BatchResult, 0, len(results))
	for _, result := range results {
		response = append(response, models.BatchResult{
			UniqueID:    result.Entry.UniqueID,
			RedirectURL: h.redirectURL(req, result.Entry.Slug),
			FinalURL:    result.Entry.FinalURL,
			Status:      statusLabel(result.Created),
		})
	}
	util.JSONResponse(w, response, http.StatusCreated)
}

// Redirect resolves the slug path segment and sends the visitor on.
func (h *Handler) Redirect(w http.ResponseWriter, req *http.Request) {
	slug := chi.URLParam(req, "slug")
	entry, err := h.store.Resolve(req.Context(), slug)
	if err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: "redirect_not_found"}, http.StatusNotFound)
		return
	}
	http.Redirect(w, req, entry.FinalURL, http.StatusFound)
}

// QRCodeImage serves the QR code of an entry's short link as a PNG, looked
// up by the identifier it was registered under, not by slug.
func (h *Handler) QRCodeImage(w http.ResponseWriter, req *http.Request) {
	uniqueID := chi.URLParam(req, "uniqueID")
	entry, err := h.store.Lookup(req.Context(), uniqueID)
	if err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: "unique_id not found"}, http.StatusNotFound)
		return
	}

	size, err := h.imageSize(req)
	if err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}

	png, err := qr.Encode(h.redirectURL(req, entry.Slug), size)
	if err != nil {
		h.encodingError(w, entry.UniqueID, err)
		return
	}
	servePNG(w, png, entry.UniqueID+".png")
}

// QRCodeData encodes arbitrary text passed as ?data= into a PNG.
func (h *Handler) QRCodeData(w http.ResponseWriter, req *http.Request) {
	data := req.URL.Query().Get("data")
	if data == "" {
		util.JSONResponse(w, models.ErrorResponse{Error: "missing data parameter"}, http.StatusBadRequest)
		return
	}

	size, err := h.imageSize(req)
	if err != nil {
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
		return
	}

	png, err := qr.Encode(data, size)
	if err != nil {
		h.encodingError(w, data, err)
		return
	}
	servePNG(w, png, "")
}

// redirectURL builds the short link for a slug: the configured base URL when
// set, otherwise the origin of the incoming request.
func (h *Handler) redirectURL(req *http.Request, slug string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if req.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + req.Host
	}
	return base + "/" + slug
}

// imageSize reads the optional ?size= query parameter, in pixels.
func (h *Handler) imageSize(req *http.Request) (int, error) {
	raw := req.URL.Query().Get("size")
	if raw == "" {
		return h.qrSize, nil
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("size must be an integer: %s", raw)
	}
	return size, nil
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidInput):
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		util.JSONResponse(w, models.ErrorResponse{Error: err.Error()}, http.StatusNotFound)
	default:
		h.log.Errorw("registry failure", "error", err)
		util.JSONResponse(w, models.ErrorResponse{Error: "internal error"}, http.StatusInternalServerError)
	}
}

func (h *Handler) encodingError(w http.ResponseWriter, subject string, err error) {
	h.log.Errorw("qr encoding failed", "subject", subject, "error", err)
	util.JSONResponse(w, models.ErrorResponse{Error: "qr encoding failed"}, http.StatusInternalServerError)
}

func statusLabel(created bool) string {
	if created {
		return models.StatusCreated
	}
	return models.StatusUpdated
}

func servePNG(w http.ResponseWriter, png []byte, filename string) {
	w.Header().Set("Content-Type", "image/png")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

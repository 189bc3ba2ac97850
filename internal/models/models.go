package models

import (
	"errors"
	"strings"
)

// Entry statuses reported by the webhook and batch endpoints.
const (
	StatusCreated = "created"
	StatusUpdated = "updated"
)

type (
	// WebhookRequest is the payload registering or updating one redirect.
	WebhookRequest struct {
		UniqueID string `json:"unique_id"`
		FinalURL string `json:"final_url"`
	}

	// WebhookResponse echoes the registered entry together with its QR image.
	WebhookResponse struct {
		UniqueID     string `json:"unique_id"`
		RedirectURL  string `json:"redirect_url"`
		FinalURL     string `json:"final_url"`
		QRCodeBase64 string `json:"qr_code_base64"`
		Status       string `json:"status"`
	}

	// BatchResult is the per-item outcome of a batch registration.
	BatchResult struct {
		UniqueID    string `json:"unique_id"`
		RedirectURL string `json:"redirect_url"`
		FinalURL    string `json:"final_url"`
		Status      string `json:"status"`
	}

	// ErrorResponse is the JSON error envelope.
	ErrorResponse struct {
		Error string `json:"error"`
	}
)

// Validate trims the identifier the way the registry stores it and checks
// that both required fields are present.
func (req *WebhookRequest) Validate() error {
	req.UniqueID = strings.TrimSpace(req.UniqueID)
	if req.UniqueID == "" {
		return errors.New("unique_id is required")
	}
	if req.FinalURL == "" {
		return errors.New("final_url is required")
	}
	return nil
}

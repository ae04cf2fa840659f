package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/amicuslegal/amicus/internal/auth"
	"github.com/amicuslegal/amicus/internal/models"
	pkghttp "github.com/amicuslegal/amicus/pkg/http"
)

// Documents above this size are rejected before they reach the model
const maxUploadBytes = 10 << 20

// AssistantServiceInterface defines the interface for assistant features
type AssistantServiceInterface interface {
	Chat(ctx context.Context, userID, message string, history []models.ChatTurn) (string, error)
	Analyze(ctx context.Context, userID, mode string, data []byte, mimeType string) (string, error)
	Forge(ctx context.Context, userID, docType, details string) (string, error)
}

// AssistantHandler handles the legal assistant HTTP requests
type AssistantHandler struct {
	service AssistantServiceInterface
}

func NewAssistantHandler(service AssistantServiceInterface) *AssistantHandler {
	return &AssistantHandler{service: service}
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Message string            `json:"message" validate:"required"`
	History []models.ChatTurn `json:"history"`
}

// ForgeRequest represents the request body for document drafting
type ForgeRequest struct {
	DocType string `json:"doc_type" validate:"required"`
	Details string `json:"details" validate:"required"`
}

// Chat answers a conversational legal question
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	reply, err := h.service.Chat(r.Context(), claims.UserID, req.Message, req.History)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Analyze reviews an uploaded document in the requested mode. Expects a
// multipart form with a "file" part and a "mode" field.
func (h *AssistantHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid or oversized upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkghttp.WriteBadRequest(w, "A document file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		pkghttp.WriteBadRequest(w, "Failed to read uploaded file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	report, err := h.service.Analyze(r.Context(), claims.UserID, r.FormValue("mode"), data, mimeType)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"report": report})
}

// Forge drafts a legal document from the user's requirements
func (h *AssistantHandler) Forge(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ForgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	document, err := h.service.Forge(r.Context(), claims.UserID, req.DocType, req.Details)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]string{"document": document})
}

func writeAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		pkghttp.WriteBadRequest(w, err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "User not found")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

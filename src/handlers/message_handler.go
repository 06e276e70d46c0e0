// backend/src/handlers/message_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/sadakatracker/backend/src/config"
	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/security/validation"
	"github.com/username/sadakatracker/backend/src/services"
	"github.com/username/sadakatracker/backend/src/utils"
)

type MessageHandler struct {
	ingestionService services.IngestionService
}

func NewMessageHandler(service services.IngestionService) *MessageHandler {
	return &MessageHandler{
		ingestionService: service,
	}
}

// HandleImportMessages accepts a JSON SMS backup as a multipart upload and
// stores its messages. Duplicate messages (same timestamp and body) are
// skipped silently; the response reports how many rows were actually new.
func (h *MessageHandler) HandleImportMessages(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	result, err := h.ingestionService.ImportMessages(file)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidImportPayload):
			logger.L.Warn("Import rejected, payload is not a valid JSON backup", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Invalid import file: %v", err), http.StatusBadRequest)
		case errors.Is(err, services.ErrEmptyImport):
			logger.L.Warn("Import rejected, no usable messages", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "Import file contains no messages", http.StatusBadRequest)
		default:
			logger.L.Error("Internal error processing import", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for import result", "importID", result.ImportID, "error", err)
	}
}

// HandleDeleteAllMessages wipes every stored message and every derived
// transaction.
func (h *MessageHandler) HandleDeleteAllMessages(w http.ResponseWriter, r *http.Request) {
	if err := h.ingestionService.DeleteAllData(); err != nil {
		logger.L.Error("Error deleting all data", "error", err)
		utils.SendJSONError(w, "An internal error occurred while deleting data.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All messages and transactions deleted"})
}

package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hugodemenez/deltalytix/backend/src/config"
	"github.com/hugodemenez/deltalytix/backend/src/imports"
	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/security/validation"
	"github.com/hugodemenez/deltalytix/backend/src/services"
	"github.com/hugodemenez/deltalytix/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{importService: service}
}

// HandleImport accepts a multipart upload with fields:
//
//	file           the CSV/TSV export
//	platform       platform descriptor key
//	account_number optional wizard-selected fallback account
//	mapping        optional JSON array of {header, field} rules (generic CSV)
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "userID", userID, "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("Server-side file content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	platformKey := r.FormValue("platform")
	if platformKey == "" {
		utils.SendJSONError(w, "missing 'platform' form field", http.StatusBadRequest)
		return
	}

	var mapping imports.ColumnMapping
	if rawMapping := r.FormValue("mapping"); rawMapping != "" {
		if err := json.Unmarshal([]byte(rawMapping), &mapping); err != nil {
			utils.SendJSONError(w, fmt.Sprintf("invalid 'mapping' field: %v", err), http.StatusBadRequest)
			return
		}
	}

	// CSV parsing is deliberately shallow here: the reader produces the raw
	// string matrix and every structural decision belongs to the extractor.
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		logger.L.Warn("Failed to read CSV rows", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error reading CSV file: %v", err), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing import request", "userID", userID, "filename", fileHeader.Filename, "platform", platformKey)
	result, err := h.importService.ProcessImport(rows, userID, platformKey, mapping, r.FormValue("account_number"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownPlatform):
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrExtractionFailed):
			logger.L.Warn("Import failed during extraction", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error extracting data from file: %v", err), http.StatusBadRequest)
		case errors.Is(err, services.ErrDuplicateTrades), errors.Is(err, services.ErrNoTradesAdded):
			utils.SendJSONError(w, err.Error(), http.StatusConflict)
		default:
			logger.L.Error("Internal error processing import", "userID", userID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for import result", "userID", userID, "error", err)
	}
}

// HandleGetPlatforms lists the supported platform descriptors for the wizard.
func (h *ImportHandler) HandleGetPlatforms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(imports.AllPlatforms()); err != nil {
		logger.L.Error("Error encoding platform list", "error", err)
	}
}

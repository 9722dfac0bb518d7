package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/username/kopilka/backend/src/config"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/security/validation"
	"github.com/username/kopilka/backend/src/services"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

type ImportHandler struct {
	store         *store.Store
	importService services.ImportService
}

func NewImportHandler(st *store.Store, importService services.ImportService) *ImportHandler {
	return &ImportHandler{
		store:         st,
		importService: importService,
	}
}

// HandleImport accepts a multipart CSV upload. The action form field selects
// between preview, validate and the actual import.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
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
		logger.L.Warn("Uploaded file too large", "userID", userID, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.L.Warn("File content validation failed", "userID", userID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		logger.L.Error("Failed to read uploaded file", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to read uploaded file", http.StatusInternalServerError)
		return
	}
	content := validation.StripUnprintable(string(raw))

	action := r.FormValue("action")
	switch action {
	case "preview":
		utils.SendJSON(w, h.importService.Preview(content), http.StatusOK)

	case "validate":
		utils.SendJSON(w, h.importService.Validate(content), http.StatusOK)

	case "", "import":
		groupID := r.FormValue("groupId")
		if groupID == "" {
			utils.SendJSONError(w, "groupId form field required", http.StatusBadRequest)
			return
		}
		member, err := h.store.IsGroupMember(groupID, userID)
		if err != nil {
			utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
			return
		}
		if !member {
			utils.SendJSONError(w, "Not a member of this group", http.StatusForbidden)
			return
		}

		report := h.importService.Validate(content)
		if !report.IsValid {
			utils.SendJSON(w, report, http.StatusBadRequest)
			return
		}

		logger.L.Info("Processing import", "userID", userID, "groupID", groupID, "filename", fileHeader.Filename)
		utils.SendJSON(w, h.importService.Import(content, userID, groupID), http.StatusOK)

	default:
		utils.SendJSONError(w, fmt.Sprintf("Unknown action %q, expected preview, validate or import", action), http.StatusBadRequest)
	}
}

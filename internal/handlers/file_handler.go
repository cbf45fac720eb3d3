// File: internal/handlers/file_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/domain"
	"github.com/Mohamednajdawi/expansion-rag-frontend/internal/services/filestore"
)

const maxUploadMemory = 32 << 20 // 32 MiB before multipart spills to disk

type FileHandler struct {
	Files *filestore.Service
}

func NewFileHandler(fs *filestore.Service) *FileHandler {
	return &FileHandler{Files: fs}
}

// ListFiles returns the local upload records, optionally restricted to
// one category, plus the batch uploading flag and the allowed categories.
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	category := domain.DocumentCategory(r.URL.Query().Get("category"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"files":       h.Files.Filter(category),
		"isUploading": h.Files.IsUploading(),
		"categories":  h.Files.Categories(),
	})
}

// UploadFiles accepts a multipart batch under the "files" field and an
// optional "category" form value, and forwards each file to the backend
// in submission order.
func (h *FileHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, "Invalid multipart body", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		writeError(w, "No files provided", http.StatusBadRequest)
		return
	}
	category := domain.DocumentCategory(r.FormValue("category"))

	uploads := make([]filestore.FileUpload, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			writeError(w, "Could not read uploaded file "+header.Filename, http.StatusBadRequest)
			return
		}
		defer f.Close()
		uploads = append(uploads, filestore.FileUpload{
			Name:    header.Filename,
			Size:    header.Size,
			Content: f,
		})
	}

	records, err := h.Files.Upload(r.Context(), uploads, category)
	if err != nil {
		writeError(w, "Upload failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": records})
}

// UpdateCategory retags one local record.
func (h *FileHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category domain.DocumentCategory `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.Files.SetCategory(r.Context(), mux.Vars(r)["id"], req.Category); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFile removes a record. scope=knowledge_base also deletes the
// backend document first; the default scope=local touches nothing remote.
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["id"]

	if r.URL.Query().Get("scope") == "knowledge_base" {
		if err := h.Files.RemoveFromKnowledgeBase(r.Context(), fileID); err != nil {
			writeError(w, "Knowledge base deletion failed", http.StatusBadGateway)
			return
		}
	} else {
		if err := h.Files.RemoveLocal(r.Context(), fileID); err != nil {
			writeError(w, "Could not remove file", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListKnowledgeBase returns the normalized backend listing. refresh=true
// bypasses the cache.
func (h *FileHandler) ListKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	files, err := h.Files.ListKnowledgeBaseFiles(r.Context(), refresh)
	if err != nil {
		writeError(w, "Could not fetch knowledge base files", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// RefreshStatus re-queries ingestion progress for local records.
func (h *FileHandler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.Files.RefreshProcessingStatus(r.Context()); err != nil {
		writeError(w, "Could not refresh processing status", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": h.Files.Files()})
}

package handler

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/joeatteen/blog-backend/internal/imageurl"
	"github.com/joeatteen/blog-backend/internal/service"
)

const maxImageSize = 10 << 20 // 10 MB

// ImageHandler は画像 URL の再発行とアップロードを処理する
type ImageHandler struct {
	imageService service.ImageService
	uploadKey    string
}

// NewImageHandler は ImageHandler を生成する。uploadKey が空の場合、
// アップロードは常に 401 を返す。
func NewImageHandler(imageService service.ImageService, uploadKey string) *ImageHandler {
	return &ImageHandler{imageService: imageService, uploadKey: uploadKey}
}

// Refresh は GET /api/refresh-image を処理する。
// 外部サイトが期限切れになった画像 URL の再発行に使う。
func (h *ImageHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	path := r.URL.Query().Get("path")
	if path == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "image path is required"})
		return
	}

	url, err := h.imageService.RefreshURL(r.Context(), path)
	if err != nil {
		if errors.Is(err, imageurl.ErrUnresolvable) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":        "could not generate a valid image URL",
				"originalPath": path,
			})
			return
		}
		slog.Error("image refresh failed", "path", path, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed to refresh image URL"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// Upload は POST /api/images を処理する（アップロードキー必須）
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !h.authorized(r) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_too_large"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "file_required"})
		return
	}
	defer file.Close()

	path, err := h.imageService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		slog.Error("image upload failed", "filename", header.Filename, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upload_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"path": path})
}

// authorized はアップロードキーを定数時間比較で検証する
func (h *ImageHandler) authorized(r *http.Request) bool {
	if h.uploadKey == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.uploadKey)) == 1
}

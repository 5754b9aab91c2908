package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/joeatteen/blog-backend/internal/imageurl"
	"github.com/joeatteen/blog-backend/pkg/storage"
)

// allowedExtensions are the image types accepted for upload.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

// ImageService は画像 URL の解決とアップロードのインターフェース
type ImageService interface {
	// RefreshURL は保存済み参照から描画可能な URL を解決する
	RefreshURL(ctx context.Context, raw string) (string, error)
	// Upload は画像をストレージに保存し、正規パス（blog/{uuid}.{ext}）を返す
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// ImageServiceImpl は ImageService の実装
type ImageServiceImpl struct {
	resolver ImageResolver
	store    storage.Client
}

// NewImageService は ImageServiceImpl を生成する（DI: ImageResolver と storage.Client を注入）
func NewImageService(resolver ImageResolver, store storage.Client) ImageService {
	return &ImageServiceImpl{resolver: resolver, store: store}
}

// RefreshURL は参照を解決して URL を返す
func (s *ImageServiceImpl) RefreshURL(ctx context.Context, raw string) (string, error) {
	resolved, err := s.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}
	return resolved.URL, nil
}

// Upload は blog/{uuid}.{ext} にオブジェクトを保存する。元のファイル名は
// 拡張子の判定にのみ使い、オブジェクトキーには含めない。
func (s *ImageServiceImpl) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	path := fmt.Sprintf("%s/%s%s", imageurl.DefaultPrefix, uuid.NewString(), ext)
	if err := s.store.Upload(ctx, path, contentType, body); err != nil {
		return "", err
	}
	return path, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/joeatteen/blog-backend/internal/imageurl"
	"github.com/joeatteen/blog-backend/internal/repository"
	"github.com/joeatteen/blog-backend/pkg/storage"
)

// FixReport is one post's stored image reference with its classification
// and, when the value is not already canonical, the rewrite suggestion.
type FixReport struct {
	PostID        string `json:"id"`
	Title         string `json:"title"`
	Original      string `json:"original"`
	Kind          string `json:"kind"`
	ExtractedPath string `json:"extracted_path,omitempty"`
	SuggestedPath string `json:"suggested_path,omitempty"`
	NeedsFix      bool   `json:"needs_fix"`
}

// FixSummary reports the outcome of a batch fix run.
type FixSummary struct {
	Attempted int `json:"attempted"`
	Fixed     int `json:"fixed"`
}

// VerifyReport is the reachability result for one post's resolved URL.
type VerifyReport struct {
	PostID   string `json:"id"`
	Original string `json:"original"`
	URL      string `json:"url,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FixerService は保存済み画像参照の一括診断・修復のインターフェース
type FixerService interface {
	// Analyze は全投稿の image_url を分類し、修復候補を報告する
	Analyze(ctx context.Context) ([]*FixReport, error)
	// FixAll は非正規の参照をすべて正規パスに書き換える。1 件の書き込み
	// 失敗でバッチを中断せず、成功数と試行数を返す。
	FixAll(ctx context.Context) (FixSummary, error)
	// Verify は各参照を解決し、URL の到達可能性を確認する
	Verify(ctx context.Context) ([]*VerifyReport, error)
}

// FixerServiceImpl は FixerService の実装
type FixerServiceImpl struct {
	postRepo repository.PostRepository
	resolver *imageurl.Resolver
	store    storage.Client
}

// NewFixerService は FixerServiceImpl を生成する
func NewFixerService(postRepo repository.PostRepository, resolver *imageurl.Resolver, store storage.Client) FixerService {
	return &FixerServiceImpl{postRepo: postRepo, resolver: resolver, store: store}
}

// Analyze は全投稿の image_url を分類する
func (s *FixerServiceImpl) Analyze(ctx context.Context) ([]*FixReport, error) {
	refs, err := s.postRepo.ListImageReferences(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*FixReport, 0, len(refs))
	for _, ref := range refs {
		class := imageurl.Classify(ref.ImageURL)
		reports = append(reports, &FixReport{
			PostID:        ref.PostID,
			Title:         ref.Title,
			Original:      ref.ImageURL,
			Kind:          class.Kind.String(),
			ExtractedPath: class.ExtractedPath,
			SuggestedPath: class.SuggestedPath(),
			NeedsFix:      class.Kind != imageurl.KindCanonicalPath,
		})
	}
	return reports, nil
}

// FixAll は非正規参照を正規パスに書き換える
func (s *FixerServiceImpl) FixAll(ctx context.Context) (FixSummary, error) {
	reports, err := s.Analyze(ctx)
	if err != nil {
		return FixSummary{}, err
	}

	var summary FixSummary
	for _, rep := range reports {
		if !rep.NeedsFix || rep.SuggestedPath == "" {
			continue
		}
		summary.Attempted++
		if err := s.postRepo.UpdateImageURL(ctx, rep.PostID, rep.SuggestedPath); err != nil {
			// Keep going: each post is fixed independently.
			slog.Error("image reference rewrite failed",
				"post_id", rep.PostID,
				"original", rep.Original,
				"suggested", rep.SuggestedPath,
				"error", err,
			)
			continue
		}
		summary.Fixed++
	}
	return summary, nil
}

// Verify は各参照を解決し、HEAD リクエストで到達可能性を確認する
func (s *FixerServiceImpl) Verify(ctx context.Context) ([]*VerifyReport, error) {
	refs, err := s.postRepo.ListImageReferences(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*VerifyReport, 0, len(refs))
	for _, ref := range refs {
		rep := &VerifyReport{PostID: ref.PostID, Original: ref.ImageURL}
		resolved, err := s.resolver.Resolve(ctx, ref.ImageURL)
		if err != nil {
			rep.Error = err.Error()
			reports = append(reports, rep)
			continue
		}
		rep.URL = resolved.URL
		rep.Strategy = resolved.Strategy.String()
		if err := s.store.CheckURL(ctx, resolved.URL); err != nil {
			rep.Error = err.Error()
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Package article は追悼記事の作成・閲覧・編集・削除機能を提供する。
package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/omoide/internal/model"
	"github.com/hitoshi/omoide/internal/repository"
	"github.com/hitoshi/omoide/internal/security"
)

// Service は追悼記事のビジネスロジックを提供する。
// 本文HTMLは保存・更新時にサニタイズされ、読み出し側はそのまま返せる。
type Service struct {
	articleRepo repository.ArticleRepository
	sanitizer   security.ContentSanitizerService
}

// NewService はServiceを生成する。
func NewService(
	articleRepo repository.ArticleRepository,
	sanitizer security.ContentSanitizerService,
) *Service {
	return &Service{
		articleRepo: articleRepo,
		sanitizer:   sanitizer,
	}
}

// ListResult はListの戻り値。
type ListResult struct {
	Articles   []model.ArticleWithAuthor
	NextCursor string
	HasMore    bool
}

// Create は追悼記事を作成する。
// タイトルは前後の空白を除去した上で空ならEMPTY_TITLEを返す。
// 本文HTMLはサニタイズしてから保存する。
func (s *Service) Create(ctx context.Context, userID, title, content string) (*model.Article, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, model.NewEmptyTitleError()
	}

	now := time.Now()
	article := &model.Article{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Content:   s.sanitizer.Sanitize(content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	slog.Info("article created",
		slog.String("article_id", article.ID),
		slog.String("user_id", userID),
	)

	return article, nil
}

// Get は指定IDの記事を取得する。見つからない場合はARTICLE_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Article, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	if article == nil {
		return nil, model.NewArticleNotFoundError(id)
	}
	return article, nil
}

// List は記事一覧を著者名付きでcreated_at降順に返す。
// カーソルベースページネーションを使用し、limit+1件を取得してHasMoreを判定する。
func (s *Service) List(ctx context.Context, cursorStr string, limit int) (*ListResult, error) {
	var cursor time.Time
	if cursorStr != "" {
		var err error
		cursor, err = time.Parse(time.RFC3339Nano, cursorStr)
		if err != nil {
			// RFC3339でもパースを試みる
			cursor, err = time.Parse(time.RFC3339, cursorStr)
			if err != nil {
				return nil, model.NewInvalidCursorError(cursorStr)
			}
		}
	}

	fetchLimit := limit + 1
	articles, err := s.articleRepo.List(ctx, cursor, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	hasMore := len(articles) > limit
	if hasMore {
		articles = articles[:limit] // 余分な1件を除外
	}

	var nextCursor string
	if hasMore && len(articles) > 0 {
		nextCursor = articles[len(articles)-1].CreatedAt.Format(time.RFC3339Nano)
	}

	return &ListResult{
		Articles:   articles,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// Update は記事のタイトルと本文を上書き更新する。
// 履歴は保持せず、後勝ちで全置換する。本文は再サニタイズされる。
func (s *Service) Update(ctx context.Context, id, title, content string) (*model.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, model.NewEmptyTitleError()
	}

	existing, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	if existing == nil {
		return nil, model.NewArticleNotFoundError(id)
	}

	sanitized := s.sanitizer.Sanitize(content)
	if err := s.articleRepo.Update(ctx, id, title, sanitized); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	slog.Info("article updated",
		slog.String("article_id", id),
	)

	existing.Title = title
	existing.Content = sanitized
	existing.UpdatedAt = time.Now()
	return existing, nil
}

// Delete は指定IDの記事を削除する。見つからない場合はARTICLE_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find article: %w", err)
	}
	if existing == nil {
		return model.NewArticleNotFoundError(id)
	}

	if err := s.articleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	slog.Info("article deleted",
		slog.String("article_id", id),
	)

	return nil
}

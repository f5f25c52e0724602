package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/omoide/internal/article"
	"github.com/hitoshi/omoide/internal/middleware"
	"github.com/hitoshi/omoide/internal/model"
)

// defaultArticlesPerPage は記事一覧の1回の取得件数（デフォルト）。
const defaultArticlesPerPage = 20

// ArticleServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type ArticleServiceInterface interface {
	Create(ctx context.Context, userID, title, content string) (*model.Article, error)
	Get(ctx context.Context, id string) (*model.Article, error)
	List(ctx context.Context, cursor string, limit int) (*article.ListResult, error)
	Update(ctx context.Context, id, title, content string) (*model.Article, error)
	Delete(ctx context.Context, id string) error
}

// ArticleMetricsRecorder は記事ハンドラーが記録するメトリクスのインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type ArticleMetricsRecorder interface {
	RecordArticleSave()
	RecordArticleDelete()
}

// ArticleHandler は追悼記事のHTTPハンドラー。
type ArticleHandler struct {
	service ArticleServiceInterface
	metrics ArticleMetricsRecorder
}

// NewArticleHandler はArticleHandlerを生成する。
func NewArticleHandler(service ArticleServiceInterface, metrics ArticleMetricsRecorder) *ArticleHandler {
	return &ArticleHandler{
		service: service,
		metrics: metrics,
	}
}

// --- リクエスト・レスポンス型 ---

type articleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type articleResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // サニタイズ済みHTML
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type articleSummaryResponse struct {
	articleResponse
	AuthorName string `json:"author_name"`
}

type articleListResponse struct {
	Articles   []articleSummaryResponse `json:"articles"`
	NextCursor string                   `json:"next_cursor,omitempty"`
	HasMore    bool                     `json:"has_more"`
}

// CreateArticle は追悼記事を作成する。
// POST /api/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordArticleSave()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toArticleResponse(created))
}

// ListArticles は全ユーザーの記事一覧を著者名付きで取得する。
// GET /api/articles?cursor=xxx
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	result, err := h.service.List(r.Context(), cursor, defaultArticlesPerPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	articles := make([]articleSummaryResponse, len(result.Articles))
	for i, a := range result.Articles {
		articles[i] = articleSummaryResponse{
			articleResponse: toArticleResponse(&a.Article),
			AuthorName:      a.AuthorName,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(articleListResponse{
		Articles:   articles,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	})
}

// GetArticle は記事詳細を取得する。
// GET /api/articles/:id
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), articleID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleResponse(found))
}

// UpdateArticle は記事のタイトルと本文を上書き更新する。
// PATCH /api/articles/:id
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")

	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	updated, err := h.service.Update(r.Context(), articleID, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordArticleSave()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toArticleResponse(updated))
}

// DeleteArticle は記事を削除する。
// DELETE /api/articles/:id
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), articleID); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordArticleDelete()

	w.WriteHeader(http.StatusNoContent)
}

// toArticleResponse はmodel.ArticleからAPIレスポンスに変換する。
func toArticleResponse(a *model.Article) articleResponse {
	return articleResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

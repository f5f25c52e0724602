package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/omoide/internal/memorial"
	"github.com/hitoshi/omoide/internal/middleware"
	"github.com/hitoshi/omoide/internal/model"
)

// defaultMemorialsPerPage は記念日一覧の1回の取得件数（デフォルト）。
const defaultMemorialsPerPage = 50

// MemorialServiceInterface は記念日ハンドラーが必要とするサービスインターフェース。
type MemorialServiceInterface interface {
	Create(ctx context.Context, userID, description, date string) (*model.Memorial, error)
	List(ctx context.Context, cursor string, limit int) (*memorial.ListResult, error)
}

// MemorialHandler は記念日のHTTPハンドラー。
type MemorialHandler struct {
	service MemorialServiceInterface
}

// NewMemorialHandler はMemorialHandlerを生成する。
func NewMemorialHandler(service MemorialServiceInterface) *MemorialHandler {
	return &MemorialHandler{
		service: service,
	}
}

// --- リクエスト・レスポンス型 ---

type memorialRequest struct {
	Description string `json:"description"`
	Date        string `json:"date"` // YYYY-MM-DD
}

type memorialResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   time.Time `json:"created_at"`

	// D-Dayカウント（一覧取得時に算出）
	DayCountKind  string `json:"day_count_kind,omitempty"`
	DayCountDays  int    `json:"day_count_days,omitempty"`
	DayCountLabel string `json:"day_count_label,omitempty"`
}

type memorialListResponse struct {
	Memorials  []memorialResponse `json:"memorials"`
	NextCursor string             `json:"next_cursor,omitempty"`
	HasMore    bool               `json:"has_more"`
}

// CreateMemorial は記念日を登録する。
// POST /api/memorials
func (h *MemorialHandler) CreateMemorial(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req memorialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.Create(r.Context(), userID, req.Description, req.Date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(memorialResponse{
		ID:          created.ID,
		UserID:      created.UserID,
		Description: created.Description,
		Date:        created.Date,
		CreatedAt:   created.CreatedAt,
	})
}

// ListMemorials は記念日一覧をD-Dayカウント付きで取得する。
// GET /api/memorials?cursor=xxx
func (h *MemorialHandler) ListMemorials(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	result, err := h.service.List(r.Context(), cursor, defaultMemorialsPerPage)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	memorials := make([]memorialResponse, len(result.Entries))
	for i, entry := range result.Entries {
		memorials[i] = memorialResponse{
			ID:            entry.Memorial.ID,
			UserID:        entry.Memorial.UserID,
			Description:   entry.Memorial.Description,
			Date:          entry.Memorial.Date,
			CreatedAt:     entry.Memorial.CreatedAt,
			DayCountKind:  string(entry.DayCount.Kind),
			DayCountDays:  entry.DayCount.Days,
			DayCountLabel: entry.DayCount.Label(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(memorialListResponse{
		Memorials:  memorials,
		NextCursor: result.NextCursor,
		HasMore:    result.HasMore,
	})
}

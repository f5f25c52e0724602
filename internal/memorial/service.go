// Package memorial は記念日の登録とD-Dayカウント付き一覧を提供する。
package memorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/omoide/internal/model"
	"github.com/hitoshi/omoide/internal/repository"
)

// Service は記念日のビジネスロジックを提供する。
type Service struct {
	memorialRepo repository.MemorialRepository
}

// NewService はServiceを生成する。
func NewService(memorialRepo repository.MemorialRepository) *Service {
	return &Service{
		memorialRepo: memorialRepo,
	}
}

// Entry は一覧の1件。記念日レコードに算出済みのD-Dayカウントを付与する。
type Entry struct {
	Memorial model.Memorial
	DayCount model.DayCount
}

// ListResult はListの戻り値。
type ListResult struct {
	Entries    []Entry
	NextCursor string
	HasMore    bool
}

// Create は記念日を登録する。
// 説明は前後の空白を除去した上で空ならEMPTY_DESCRIPTIONを返す。
// 日付は"YYYY-MM-DD"形式でなければINVALID_DATEを返す。
// 登録後の編集・削除は提供しない。
func (s *Service) Create(ctx context.Context, userID, description, date string) (*model.Memorial, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, model.NewEmptyDescriptionError()
	}

	if _, err := time.Parse(model.MemorialDateLayout, date); err != nil {
		return nil, model.NewInvalidDateError(date)
	}

	memorial := &model.Memorial{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now(),
	}

	if err := s.memorialRepo.Create(ctx, memorial); err != nil {
		return nil, fmt.Errorf("failed to create memorial: %w", err)
	}

	slog.Info("memorial created",
		slog.String("memorial_id", memorial.ID),
		slog.String("user_id", userID),
		slog.String("date", date),
	)

	return memorial, nil
}

// List は記念日一覧を登録順（created_at昇順）に返す。
// 各レコードに現在時刻基準のD-Dayカウントを付与する。
// カーソルベースページネーションを使用し、limit+1件を取得してHasMoreを判定する。
func (s *Service) List(ctx context.Context, cursorStr string, limit int) (*ListResult, error) {
	var cursor time.Time
	if cursorStr != "" {
		var err error
		cursor, err = time.Parse(time.RFC3339Nano, cursorStr)
		if err != nil {
			cursor, err = time.Parse(time.RFC3339, cursorStr)
			if err != nil {
				return nil, model.NewInvalidCursorError(cursorStr)
			}
		}
	}

	fetchLimit := limit + 1
	memorials, err := s.memorialRepo.List(ctx, cursor, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list memorials: %w", err)
	}

	hasMore := len(memorials) > limit
	if hasMore {
		memorials = memorials[:limit]
	}

	now := time.Now()
	entries := make([]Entry, len(memorials))
	for i, m := range memorials {
		target, err := time.Parse(model.MemorialDateLayout, m.Date)
		if err != nil {
			// 保存時に検証済みなので通常は到達しない
			return nil, fmt.Errorf("failed to parse stored date %q: %w", m.Date, err)
		}
		entries[i] = Entry{
			Memorial: m,
			DayCount: ComputeDayCount(target, now),
		}
	}

	var nextCursor string
	if hasMore && len(entries) > 0 {
		nextCursor = entries[len(entries)-1].Memorial.CreatedAt.Format(time.RFC3339Nano)
	}

	return &ListResult{
		Entries:    entries,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

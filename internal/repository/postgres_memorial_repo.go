package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// PostgresMemorialRepo はPostgreSQLを使用した追悼記念日リポジトリ。
type PostgresMemorialRepo struct {
	db *sql.DB
}

// NewPostgresMemorialRepo はPostgresMemorialRepoを生成する。
func NewPostgresMemorialRepo(db *sql.DB) *PostgresMemorialRepo {
	return &PostgresMemorialRepo{db: db}
}

// Create は記念日レコードを作成する。
func (r *PostgresMemorialRepo) Create(ctx context.Context, memorial *model.Memorial) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memorials (id, user_id, description, date, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		memorial.ID, memorial.UserID, memorial.Description, memorial.Date, memorial.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert memorial: %w", err)
	}
	return nil
}

// List は記念日一覧をcreated_at昇順に取得する。
// cursorがゼロ値の場合は先頭から取得する。
func (r *PostgresMemorialRepo) List(ctx context.Context, cursor time.Time, limit int) ([]model.Memorial, error) {
	query := `SELECT id, user_id, description, date, created_at FROM memorials`
	args := []interface{}{}

	if !cursor.IsZero() {
		query += ` WHERE created_at > $1`
		args = append(args, cursor)
	}

	query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memorials: %w", err)
	}
	defer rows.Close()

	var memorials []model.Memorial
	for rows.Next() {
		var m model.Memorial
		if err := rows.Scan(&m.ID, &m.UserID, &m.Description, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memorial row: %w", err)
		}
		memorials = append(memorials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate memorial rows: %w", err)
	}

	return memorials, nil
}

// compile-time interface check
var _ MemorialRepository = (*PostgresMemorialRepo)(nil)

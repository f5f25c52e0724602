package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// PostgresArticleRepo はPostgreSQLを使用した追悼記事リポジトリ。
type PostgresArticleRepo struct {
	db *sql.DB
}

// NewPostgresArticleRepo はPostgresArticleRepoを生成する。
func NewPostgresArticleRepo(db *sql.DB) *PostgresArticleRepo {
	return &PostgresArticleRepo{db: db}
}

// Create は記事を作成する。
func (r *PostgresArticleRepo) Create(ctx context.Context, article *model.Article) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (id, user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		article.ID, article.UserID, article.Title, article.Content,
		article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}
	return nil
}

// FindByID は指定IDの記事を取得する。見つからない場合はnilを返す。
func (r *PostgresArticleRepo) FindByID(ctx context.Context, id string) (*model.Article, error) {
	article := &model.Article{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
		 FROM articles WHERE id = $1`,
		id,
	).Scan(&article.ID, &article.UserID, &article.Title, &article.Content,
		&article.CreatedAt, &article.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	return article, nil
}

// List は記事一覧を著者名付きでcreated_at降順に取得する。
// cursorがゼロ値の場合は先頭から取得する。
func (r *PostgresArticleRepo) List(ctx context.Context, cursor time.Time, limit int) ([]model.ArticleWithAuthor, error) {
	query := `SELECT a.id, a.user_id, a.title, a.content, a.created_at, a.updated_at, u.name
	          FROM articles a
	          JOIN users u ON u.id = a.user_id`
	args := []interface{}{}

	if !cursor.IsZero() {
		query += ` WHERE a.created_at < $1`
		args = append(args, cursor)
	}

	query += fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []model.ArticleWithAuthor
	for rows.Next() {
		var a model.ArticleWithAuthor
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Content,
			&a.CreatedAt, &a.UpdatedAt, &a.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate article rows: %w", err)
	}

	return articles, nil
}

// Update は指定IDの記事のタイトルと本文を上書き更新する。該当行がない場合はエラーを返す。
func (r *PostgresArticleRepo) Update(ctx context.Context, id, title, content string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE articles SET title = $1, content = $2, updated_at = now() WHERE id = $3`,
		title, content, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("article not found: %s", id)
	}
	return nil
}

// Delete は指定IDの記事を削除する。該当行がない場合はエラーを返す。
func (r *PostgresArticleRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("article not found: %s", id)
	}
	return nil
}

// ListContents は全記事の本文HTMLを返す。孤立メディア掃除のバッチ専用。
func (r *PostgresArticleRepo) ListContents(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT content FROM articles`)
	if err != nil {
		return nil, fmt.Errorf("failed to list article contents: %w", err)
	}
	defer rows.Close()

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		contents = append(contents, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate content rows: %w", err)
	}

	return contents, nil
}

// compile-time interface check
var _ ArticleRepository = (*PostgresArticleRepo)(nil)

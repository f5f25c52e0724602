package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// 各Postgres実装が対応するインターフェースを満たすことを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ CredentialRepository = (*PostgresCredentialRepo)(nil)
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
	var _ ArticleRepository = (*PostgresArticleRepo)(nil)
	var _ MemorialRepository = (*PostgresMemorialRepo)(nil)
	var _ MediaAssetRepository = (*PostgresMediaAssetRepo)(nil)
}

// 各コンストラクタがnilでないリポジトリを返すことを検証
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("expected non-nil user repo")
	}
	if NewPostgresCredentialRepo(nil) == nil {
		t.Error("expected non-nil credential repo")
	}
	if NewPostgresSessionRepo(nil) == nil {
		t.Error("expected non-nil session repo")
	}
	if NewPostgresArticleRepo(nil) == nil {
		t.Error("expected non-nil article repo")
	}
	if NewPostgresMemorialRepo(nil) == nil {
		t.Error("expected non-nil memorial repo")
	}
	if NewPostgresMediaAssetRepo(nil) == nil {
		t.Error("expected non-nil media asset repo")
	}
}

// CreateWithCredentialに渡すuserとcredentialのID整合性の前提を検証
func TestCreateWithCredential_LinksUserAndCredential(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:        "user-id-1",
		Email:     "test@example.com",
		Name:      "テストユーザー",
		CreatedAt: now,
		UpdatedAt: now,
	}
	credential := &model.Credential{
		ID:           "credential-id-1",
		UserID:       "user-id-1",
		PasswordHash: "$2a$10$examplehash",
		CreatedAt:    now,
	}

	if credential.UserID != user.ID {
		t.Errorf("credential.UserID = %q, want %q", credential.UserID, user.ID)
	}
}

// FindByIDが期限切れセッションを返さない契約の前提を検証
func TestSessionExpiry_Concept(t *testing.T) {
	session := &model.Session{
		ID:        "expired-session",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}

	if session.ExpiresAt.After(time.Now()) {
		t.Error("expected session to be expired")
	}
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/omoide/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn             func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn          func(ctx context.Context, email string) (*model.User, error)
	createWithCredentialFn func(ctx context.Context, user *model.User, credential *model.Credential) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) CreateWithCredential(ctx context.Context, user *model.User, credential *model.Credential) error {
	if m.createWithCredentialFn != nil {
		return m.createWithCredentialFn(ctx, user, credential)
	}
	return nil
}

type mockCredentialRepo struct {
	findByUserIDFn func(ctx context.Context, userID string) (*model.Credential, error)
}

func (m *mockCredentialRepo) FindByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	if m.findByUserIDFn != nil {
		return m.findByUserIDFn(ctx, userID)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func newTestService(userRepo *mockUserRepo, credRepo *mockCredentialRepo, sessionRepo *mockSessionRepo) *Service {
	return NewService(userRepo, credRepo, sessionRepo, ServiceConfig{SessionMaxAge: 86400})
}

// apiErrorCode はエラーからAPIErrorコードを取り出す。APIErrorでなければ空文字。
func apiErrorCode(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// --- SignUp ---

func TestSignUp_Success(t *testing.T) {
	var createdUser *model.User
	var createdCred *model.Credential

	userRepo := &mockUserRepo{
		createWithCredentialFn: func(ctx context.Context, user *model.User, credential *model.Credential) error {
			createdUser = user
			createdCred = credential
			return nil
		},
	}

	svc := newTestService(userRepo, &mockCredentialRepo{}, &mockSessionRepo{})

	user, err := svc.SignUp(context.Background(), "田中太郎", "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("SignUp() error = %v, want nil", err)
	}

	if user.Name != "田中太郎" {
		t.Errorf("user.Name = %q, want %q", user.Name, "田中太郎")
	}
	if user.Email != "taro@example.com" {
		t.Errorf("user.Email = %q, want %q", user.Email, "taro@example.com")
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}

	if createdUser == nil || createdCred == nil {
		t.Fatal("expected user and credential to be persisted")
	}
	if createdCred.UserID != createdUser.ID {
		t.Errorf("credential.UserID = %q, want %q", createdCred.UserID, createdUser.ID)
	}
	if createdCred.PasswordHash == "secret-password" {
		t.Error("password must not be stored in plain text")
	}
	if !VerifyPassword(createdCred.PasswordHash, "secret-password") {
		t.Error("stored hash should verify against the original password")
	}
}

func TestSignUp_InvalidEmail(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, &mockSessionRepo{})

	_, err := svc.SignUp(context.Background(), "名前", "not-an-email", "secret-password")
	if code := apiErrorCode(err); code != model.ErrCodeInvalidEmail {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeInvalidEmail)
	}
}

func TestSignUp_WeakPassword(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, &mockSessionRepo{})

	_, err := svc.SignUp(context.Background(), "名前", "taro@example.com", "short")
	if code := apiErrorCode(err); code != model.ErrCodeWeakPassword {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeWeakPassword)
	}
}

func TestSignUp_EmailExists(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}

	svc := newTestService(userRepo, &mockCredentialRepo{}, &mockSessionRepo{})

	_, err := svc.SignUp(context.Background(), "名前", "taro@example.com", "secret-password")
	if code := apiErrorCode(err); code != model.ErrCodeEmailExists {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeEmailExists)
	}
}

// --- SignIn ---

func TestSignIn_Success(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, Name: "太郎"}, nil
		},
	}
	credRepo := &mockCredentialRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Credential, error) {
			return &model.Credential{UserID: userID, PasswordHash: hash}, nil
		},
	}

	var savedSession *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			savedSession = session
			return nil
		},
	}

	svc := newTestService(userRepo, credRepo, sessionRepo)

	session, err := svc.SignIn(context.Background(), "taro@example.com", "secret-password")
	if err != nil {
		t.Fatalf("SignIn() error = %v, want nil", err)
	}

	if session.UserID != "user-1" {
		t.Errorf("session.UserID = %q, want %q", session.UserID, "user-1")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	if !session.ExpiresAt.After(time.Now()) {
		t.Error("session should expire in the future")
	}
	if savedSession == nil {
		t.Fatal("expected session to be persisted")
	}
}

// 未登録メールはUSER_NOT_FOUNDにマップされ、汎用エラーにならないことを検証
func TestSignIn_UnknownEmail(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, &mockSessionRepo{})

	_, err := svc.SignIn(context.Background(), "unknown@example.com", "whatever-password")
	if code := apiErrorCode(err); code != model.ErrCodeUserNotFound {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeUserNotFound)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email}, nil
		},
	}
	credRepo := &mockCredentialRepo{
		findByUserIDFn: func(ctx context.Context, userID string) (*model.Credential, error) {
			return &model.Credential{UserID: userID, PasswordHash: hash}, nil
		},
	}

	svc := newTestService(userRepo, credRepo, &mockSessionRepo{})

	_, err = svc.SignIn(context.Background(), "taro@example.com", "wrong-password")
	if code := apiErrorCode(err); code != model.ErrCodeWrongPassword {
		t.Errorf("error code = %q, want %q", code, model.ErrCodeWrongPassword)
	}
}

// --- SignOut / CurrentUser ---

func TestSignOut_DeletesSession(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, sessionRepo)

	if err := svc.SignOut(context.Background(), "session-123"); err != nil {
		t.Fatalf("SignOut() error = %v, want nil", err)
	}
	if deletedID != "session-123" {
		t.Errorf("deleted session ID = %q, want %q", deletedID, "session-123")
	}
}

func TestSignOut_EmptySessionID(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, &mockSessionRepo{})

	if err := svc.SignOut(context.Background(), ""); err == nil {
		t.Error("SignOut(\"\") error = nil, want error")
	}
}

func TestCurrentUser_Success(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "taro@example.com", Name: "太郎"}, nil
		},
	}

	svc := newTestService(userRepo, &mockCredentialRepo{}, sessionRepo)

	user, err := svc.CurrentUser(context.Background(), "session-123")
	if err != nil {
		t.Fatalf("CurrentUser() error = %v, want nil", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
}

func TestCurrentUser_ExpiredSession(t *testing.T) {
	// 期限切れセッションはリポジトリがnilを返す契約
	svc := newTestService(&mockUserRepo{}, &mockCredentialRepo{}, &mockSessionRepo{})

	if _, err := svc.CurrentUser(context.Background(), "expired-session"); err == nil {
		t.Error("CurrentUser() error = nil, want error for expired session")
	}
}

package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("my-secret-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v, want nil", err)
	}

	if hash == "my-secret-password" {
		t.Error("hash must differ from the plain password")
	}
	if !VerifyPassword(hash, "my-secret-password") {
		t.Error("VerifyPassword() = false for matching password, want true")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v, want nil", err)
	}

	if VerifyPassword(hash, "wrong-password") {
		t.Error("VerifyPassword() = true for wrong password, want false")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	if VerifyPassword("not-a-bcrypt-hash", "password") {
		t.Error("VerifyPassword() = true for invalid hash, want false")
	}
}

func TestHashPassword_DifferentSalts(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// bcryptはソルト付きなので同一パスワードでもハッシュは異なる
	if first == second {
		t.Error("two hashes of the same password should differ")
	}
}

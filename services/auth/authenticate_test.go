package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	userRepo "sahara/database/repository/user"
	"sahara/models"
	"sahara/utils"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

type stubVerifier map[string]*Claims

func (s stubVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("bad token")
}

type failingUsers struct{ userRepo.UserRepository }

func (failingUsers) Upsert(context.Context, models.UserSync) (*models.User, error) {
	return nil, errors.New("db down")
}

func TestAuthenticateIsIdempotent(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo()
	svc := &DefaultAuthService{
		Verifier: stubVerifier{"tok": {Subject: "fb-1", Email: "sita@example.com"}},
		Users:    repo,
	}

	first, err := svc.Authenticate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	second, err := svc.Authenticate(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("ids differ: %s vs %s", first.ID, second.ID)
	}
	if repo.Count() != 1 {
		t.Fatalf("users stored = %d, want 1", repo.Count())
	}
	if first.Name == nil || *first.Name != "sita" {
		t.Errorf("name = %v, want derived 'sita'", first.Name)
	}
	if first.FirebaseUID != "fb-1" {
		t.Errorf("firebaseUid = %q", first.FirebaseUID)
	}
}

func TestAuthenticateOverwritesRemovedClaims(t *testing.T) {
	repo := userRepo.NewMemoryUserRepo()
	svc := &DefaultAuthService{
		Verifier: stubVerifier{
			"with-email": {Subject: "fb-2", Email: "gita@example.com", PhoneNumber: "+977"},
			"phone-only": {Subject: "fb-2", PhoneNumber: "+977"},
		},
		Users: repo,
	}

	if _, err := svc.Authenticate(context.Background(), "with-email"); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	id, err := svc.Authenticate(context.Background(), "phone-only")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.Email != nil || id.Name != nil {
		t.Errorf("stale claims kept: email=%v name=%v", id.Email, id.Name)
	}
	if id.Phone == nil || *id.Phone != "+977" {
		t.Errorf("phone = %v", id.Phone)
	}
}

func TestAuthenticateFailures(t *testing.T) {
	tests := []struct {
		name  string
		token string
		users userRepo.UserRepository
	}{
		{"empty token", "", userRepo.NewMemoryUserRepo()},
		{"invalid token", "forged", userRepo.NewMemoryUserRepo()},
		{"upsert failure", "tok", failingUsers{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &DefaultAuthService{
				Verifier: stubVerifier{"tok": {Subject: "fb-1"}},
				Users:    tt.users,
			}
			_, err := svc.Authenticate(context.Background(), tt.token)
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("err = %v, want ErrUnauthorized", err)
			}
			if mem, ok := tt.users.(*userRepo.MemoryUserRepo); ok && mem.Count() != 0 {
				t.Errorf("users written on failure: %d", mem.Count())
			}
		})
	}
}

func TestJWTVerifier(t *testing.T) {
	secret := "dev-secret"
	token, err := utils.GenerateToken([]byte(secret), "dev-user", utils.DevClaims{Name: "Ram", PhoneNumber: "+9779800000000"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := NewJWTVerifier(secret).Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "dev-user" || claims.Name != "Ram" || claims.PhoneNumber != "+9779800000000" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewJWTVerifier("other").Verify(context.Background(), token); err == nil {
		t.Error("expected signature mismatch")
	}
}

type stubIDTokens struct{}

func (stubIDTokens) VerifyIDToken(_ context.Context, idToken string) (*firebaseAuth.Token, error) {
	if idToken != "id-token" {
		return nil, errors.New("invalid")
	}
	return &firebaseAuth.Token{
		UID:    "firebase-uid",
		Claims: map[string]interface{}{"email": "hari@example.com", "phone_number": "+977"},
	}, nil
}

func TestFirebaseVerifier(t *testing.T) {
	v := NewFirebaseVerifier(stubIDTokens{})
	claims, err := v.Verify(context.Background(), "id-token")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "firebase-uid" || claims.Email != "hari@example.com" || claims.PhoneNumber != "+977" || claims.Name != "" {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := v.Verify(context.Background(), "nope"); err == nil {
		t.Error("expected error")
	}
}

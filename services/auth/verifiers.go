package auth

import (
	"context"
	"errors"

	"sahara/utils"

	firebaseAuth "firebase.google.com/go/v4/auth"
)

// IDTokenVerifier is the subset of *firebaseAuth.Client used here.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseAuth.Token, error)
}

// FirebaseVerifier verifies Firebase ID tokens.
type FirebaseVerifier struct {
	client IDTokenVerifier
}

func NewFirebaseVerifier(client IDTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if tok.UID == "" {
		return nil, errors.New("token has no subject")
	}
	return &Claims{
		Subject:     tok.UID,
		Email:       stringClaim(tok.Claims, "email"),
		PhoneNumber: stringClaim(tok.Claims, "phone_number"),
		Name:        stringClaim(tok.Claims, "name"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// JWTVerifier verifies HS256 tokens signed with a shared secret. Meant for
// local development without a Firebase project.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	c, err := utils.ValidateToken(v.secret, token)
	if err != nil {
		return nil, err
	}
	return &Claims{
		Subject:     c.Subject,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Name:        c.Name,
	}, nil
}

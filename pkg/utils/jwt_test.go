package utils

import (
	"testing"
	"time"
)

func TestSignAndVerifyToken(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	token, err := SignToken("abc123", "admin@example.com", "hostel-admin")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	claims := VerifyToken(token)
	if claims == nil {
		t.Fatal("expected claims, got nil")
	}
	if claims.ID != "abc123" || claims.Email != "admin@example.com" || claims.Role != "hostel-admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestVerifyTokenNeverErrors(t *testing.T) {
	InitJWT("test-secret", time.Hour)

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"malformed": "a.b.c",
	}
	for name, token := range cases {
		if claims := VerifyToken(token); claims != nil {
			t.Errorf("%s: expected nil claims, got %+v", name, claims)
		}
	}
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	InitJWT("test-secret", time.Hour)
	token, err := SignToken("abc123", "admin@example.com", "staff")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	InitJWT("different-secret", time.Hour)
	if claims := VerifyToken(token); claims != nil {
		t.Errorf("token signed under another secret verified: %+v", claims)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	InitJWT("test-secret", -time.Minute)
	token, err := SignToken("abc123", "admin@example.com", "student")
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	if claims := VerifyToken(token); claims != nil {
		t.Errorf("expired token verified: %+v", claims)
	}
}

package utils

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "reader")

	token, err := m.GenerateToken(Identity{UserID: "u1", Name: "Ann", Avatar: "a.png"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Name != "Ann" || claims.Avatar != "a.png" || claims.Type != TokenTypeAccess {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", "reader")
	token, err := m.GenerateToken(Identity{UserID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := NewJWTManager("other", "reader").ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret error = %v", err)
	}
	if _, err := NewJWTManager("secret", "someone-else").ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer error = %v", err)
	}

	later := NewJWTManager("secret", "reader")
	later.now = func() time.Time { return time.Now().Add(time.Hour) }
	if _, err := later.ParseToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired error = %v", err)
	}

	if _, err := m.GenerateToken(Identity{}, time.Minute); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

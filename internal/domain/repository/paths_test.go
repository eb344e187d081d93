package repository

import (
	"errors"
	"testing"

	apperrors "z-novel-reader-api/pkg/errors"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "plain", id: "n1", wantErr: false},
		{name: "generated", id: "3f2a9c0d1e7b4a5c6d8e", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "separator", id: "a/b", wantErr: true},
		{name: "leading separator", id: "/n1", wantErr: true},
		{name: "nested path", id: "n1/volumes/v1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("novel", tt.id)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidParam) {
					t.Fatalf("ValidateID(%q) = %v, want validation error", tt.id, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateID(%q) = %v", tt.id, err)
			}
		})
	}
}

func TestValidateUserID(t *testing.T) {
	if err := ValidateUserID(""); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("ValidateUserID(\"\") = %v, want unauthenticated", err)
	}
	if err := ValidateUserID("u1/favorites/n1"); !errors.Is(err, apperrors.ErrInvalidParam) {
		t.Fatalf("ValidateUserID(nested) = %v, want validation error", err)
	}
	if err := ValidateUserID("u1"); err != nil {
		t.Fatalf("ValidateUserID(u1) = %v", err)
	}
}

func TestFavoritePathStaysInCollection(t *testing.T) {
	collection, id, err := ParseDocumentPath(FavoritePath("u1", "n1"))
	if err != nil {
		t.Fatalf("ParseDocumentPath() error = %v", err)
	}
	if collection != FavoritesCollection("u1") || id != "n1" {
		t.Fatalf("parsed = %s, %s", collection, id)
	}
}

package repository

import (
	"errors"
	"testing"
)

func TestNewOwnerScope(t *testing.T) {
	scope, err := NewOwnerScope("user-1")
	if err != nil {
		t.Fatalf("NewOwnerScope() error = %v", err)
	}
	if scope.OwnerID() != "user-1" {
		t.Errorf("OwnerID() = %q, want %q", scope.OwnerID(), "user-1")
	}
	if scope.IsZero() {
		t.Error("IsZero() = true for a built scope")
	}
}

func TestNewOwnerScope_EmptyOwner(t *testing.T) {
	_, err := NewOwnerScope("")
	if !errors.Is(err, ErrEmptyOwner) {
		t.Errorf("error = %v, want ErrEmptyOwner", err)
	}
}

func TestOwnerScope_ZeroValue(t *testing.T) {
	var scope OwnerScope
	if !scope.IsZero() {
		t.Error("zero OwnerScope should report IsZero")
	}
}

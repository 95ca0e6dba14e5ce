package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/polkiloo/campusmarket/internal/config"
)

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(0)
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestNewHasherUsesConfiguredCost(t *testing.T) {
	hasher := newHasher(hasherParams{Config: &config.Config{BcryptCost: bcrypt.MinCost}})
	b, ok := hasher.(*BcryptHasher)
	if !ok {
		t.Fatalf("expected *BcryptHasher, got %T", hasher)
	}
	if b.cost != bcrypt.MinCost {
		t.Fatalf("unexpected cost: %d", b.cost)
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "" || hash == "correct horse" {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := hasher.Compare(hash, "correct horse"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "battery staple"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestBcryptHasher_CompareMalformedHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	err := hasher.Compare("not-a-hash", "secret")
	if err == nil || errors.Is(err, ErrMismatch) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}

func TestBcryptHasher_HashError(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}
}

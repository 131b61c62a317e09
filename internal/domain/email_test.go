package domain_test

import (
	"testing"

	"github.com/bistrosoft/orders/internal/domain"
)

func TestNewEmail_Valid(t *testing.T) {
	cases := []string{
		"user@example.com",
		"  padded@example.com  ",
		"first.last@sub.example.org",
		"a@b.c",
	}

	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			if _, err := domain.NewEmail(raw); err != nil {
				t.Fatalf("expected %q to be valid, got %v", raw, err)
			}
		})
	}
}

func TestNewEmail_Invalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "blank", raw: "   "},
		{name: "no at", raw: "example.com"},
		{name: "at first", raw: "@example.com"},
		{name: "at last", raw: "user@"},
		{name: "two ats", raw: "user@@example.com"},
		{name: "no dot after at", raw: "user@example"},
		{name: "dot right after at", raw: "user@.com"},
		{name: "dot last", raw: "user@example."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewEmail(tc.raw)
			if err == nil {
				t.Fatalf("expected %q to be rejected", tc.raw)
			}
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEmail_EqualIgnoresCase(t *testing.T) {
	a, err := domain.NewEmail("User@Example.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := domain.NewEmail("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Fatal("emails differing only by case must be equal")
	}
	if a.Key() != b.Key() {
		t.Fatalf("expected identical keys, got %q and %q", a.Key(), b.Key())
	}
	// Исходный регистр сохраняется для отображения.
	if a.String() != "User@Example.COM" {
		t.Fatalf("expected original casing, got %q", a.String())
	}
}

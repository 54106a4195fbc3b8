package auth

import (
	"errors"
	"testing"
	"time"
)

// TestIssueVerify verifies a freshly issued token resolves to its user.
func TestIssueVerify(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	tok, err := iss.Issue(42)
	if err != nil {
		t.Fatal(err)
	}
	uid, err := iss.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	if uid != 42 {
		t.Errorf("uid = %d, want 42", uid)
	}
}

// TestVerifyWrongSecret verifies tokens signed with another secret are rejected.
func TestVerifyWrongSecret(t *testing.T) {
	tok, _ := NewIssuer("one", 0).Issue(1)
	if _, err := NewIssuer("two", 0).Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

// TestVerifyExpired verifies expiry is enforced.
func TestVerifyExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	iss.now = func() time.Time { return issued }
	tok, err := iss.Issue(1)
	if err != nil {
		t.Fatal(err)
	}

	iss.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := iss.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

// TestVerifyGarbage verifies malformed input is rejected.
func TestVerifyGarbage(t *testing.T) {
	if _, err := NewIssuer("secret", 0).Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

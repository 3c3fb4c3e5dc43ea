package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, KindPatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.ID != 42 {
		t.Errorf("ID = %d, want 42", p.ID)
	}
	if p.Kind != KindPatient {
		t.Errorf("Kind = %q, want patient", p.Kind)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, KindDoctor)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Issue(1, KindPatient)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewIssuer("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected error for wrong signing secret")
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Error("wrong password accepted")
	}
}

func requireTest(t *testing.T, issuer *Issuer, kind Kind, authHeader string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Require(issuer, kind)(func(c echo.Context) error {
		p, ok := PrincipalFromContext(c.Request().Context())
		if !ok {
			t.Error("principal missing from context")
		}
		if p.Kind != kind {
			t.Errorf("principal kind = %q, want %q", p.Kind, kind)
		}
		return c.NoContent(http.StatusOK)
	})
	return rec, h(c)
}

func TestRequire_AcceptsMatchingKind(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, _ := issuer.Issue(7, KindDoctor)

	rec, err := requireTest(t, issuer, KindDoctor, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestRequire_RejectsWrongKind(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, _ := issuer.Issue(7, KindPatient)

	_, err := requireTest(t, issuer, KindDoctor, "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRequire_RejectsMissingHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := requireTest(t, issuer, KindPatient, "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRequire_RejectsNonBearerScheme(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := requireTest(t, issuer, KindPatient, "Basic abc123")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestHashPassword(t *testing.T) {
	// Known digest: sha256("123")
	got := HashPassword("123")
	want := "a665a45920422f9d417e4867efdc4fb8a04a1f3fff1fa07e998e86f7f7a27ae3"
	if got != want {
		t.Errorf("unexpected hash: %s", got)
	}
	if HashPassword("123") != HashPassword("123") {
		t.Error("hash must be deterministic")
	}
	if HashPassword("123") == HashPassword("124") {
		t.Error("different passwords must hash differently")
	}
}

func TestSessions_IssueAndVerify(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	token, err := s.Issue(Identity{UserID: 1, Username: "admin", FullName: "Dr. Khan"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := s.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.UserID != 1 || id.Username != "admin" || id.FullName != "Dr. Khan" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestSessions_Expired(t *testing.T) {
	s := NewSessions("test-secret", -time.Minute)
	token, err := s.Issue(Identity{UserID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Verify(token); err != ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestSessions_WrongSecret(t *testing.T) {
	issuer := NewSessions("secret-a", time.Hour)
	verifier := NewSessions("secret-b", time.Hour)
	token, err := issuer.Issue(Identity{UserID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Error("expected verification to fail with wrong secret")
	}
}

func TestUserFromContext(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Error("expected nil identity on empty context")
	}
	id := &Identity{UserID: 7, Username: "admin"}
	ctx := WithIdentity(context.Background(), id)
	if got := UserFromContext(ctx); got == nil || got.UserID != 7 {
		t.Errorf("unexpected identity: %+v", got)
	}
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(s)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", err)
	}
}

func TestMiddleware_AcceptsBearerToken(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	token, _ := s.Issue(Identity{UserID: 1, Username: "admin", FullName: "Dr. Khan"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(s)(func(c echo.Context) error {
		id := UserFromContext(c.Request().Context())
		if id == nil || id.Username != "admin" {
			t.Errorf("expected identity in context, got %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_AcceptsCookie(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	token, _ := s.Issue(Identity{UserID: 1, Username: "admin"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(s)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

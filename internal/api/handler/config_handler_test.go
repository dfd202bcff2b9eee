package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vpnservice/access-system/internal/core/domain"
)

type stubCredentialService struct {
	descriptorFn func(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error)
	rotateFn     func(ctx context.Context, userID, actor string) (*domain.Credential, error)
}

func (s *stubCredentialService) Issue(ctx context.Context, userID string) (*domain.Credential, error) {
	return nil, domain.ErrCredentialNotFound
}

func (s *stubCredentialService) Rotate(ctx context.Context, userID, actor string) (*domain.Credential, error) {
	return s.rotateFn(ctx, userID, actor)
}

func (s *stubCredentialService) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	return nil, domain.ErrCredentialNotFound
}

func (s *stubCredentialService) AccessDescriptor(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
	return s.descriptorFn(ctx, userID, now)
}

func authedContext(t *testing.T, target, userID, email string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("email", email)
	c.Set("role", domain.RoleClient)
	return c, rec
}

func TestConfigHandler_GetDescriptor(t *testing.T) {
	stub := &stubCredentialService{
		descriptorFn: func(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
			if userID != "u1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.AccessDescriptor{Server: "vpn.example.com", Port: 443, Protocol: "vmess", ID: "uuid-1"}, nil
		},
	}
	h := NewConfigHandler(stub)

	c, rec := authedContext(t, "/v1/me/config", "u1", "alice@example.com")
	if err := h.GetDescriptor(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp descriptorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Server != "vpn.example.com" || resp.Port != 443 || resp.ID != "uuid-1" {
		t.Fatalf("unexpected descriptor: %+v", resp)
	}
}

func TestConfigHandler_GetDescriptor_DeniedPropagates(t *testing.T) {
	stub := &stubCredentialService{
		descriptorFn: func(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
			return nil, &domain.AccessDeniedError{Reason: domain.DenyNoActiveEntitlement}
		},
	}
	h := NewConfigHandler(stub)

	c, _ := authedContext(t, "/v1/me/config", "u1", "alice@example.com")
	err := h.GetDescriptor(c)

	var ade *domain.AccessDeniedError
	if !errors.As(err, &ade) {
		t.Fatalf("expected AccessDeniedError, got %v", err)
	}
	if ade.Reason != domain.DenyNoActiveEntitlement {
		t.Fatalf("unexpected reason: %s", ade.Reason)
	}
}

func TestConfigHandler_GetDescriptor_MissingClaims(t *testing.T) {
	h := NewConfigHandler(&stubCredentialService{
		descriptorFn: func(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me/config", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GetDescriptor(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestConfigHandler_GetLink(t *testing.T) {
	stub := &stubCredentialService{
		descriptorFn: func(ctx context.Context, userID string, now time.Time) (*domain.AccessDescriptor, error) {
			return &domain.AccessDescriptor{Server: "vpn.example.com", Port: 443, Protocol: "vmess", ID: "uuid-1"}, nil
		},
	}
	h := NewConfigHandler(stub)

	c, rec := authedContext(t, "/v1/me/config/link", "u1", "alice@example.com")
	if err := h.GetLink(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp linkResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.HasPrefix(resp.Link, "vmess://") {
		t.Fatalf("expected vmess link, got %q", resp.Link)
	}
}

func TestConfigHandler_Rotate(t *testing.T) {
	stub := &stubCredentialService{
		rotateFn: func(ctx context.Context, userID, actor string) (*domain.Credential, error) {
			if userID != "u2" || actor != "admin1" {
				t.Fatalf("unexpected args: %s %s", userID, actor)
			}
			return &domain.Credential{ID: "c1", UserID: userID, UUID: "new-uuid", CreatedAt: time.Now(), RotatedAt: time.Now()}, nil
		},
	}
	h := NewConfigHandler(stub)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/users/u2/credential/rotate", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "admin1")
	c.Set("role", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("u2")

	if err := h.Rotate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp credentialResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.UUID != "new-uuid" {
		t.Fatalf("unexpected credential: %+v", resp)
	}
	if resp.RotatedAt == nil {
		t.Fatalf("expected rotated_at to be set")
	}
}

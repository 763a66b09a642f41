package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestEngine(secret []byte, required Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewMiddleware(NewJWTAuthenticator(secret), nil)
	r := gin.New()
	r.GET("/protected", mw.Require(required), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, identity.Subject)
	})
	return r
}

func mustToken(t *testing.T, secret []byte, role Role) string {
	t.Helper()
	token, err := SignToken(secret, "user-1", role, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestMiddleware_NoToken(t *testing.T) {
	r := newTestEngine([]byte("test-secret"), RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestMiddleware_ViewerForbiddenForOperatorRoute(t *testing.T) {
	secret := []byte("test-secret")
	r := newTestEngine(secret, RoleOperator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, secret, RoleViewer))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestMiddleware_SupervisorAllowed(t *testing.T) {
	secret := []byte("test-secret")
	r := newTestEngine(secret, RoleOperator)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+mustToken(t, secret, RoleSupervisor))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || resp.Body.String() != "user-1" {
		t.Fatalf("expected 200 user-1, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	r := newTestEngine([]byte("test-secret"), RoleViewer)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, []byte("other"), RoleSupervisor))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestRole_Restricted(t *testing.T) {
	if !RoleOperator.Restricted() || !RoleViewer.Restricted() {
		t.Fatal("operators and viewers must be restricted")
	}
	if RoleSupervisor.Restricted() {
		t.Fatal("supervisors bypass the freshness window")
	}
}

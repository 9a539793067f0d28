package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contesto/internal/apperr"
	"contesto/internal/models"

	"github.com/gin-gonic/gin"
)

type stubRoles map[string]models.Role

func (s stubRoles) RoleOf(_ context.Context, email string) (models.Role, error) {
	role, ok := s[email]
	if !ok {
		return "", apperr.NotFound("user not found")
	}
	return role, nil
}

func newTestRouter(v Verifier, roles stubRoles) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
		email, _ := GetEmail(c)
		c.JSON(http.StatusOK, gin.H{"email": email})
	})
	r.GET("/admin", AuthMiddleware(v), RequireRole(roles, models.RoleAdmin), func(c *gin.Context) {
		role, _ := GetRole(c)
		c.JSON(http.StatusOK, gin.H{"role": role})
	})
	r.GET("/misordered", RequireRole(roles, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	v := NewHMACVerifier("test-secret")
	r := newTestRouter(v, stubRoles{})

	if w := doRequest(r, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: expected 401, got %d", w.Code)
	}
	if w := doRequest(r, "/me", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("invalid token: expected 401, got %d", w.Code)
	}

	other := NewHMACVerifier("other-secret")
	forged, _ := other.GenerateToken("uid-1", "a@example.com", time.Hour)
	if w := doRequest(r, "/me", forged); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret: expected 401, got %d", w.Code)
	}

	expired, _ := v.GenerateToken("uid-1", "a@example.com", -time.Minute)
	if w := doRequest(r, "/me", expired); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: expected 401, got %d", w.Code)
	}

	token, err := v.GenerateToken("uid-1", "A@Example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	w := doRequest(r, "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"email":"a@example.com"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestRequireRole(t *testing.T) {
	v := NewHMACVerifier("test-secret")
	r := newTestRouter(v, stubRoles{
		"admin@example.com": models.RoleAdmin,
		"user@example.com":  models.RoleUser,
	})

	adminToken, _ := v.GenerateToken("1", "admin@example.com", time.Hour)
	userToken, _ := v.GenerateToken("2", "user@example.com", time.Hour)
	strangerToken, _ := v.GenerateToken("3", "nobody@example.com", time.Hour)

	cases := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"admin allowed", "/admin", adminToken, http.StatusOK},
		{"user forbidden", "/admin", userToken, http.StatusForbidden},
		{"unknown user forbidden", "/admin", strangerToken, http.StatusForbidden},
		{"no token", "/admin", "", http.StatusUnauthorized},
		{"guard without identity fails closed", "/misordered", adminToken, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		if w := doRequest(r, tc.path, tc.token); w.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
		}
	}
}

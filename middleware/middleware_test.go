package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"schooltrip/models"
	"schooltrip/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func setup(t *testing.T) (*gin.Engine, *utils.TokenIssuer) {
	gin.SetMode(gin.TestMode)
	issuer, err := utils.NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	users := fakeUsers{
		"admin":  {ID: "admin", Role: models.RoleAdmin},
		"member": {ID: "member", Role: models.RoleMember},
	}
	r := gin.New()
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextUserID)+"/"+c.GetString(ContextUserRole)) }
	r.GET("/user", RequireUser(issuer, users, zap.NewNop()), ok)
	r.GET("/admin", RequireAdmin(issuer, users, zap.NewNop()), ok)
	return r, issuer
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	r, issuer := setup(t)
	token, _ := issuer.GenerateToken("member", "m@school.ge", models.RoleMember)

	if w := do(r, "/user", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w := do(r, "/user", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}
	w := do(r, "/user", token)
	if w.Code != http.StatusOK || w.Body.String() != "member/member" {
		t.Fatalf("valid token: %d %s", w.Code, w.Body.String())
	}

	staleAdmin, _ := issuer.GenerateToken("member", "m@school.ge", models.RoleAdmin)
	if w := do(r, "/user", staleAdmin); w.Code != http.StatusOK || w.Body.String() != "member/member" {
		t.Fatalf("stale admin claim: %d %s", w.Code, w.Body.String())
	}
	ghost, _ := issuer.GenerateToken("ghost", "g@school.ge", models.RoleMember)
	if w := do(r, "/user", ghost); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user: %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, issuer := setup(t)
	admin, _ := issuer.GenerateToken("admin", "a@school.ge", models.RoleAdmin)
	member, _ := issuer.GenerateToken("member", "m@school.ge", models.RoleMember)
	forged, _ := issuer.GenerateToken("member", "m@school.ge", models.RoleAdmin)
	ghost, _ := issuer.GenerateToken("ghost", "g@school.ge", models.RoleAdmin)

	if w := do(r, "/admin", admin); w.Code != http.StatusOK || w.Body.String() != "admin/admin" {
		t.Fatalf("admin: %d %s", w.Code, w.Body.String())
	}
	for name, tok := range map[string]string{"member": member, "stale role claim": forged, "deleted user": ghost} {
		if w := do(r, "/admin", tok); w.Code != http.StatusForbidden {
			t.Fatalf("%s: %d", name, w.Code)
		}
	}
	if w := do(r, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", w.Code)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(3, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	for i := 0; i < 3; i++ {
		if code := hit("1.1.1.1"); code != http.StatusOK {
			t.Fatalf("request %d: %d", i, code)
		}
	}
	if code := hit("1.1.1.1"); code != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded: %d", code)
	}
	if code := hit("2.2.2.2"); code != http.StatusOK {
		t.Fatalf("other client limited: %d", code)
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		headers map[string]string
		remote  string
		want    string
	}{
		{map[string]string{"X-Forwarded-For": " 9.9.9.9 , 10.0.0.1"}, "1.2.3.4:5", "9.9.9.9"},
		{map[string]string{"X-Real-IP": "8.8.8.8"}, "1.2.3.4:5", "8.8.8.8"},
		{nil, "1.2.3.4:5678", "1.2.3.4"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = tc.remote
		for k, v := range tc.headers {
			c.Request.Header.Set(k, v)
		}
		if got := getClientIP(c); got != tc.want {
			t.Fatalf("getClientIP = %q, want %q", got, tc.want)
		}
	}
}

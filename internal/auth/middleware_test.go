package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newGatedRouter(t *testing.T, service *Service) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AuthMiddleware(service))
	r.GET("/private/resource", func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sub": identity.Subject})
	})
	return r
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/private/resource", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestMiddlewareAllowsValidAccessToken(t *testing.T) {
	service := newTestService(t, nil)
	router := newGatedRouter(t, service)

	pair, err := service.IssueTokens("user-1")
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	rr := doRequest(router, "Bearer "+pair.AccessToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	service := newTestService(t, nil)
	router := newGatedRouter(t, service)

	rr := doRequest(router, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer header")
	}
}

func TestMiddlewareRejectsNonBearerScheme(t *testing.T) {
	service := newTestService(t, nil)
	router := newGatedRouter(t, service)

	rr := doRequest(router, "Basic dXNlcjpwYXNz")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestMiddlewareRejectsRefreshToken(t *testing.T) {
	service := newTestService(t, nil)
	router := newGatedRouter(t, service)

	pair, err := service.IssueTokens("user-1")
	if err != nil {
		t.Fatalf("issue returned error: %v", err)
	}

	rr := doRequest(router, "Bearer "+pair.RefreshToken)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected refresh token to be rejected with 401, got %d", rr.Code)
	}
	if rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer header")
	}
}

func TestMiddlewareRejectsMalformedToken(t *testing.T) {
	service := newTestService(t, nil)
	router := newGatedRouter(t, service)

	rr := doRequest(router, "Bearer definitely-not-a-token")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

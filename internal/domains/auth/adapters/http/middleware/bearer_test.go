package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
)

type stubAuth map[string]int64

func (s stubAuth) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	if token == "explode" {
		return domain.Identity{}, errors.New("db unavailable")
	}
	id, ok := s[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return domain.Identity{CustomerID: id}, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireBearer(stubAuth{"good": 17}, nil), func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer_id": identity.CustomerID})
	})
	return r
}

func TestRequireBearer(t *testing.T) {
	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"basic scheme", "Basic Z29vZA==", http.StatusUnauthorized},
		{"empty token", "Bearer  ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"store failure", "Bearer explode", http.StatusInternalServerError},
	}
	router := newRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			switch tc.status {
			case http.StatusOK:
				assert.JSONEq(t, `{"customer_id":17}`, rec.Body.String())
			case http.StatusUnauthorized:
				assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			case http.StatusInternalServerError:
				assert.NotContains(t, rec.Body.String(), "db unavailable")
			}
		})
	}
}

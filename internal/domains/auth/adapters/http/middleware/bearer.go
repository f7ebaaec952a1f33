package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/auth/ports"
	sharederrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
)

const identityKey = "auth.identity"

// RequireBearer authenticates the Authorization bearer token and stores the
// identity on the context. Requests without a valid session are aborted with 401.
func RequireBearer(auth ports.Authenticator, responder *sharederrors.Responder) gin.HandlerFunc {
	if responder == nil {
		responder = sharederrors.DefaultResponder
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			responder.Unauthorized(c, "missing bearer token")
			return
		}
		identity, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, domain.ErrUnauthenticated) {
			responder.Unauthorized(c, err.Error())
			return
		}
		if err != nil {
			responder.RespondError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireBearer.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

package mw

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"maintenance-backend/internal/apperr"
	"maintenance-backend/internal/authz"
	"maintenance-backend/internal/model"
	"maintenance-backend/internal/store"
	"maintenance-backend/internal/token"
)

const userContextKey = "mw.user"

// Auth verifies the bearer token and loads the caller's account into the
// request context. The email→user lookup is memoized for a short TTL so a
// burst of requests from one session costs a single query.
func Auth(tokens *token.Manager, s store.Store, userTTL time.Duration) gin.HandlerFunc {
	users := cache.New(userTTL, 2*userTTL)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c, "missing bearer token")
			return
		}

		email, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}

		if cached, found := users.Get(email); found {
			c.Set(userContextKey, cached.(*model.User))
			c.Next()
			return
		}

		user, err := s.UserByEmail(c.Request.Context(), email)
		if err != nil {
			// Token subject no longer resolves to an account (deleted user).
			abortUnauthenticated(c, "unknown account")
			return
		}
		users.SetDefault(email, user)

		c.Set(userContextKey, user)
		c.Next()
	}
}

// Authorize evaluates the role matrix for the authenticated caller.
// It must run after Auth.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthenticated(c, "missing bearer token")
			return
		}
		d := authz.Decide(user.Role, c.Request.Method, c.Request.URL.Path)
		if !d.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"kind":    apperr.KindForbidden,
				"message": d.Reason,
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account loaded by Auth, or nil.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*model.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"kind":    apperr.KindAuthenticationRequired,
		"message": message,
	})
}

package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/controller"
	"storefront/internal/session"
)

const (
	sessionCookie  = "sf_session"
	ctxSession     = "session"
	ctxControllers = "controllers"
)

// sessionMiddleware resolves the client's session from its cookie,
// creating one when absent or expired, and binds a bearer-token account
// to sessions that have none yet.
func sessionMiddleware(mgr *session.Manager, reg *controller.Registry, authp *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess := mgr.Get(id)
		if sess.ID != id {
			c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
		}

		if sess.Account() == nil {
			if token := bearerToken(c); token != "" {
				if account, err := authp.AccountForToken(c.Request.Context(), token); err == nil {
					sess.SetAccount(account, token)
				}
			}
		}

		c.Set(ctxSession, sess)
		c.Set(ctxControllers, reg.For(sess))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(ctxSession).(*session.Session)
}

func controllers(c *gin.Context) *controller.Set {
	return c.MustGet(ctxControllers).(*controller.Set)
}

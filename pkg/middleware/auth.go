package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthCookieName is the access-cookie flag checked by the gate. Presence is
// the whole check: this is a capability gate for a single-operator tool,
// not a security boundary.
const AuthCookieName = "auth_token"

// AuthCookieValue is the constant flag stored in the cookie on login.
const AuthCookieValue = "authenticated"

// LoginPath and DashboardPath are the two pages the gate redirects between.
const (
	LoginPath     = "/login"
	DashboardPath = "/leads"
)

// gateExempt paths pass through the gate untouched; the API carries its
// own contract and the operational endpoints must stay reachable.
var gateExempt = []string{"/api/", "/metrics", "/health", "/favicon.ico"}

// AccessGate walls the web pages behind the access cookie: unauthenticated
// traffic is sent to the login page, and authenticated traffic is sent away
// from it.
func AccessGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range gateExempt {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		_, err := c.Cookie(AuthCookieName)
		authenticated := err == nil

		if !authenticated && path != LoginPath {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if authenticated && path == LoginPath {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}

		c.Next()
	}
}

package middleware

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionIDKey is where the visitor token lives on the gin context.
const SessionIDKey = "session_id"

const sessionTokenName = "session_id"

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// EnsureSession guarantees every visitor carries a pseudonymous session
// token: created on first need, persisted in the cookie session for the
// lifetime of the client storage, never rotated or expired. The token
// scopes reactions without any authentication.
func EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(sessionTokenName).(string)
		if token == "" {
			token = newSessionToken()
			session.Set(sessionTokenName, token)
			if err := session.Save(); err != nil {
				log.Printf("Failed to persist session token: %v", err)
			}
		}

		c.Set(SessionIDKey, token)
		c.Next()
	}
}

// SessionID returns the visitor token set by EnsureSession.
func SessionID(c *gin.Context) string {
	v, _ := c.Get(SessionIDKey)
	token, _ := v.(string)
	return token
}

func newSessionToken() string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

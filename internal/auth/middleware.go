package auth

import "github.com/gin-gonic/gin"

// ContextKeyUserID holds the session user's ID in the gin context.
const ContextKeyUserID = "auth_user_id"

// SessionUser copies the logged-in user's ID from the session into the gin
// context. It must run after SessionLoadSave.
func (sm *SessionManager) SessionUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := sm.GetUserID(c.Request.Context()); id != 0 {
			c.Set(ContextKeyUserID, id)
		}
		c.Next()
	}
}

// GetUserID returns the session user's ID, or 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextKeyUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

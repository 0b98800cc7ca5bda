package server

import (
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/folio/internal/auth/domain"
	obscontext "github.com/smallbiznis/folio/internal/observability/context"
)

const contextUserKey = "current_user"

// AuthRequired authenticates the session cookie and loads the account into
// the request context.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		session, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			s.sessions.Clear(c)
			AbortWithError(c, err)
			return
		}

		user, err := s.authsvc.UserByID(c.Request.Context(), session.UserID)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := obscontext.WithActor(c.Request.Context(), user.ID.String(), user.DisplayName)
		c.Request = c.Request.WithContext(ctx)
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireAccess enforces the role policy for one object and action. Must run
// after AuthRequired.
func (s *Server) RequireAccess(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), user, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *authdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*authdomain.User)
	if !ok {
		return nil
	}
	return user
}

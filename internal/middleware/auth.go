package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wallforfry/associsse/internal/models"
	"github.com/wallforfry/associsse/internal/util"
)

// Context keys set by AuthMiddleware.
const (
	CtxUser         = "currentUser"
	CtxOrganization = "currentOrg"
	CtxMembership   = "currentMembership"
)

// AuthMiddleware validates the bearer JWT, loads the user and resolves their
// first ACTIVE organization membership into the gin context. Token issuance
// belongs to the identity collaborator; this service only consumes tokens.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx, for export downloads where custom
		// headers are not available
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Session expired, please sign in again")
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Unauthorized")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load user")
			}
			c.Abort()
			return
		}

		var membership models.Membership
		err = db.Preload("Organization").
			Where("user_id = ? AND status = ?", user.ID, models.MembershipActive).
			First(&membership).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusNotFound, util.CodeNotFound, "No active organization found")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load membership")
			}
			c.Abort()
			return
		}

		c.Set(CtxUser, &user)
		c.Set(CtxMembership, &membership)
		c.Set(CtxOrganization, &membership.Organization)
		c.Next()
	}
}

// CurrentUser returns the authenticated user from the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentOrganization returns the resolved organization from the context.
func CurrentOrganization(c *gin.Context) (*models.Organization, bool) {
	v, ok := c.Get(CtxOrganization)
	if !ok {
		return nil, false
	}
	org, ok := v.(*models.Organization)
	return org, ok && org != nil
}

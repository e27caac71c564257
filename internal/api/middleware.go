package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
)

// PrivilegeChecker answers whether a user is an administrator.
type PrivilegeChecker interface {
	HasElevatedPrivilege(ctx context.Context, userID string) (bool, error)
}

// RequireAdmin ensures the authenticated user is an administrator.
// It MUST be used after auth.AuthRequired middleware.
func RequireAdmin(checker PrivilegeChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
				Error:  "unauthorized",
				Reason: string(apperror.ReasonUnauthorized),
			})
			return
		}

		ok, err := checker.HasElevatedPrivilege(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorResponse{
				Error:  "internal server error",
				Reason: string(apperror.ReasonInternal),
			})
			return
		}

		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{
				Error:  "forbidden: administrator access required",
				Reason: string(apperror.ReasonForbidden),
			})
			return
		}

		c.Next()
	}
}

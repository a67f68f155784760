package handler

import (
	"errors"
	"log"
	"net/http"
	"regexp"

	"hostel-management-backend/internal/middleware"
	"hostel-management-backend/internal/notify"
	"hostel-management-backend/internal/repository"
	"hostel-management-backend/internal/service"
	"hostel-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RegisterValidators installs the custom binding validations. Called once
// from main before routes are served.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
	}
}

// respondError maps service and repository errors onto the response envelope.
// Internal error text never reaches the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Record not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
	case errors.Is(err, service.ErrConflict):
		utils.ErrorResponse(c, http.StatusConflict, "Record already exists")
	case errors.Is(err, service.ErrCurrentPasswordRequired):
		utils.ErrorResponse(c, http.StatusBadRequest, "Current password is required")
	case errors.Is(err, service.ErrWrongCurrentPassword):
		utils.ErrorResponse(c, http.StatusBadRequest, "Current password is incorrect")
	case errors.Is(err, notify.ErrNotConfigured):
		log.Printf("request failed: %v", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Notification service is not configured")
	default:
		log.Printf("request failed: %v", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Something went wrong")
	}
}

// resolveScope maps the caller's verified claims to their tenant. On failure
// the response has already been written and ok is false.
func resolveScope(c *gin.Context, scope *service.ScopeResolver) (primitive.ObjectID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return primitive.NilObjectID, false
	}
	hostelID, err := scope.HostelID(c.Request.Context(), claims)
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	return hostelID, true
}

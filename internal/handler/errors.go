package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/internal/service"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"go.uber.org/zap"
)

// writeError maps a service error onto the response envelope.
// Storage and unknown failures are logged and answered with a generic message.
func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var resp *response.Response
	switch {
	case errors.Is(err, service.ErrAccountCreation):
		resp = response.BadRequest("Failed to create account")
	case errors.As(err, &ve):
		resp = response.ValidationFailed(map[string]string{ve.Field: ve.Message})
	case errors.Is(err, domain.ErrValidation):
		resp = response.BadRequest(err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		resp = response.InvalidCredentials()
	case errors.Is(err, domain.ErrUnauthenticated):
		resp = response.Unauthorized("")
	case errors.Is(err, domain.ErrForbidden):
		resp = response.Forbidden("")
	case errors.Is(err, domain.ErrNotFound):
		resp = response.NotFound(notFoundMessage(err))
	case errors.Is(err, domain.ErrConflict):
		resp = response.Error(response.ErrCodeConflict, "Conflict")
	default:
		logger.Get().WithContext(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		resp = response.InternalError("")
	}
	c.JSON(response.GetHTTPStatus(resp.Error.Code), resp)
}

func notFoundMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return ""
}

// writeBindError answers a request whose body or query failed to bind
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		c.JSON(http.StatusBadRequest, response.ValidationFailed(details))
		return
	}
	c.JSON(http.StatusBadRequest, response.BadRequest("Invalid request body"))
}

var tagNamesOnce sync.Once

// useJSONFieldNames makes validation errors report the json field names clients send
func useJSONFieldNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "len":
		return "must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "must contain digits only"
	default:
		return "is invalid"
	}
}

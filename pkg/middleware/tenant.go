package middleware

import (
	"context"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/prohmpiriya/lensdesk/pkg/logger"
	"github.com/prohmpiriya/lensdesk/pkg/response"
	"go.uber.org/zap"
)

const contextKeyResource = "owned_resource"

// ResourceLoader fetches a record by id; (nil, nil) means it does not exist
type ResourceLoader[T domain.Owned] func(ctx context.Context, id string) (T, error)

// RequireOwnership loads the :param resource and aborts with 404 unless it
// belongs to the session firm. Records of other firms look exactly like missing ones.
// Must run after RequireFirm.
func RequireOwnership[T domain.Owned](param, entity string, load ResourceLoader[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		firmID, ok := GetFirmID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Unauthorized(""))
			return
		}

		resource, err := load(c.Request.Context(), c.Param(param))
		if err != nil {
			logger.Get().WithContext(c.Request.Context()).Error("failed to load resource",
				zap.String("entity", entity),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalError(""))
			return
		}
		if isNil(resource) || resource.OwnerFirmID() != firmID {
			c.AbortWithStatusJSON(http.StatusNotFound, response.NotFound(entity+" not found"))
			return
		}

		c.Set(contextKeyResource, resource)
		c.Next()
	}
}

// OwnedResource returns the record loaded by RequireOwnership
func OwnedResource[T domain.Owned](c *gin.Context) (T, bool) {
	var zero T
	v, exists := c.Get(contextKeyResource)
	if !exists {
		return zero, false
	}
	r, ok := v.(T)
	return r, ok
}

func isNil(o domain.Owned) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

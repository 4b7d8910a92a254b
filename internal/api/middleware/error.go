package middleware

import (
	"context"
	"errors"
	"net/http"

	"market-data-backend/internal/api/constant"
	"market-data-backend/internal/api/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Error translates errors attached to the gin context into the response
// envelope: validation errors become 400 with field details, other bind
// errors a plain 400, CustomError keeps its status code, a
// request-context deadline becomes 504, and anything else is a 500.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if ctxErr := c.Request.Context().Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, dto.Res{
				Success: false,
				Error:   "request timed out",
			})
			return
		}

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0]

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			validationErrors := make([]dto.ErrorType, 0)
			for _, fe := range ve {
				validationErrors = append(validationErrors, dto.ErrorType{
					Field:   fe.Field(),
					Message: fe.Error(),
				})
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Res{
				Success: false,
				Error:   validationErrors,
			})
			return
		}

		// Bind errors that are not validator failures (e.g. a type
		// mismatch on a query parameter) are still the client's fault.
		if err.IsType(gin.ErrorTypeBind) {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Res{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		var ce constant.CustomError
		if errors.As(err, &ce) {
			c.AbortWithStatusJSON(ce.StatusCode, dto.Res{
				Success: false,
				Error:   ce.Error(),
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Res{
			Success: false,
			Error:   err.Error(),
		})
	}
}

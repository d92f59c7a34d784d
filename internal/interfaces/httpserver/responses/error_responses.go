package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"media-studio/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from PlatformError
	Type          string `json:"type"`
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	Retryable     bool   `json:"retryable,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses.
// The body carries the closed user message for the error type; only
// validation failures add the domain message, which never holds remote text.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		errorType := domainErr.GetErrorType()
		errResp := ErrorResponse{
			Code:          domainErr.GetUUID(),
			Type:          string(errorType),
			Error:         platformerrors.UserMessage(errorType),
			Retryable:     platformerrors.IsRetryable(domainErr),
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		}
		if errorType == platformerrors.ErrorTypeValidation {
			errResp.Message = domainErr.Message
		}
		_ = reqCtx.Error(domainErr)
		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errorType), errResp)
		return
	}

	_ = reqCtx.Error(err)
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Type:          string(platformerrors.ErrorTypeInternal),
		Error:         platformerrors.UserMessage(platformerrors.ErrorTypeInternal),
		Message:       message,
		ErrorInstance: err,
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	HandleError(reqCtx, platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid), message)
}

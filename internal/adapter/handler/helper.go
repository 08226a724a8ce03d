package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/video-summarizer/errors"
	"github.com/johnquangdev/video-summarizer/internal/domain/entities"
	"github.com/johnquangdev/video-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/video-summarizer/internal/usecase/summarize"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request, then from the
// response where the RequestID middleware puts generated ids
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	var appErr errors.AppError
	if !stdErrors.As(toAppError(err), &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps domain and pipeline errors onto API error codes.
// Errors that are already AppError pass through untouched.
func toAppError(err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, entities.ErrJobNotFound):
		return errors.ErrJobNotFound("")
	case stdErrors.Is(err, entities.ErrResultNotReady):
		e := errors.ErrResultNotReady("", "")
		e.Raw = err
		return e
	}

	var storeErr *repositories.StoreError
	if stdErrors.As(err, &storeErr) {
		if storeErr.Backend == repositories.BackendRedis {
			return errors.ErrCacheFailed(storeErr.Op, storeErr.Err)
		}
		return errors.ErrDBQueryFailed(storeErr.Op, storeErr.Err)
	}

	if kind, ok := summarize.KindOf(err); ok {
		switch kind {
		case summarize.KindTranscription:
			return errors.ErrTranscriptionFailed(err)
		case summarize.KindSelection:
			return errors.ErrSelectionFailed(err)
		case summarize.KindAssembly:
			return errors.ErrAssemblyFailed(err)
		case summarize.KindReasoning:
			return errors.ErrAIServiceUnavailable("reasoning").WithDetail("cause", err.Error())
		}
	}
	return err
}

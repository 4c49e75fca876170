package http

import (
	"context"
	"errors"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/advisory-portal/internal/api/dto"
	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/observability"
	apperrors "github.com/spec-kit/advisory-portal/pkg/util"
)

// Response headers set by the transport layer.
const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRetryAfter         = fiber.HeaderRetryAfter
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, corsCfg config.CORSConfig) {
	app.Use(requestid.New())
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(corsMiddleware(corsCfg))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// corsMiddleware wraps fiber's CORS handler. Every OPTIONS request is
// answered here with 200 and an empty body; preflights also get the CORS
// headers. OPTIONS never reaches the router.
func corsMiddleware(cfg config.CORSConfig) fiber.Handler {
	origins := strings.Join(cfg.AllowOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	handler := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    HeaderRateLimitRemaining + ", " + HeaderRetryAfter,
		AllowCredentials: origins != "*",
	})
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodOptions {
			return handler(c)
		}
		if c.Get(fiber.HeaderOrigin) != "" && c.Get(fiber.HeaderAccessControlRequestMethod) != "" {
			if err := handler(c); err != nil {
				return err
			}
		}
		c.Response().ResetBody()
		c.Status(fiber.StatusOK)
		return nil
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := toDomainError(err)
				metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
						zap.Error(domainErr))
				}
				if secs, ok := apperrors.RetryAfterSeconds(domainErr); ok {
					c.Set(HeaderRetryAfter, strconv.Itoa(secs))
				}
				err = writeError(c, domainErr)
			}
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, domainErr *apperrors.DomainError) error {
	c.Status(domainErr.HTTPStatus)
	if domainErr.Body != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(domainErr.Body)
	}
	return c.JSON(dto.ErrorResponse{Error: dto.ErrorBody{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
	}})
}

// toDomainError also maps fiber's own errors, such as unknown routes.
func toDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	return apperrors.ToDomainError(err)
}

func codeForStatus(status int) string {
	switch {
	case status == fiber.StatusForbidden || status == fiber.StatusUnauthorized:
		return apperrors.CodeForbidden
	case status == fiber.StatusNotFound:
		return apperrors.CodeNotFound
	case status == fiber.StatusMethodNotAllowed:
		return apperrors.CodeMethodNotAllowed
	case status == fiber.StatusTooManyRequests:
		return apperrors.CodeRateLimited
	case status >= 500:
		return apperrors.CodeInternalError
	default:
		return apperrors.CodeValidationFailed
	}
}

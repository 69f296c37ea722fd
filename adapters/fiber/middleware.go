package fiber

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sensesdx/portalkit"
	"github.com/sensesdx/portalkit/core"
	"github.com/sensesdx/portalkit/pkg/cookie"
	"github.com/sensesdx/portalkit/pkg/crypto"
	"github.com/sensesdx/portalkit/query"
	"github.com/sensesdx/portalkit/rest"
)

const (
	localToken = "token"
	localUser  = "currentUser"
)

// requestLogger tags every request with an ID and logs its outcome.
func (a *Adapter) requestLogger(c fiber.Ctx) error {
	requestID := uuid.NewString()
	c.Set("X-Request-Id", requestID)

	start := time.Now()
	err := c.Next()

	a.log.Info("request",
		zap.String("id", requestID),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)))
	return err
}

// limitLogin throttles credential guessing across the instance.
func (a *Adapter) limitLogin(c fiber.Ctx) error {
	if !a.loginLimiter.Allow() {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"message": "too many login attempts, try again shortly",
		})
	}
	return c.Next()
}

// requireSession derives the caller's session from the browser cookies.
// A present token authenticates; the profile cookie is advisory only
// and an unreadable one never fails the request.
func (a *Adapter) requireSession(c fiber.Ctx) error {
	token := c.Cookies(core.TokenCookie)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": core.ErrSessionMissing.Error(),
		})
	}

	c.Locals(localToken, token)

	if raw := c.Cookies(core.ProfileCookie); raw != "" {
		var user core.User
		if err := json.Unmarshal([]byte(cookie.Decode(raw)), &user); err == nil {
			c.Locals(localUser, &user)
		}
	}

	return c.Next()
}

// guardView is the route guard consulting the central capability
// check. Denied navigation redirects to the default view.
func (a *Adapter) guardView(view string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if user, ok := c.Locals(localUser).(*core.User); ok && user != nil {
			if !portalkit.CanAccess(user.Role, view) {
				return c.Redirect().To("/views/" + portalkit.DefaultView)
			}
		}
		return c.Next()
	}
}

// requestContext scopes portal calls to the caller's session: the
// bearer token rides the context and the query cache is namespaced by
// the token hash so sessions never share entries.
func (a *Adapter) requestContext(c fiber.Ctx) context.Context {
	ctx := c.Context()
	token, ok := c.Locals(localToken).(string)
	if !ok || token == "" {
		return ctx
	}

	ctx = rest.WithToken(ctx, token)
	ctx = query.WithScope(ctx, crypto.HashToken(token))
	return ctx
}

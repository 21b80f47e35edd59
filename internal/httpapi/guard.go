package httpapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/policydesk/policydesk/internal/metrics"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/session"
)

// sessionCookie is the cookie browsers carry the session token in; API
// clients use the Authorization header instead.
const sessionCookie = "policydesk_session"

// hydrationWait bounds how long a request waits for session bootstrap.
// Hydration runs before the listener starts, so this only trips if the
// bootstrap order is broken.
const hydrationWait = 500 * time.Millisecond

// GuardConfig holds route-guard configuration.
type GuardConfig struct {
	JWTSecret  []byte
	LoginPath  string // redirect target for unauthenticated browser requests
	SessionTTL time.Duration
}

// sessionClaims are the token claims for an authenticated dashboard session.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// signSession issues a signed session token for the user.
func signSession(cfg GuardConfig, user models.AuthUser, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
			Issuer:    "policydesk",
		},
		Name:  user.Name,
		Email: user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cfg.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// parseSession validates a session token and returns the embedded user.
func parseSession(cfg GuardConfig, raw string) (models.AuthUser, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return cfg.JWTSecret, nil
	})
	if err != nil {
		return models.AuthUser{}, err
	}
	return models.AuthUser{ID: claims.Subject, Name: claims.Name, Email: claims.Email}, nil
}

// bearerToken extracts the session token from the Authorization header or
// the session cookie.
func bearerToken(c *fiber.Ctx) string {
	if h := c.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.Cookies(sessionCookie)
}

// wantsHTML reports whether the client is a browser navigation rather than
// an API call; those get a redirect instead of a 401.
func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get("Accept"), "text/html")
}

// NewRouteGuard returns the middleware protecting dashboard views. It
// re-evaluates on every protected request: a logout invalidates the very
// next access, no reload needed. Evaluation waits for session hydration so
// a valid restored session never flashes through a login redirect.
func NewRouteGuard(cfg GuardConfig, store *session.Store, m *metrics.Metrics, logger zerolog.Logger) fiber.Handler {
	log := logger.With().Str("component", "route_guard").Logger()

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), hydrationWait)
		err := store.AwaitHydration(ctx)
		cancel()
		if err != nil {
			return problemResponse(c, fiber.StatusServiceUnavailable,
				"not_hydrated", "Service Unavailable",
				"Session state is not ready yet")
		}

		deny := func(reason string) error {
			log.Debug().Str("path", c.Path()).Str("reason", reason).Msg("unauthenticated access")
			if wantsHTML(c) {
				if m != nil {
					m.RecordGuardRedirect()
				}
				return c.Redirect(cfg.LoginPath, fiber.StatusFound)
			}
			return problemResponse(c, fiber.StatusUnauthorized,
				"unauthenticated", "Unauthorized", reason)
		}

		if !store.IsAuthenticated() {
			return deny("No active session")
		}

		raw := bearerToken(c)
		if raw == "" {
			return deny("Missing session token")
		}

		user, err := parseSession(cfg, raw)
		if err != nil {
			return deny("Invalid session token")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/ports"
)

// authMiddleware validates JWT tokens and stores the claims in the request
// context for the handlers.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				s.logger.LogSecurityEvent("invalid_token", "", c.RealIP(), map[string]interface{}{
					"error": err.Error(),
				})
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("claims", claims)

			return next(c)
		}
	}
}

// requireAdmin gates routes on the admin role carried in the token. The
// approval endpoints additionally re-check the role against the user store
// inside the service, so a stale token cannot approve anything.
func (s *Server) requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("claims").(*ports.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get claims from context")
			}

			if claims.Role != entities.UserRoleAdmin {
				s.logger.LogSecurityEvent("insufficient_permissions",
					claims.UserID,
					c.RealIP(),
					map[string]interface{}{
						"user_role": claims.Role,
						"endpoint":  c.Request().URL.Path,
					})
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}

			return next(c)
		}
	}
}

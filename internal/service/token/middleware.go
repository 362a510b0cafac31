package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func CreateCookie(name, value, path string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// AutoRefreshMiddleware authenticates the request from the access cookie and
// transparently rotates an expired one against the refresh cookie.
func (s *Service) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		asCookie, err := c.Cookie("accessToken")
		if err == nil {
			tok, err := jwt.Parse(asCookie.Value, func(j *jwt.Token) (interface{}, error) {
				return s.JWTSecret, nil
			})
			if err == nil && tok.Valid {
				if err := setUserContext(c, tok.Claims.(jwt.MapClaims)); err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
				}
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}
		newAccess, newRefresh, err := s.RotateToken(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

		tok, _ := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) { return s.JWTSecret, nil })
		if err := setUserContext(c, tok.Claims.(jwt.MapClaims)); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		return next(c)
	}
}

func (s *Service) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return s.AutoRefreshMiddleware(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

func setUserContext(c echo.Context, claims jwt.MapClaims) error {
	id, err := subjectID(claims)
	if err != nil {
		return err
	}
	c.Set("user_id", id)
	role, _ := claims["role"].(string)
	c.Set("role", role)
	return nil
}

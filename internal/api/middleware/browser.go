package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// BrowserCookie carries the signed browser id.
	BrowserCookie = "l4u_browser"

	browserIDKey     = "browser_id"
	browserCookieTTL = 365 * 24 * time.Hour
)

// BrowserConfig configures the Browser middleware.
type BrowserConfig struct {
	// Secret signs the browser cookie (HS256).
	Secret string
	// Secure marks the cookie Secure; enable behind TLS.
	Secure bool
}

type browserClaims struct {
	BrowserID string `json:"bid"`
	jwt.RegisteredClaims
}

// Browser identifies the browser behind a request. The cookie holds only an
// opaque id; a missing, expired or tampered cookie yields a fresh browser.
func Browser(cfg BrowserConfig) echo.MiddlewareFunc {
	secret := []byte(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := readBrowserID(c, secret)
			if !ok {
				var err error
				id, err = issueBrowserCookie(c, secret, cfg.Secure)
				if err != nil {
					return err
				}
			}
			c.Set(browserIDKey, id)
			return next(c)
		}
	}
}

func readBrowserID(c echo.Context, secret []byte) (string, bool) {
	cookie, err := c.Cookie(BrowserCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := &browserClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid {
		return "", false
	}
	if _, err := uuid.Parse(claims.BrowserID); err != nil {
		return "", false
	}
	return claims.BrowserID, true
}

func issueBrowserCookie(c echo.Context, secret []byte, secure bool) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	signed, err := SignBrowserID(id, secret, now.Add(browserCookieTTL))
	if err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     BrowserCookie,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(browserCookieTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, nil
}

// SignBrowserID produces the cookie value for id.
func SignBrowserID(id string, secret []byte, expires time.Time) (string, error) {
	claims := browserClaims{
		BrowserID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// BrowserID returns the id set by Browser, or "" outside it.
func BrowserID(c echo.Context) string {
	id, _ := c.Get(browserIDKey).(string)
	return id
}

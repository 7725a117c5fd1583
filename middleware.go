package seotag

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName    = "admin_session"
	sessionAuthKey = "authenticated"
	csrfCookieName = "_csrf"
	csrfHeader     = "X-CSRF-Token"
)

// Generated documents served at fixed paths without a trailing slash.
var siteFiles = map[string]bool{
	"/sitemap.xml": true,
	"/feed.xml":    true,
	"/robots.txt":  true,
	"/favicon.svg": true,
}

// cachePolicy returns the Cache-Control value for a request path. Crawlers
// refetch the sitemap and feed daily; the image API is short-lived so edits
// to a post's image show up within minutes.
func cachePolicy(path string) string {
	switch {
	case strings.HasPrefix(path, "/public/"):
		return "public, max-age=31536000, immutable"
	case strings.HasPrefix(path, "/admin"):
		return "no-store"
	case strings.HasPrefix(path, "/api/"):
		return "public, max-age=300"
	case siteFiles[path] && path != "/favicon.svg":
		return "public, max-age=86400"
	}
	return "public, max-age=3600"
}

// keepsPathAsIs reports whether path is exempt from the trailing-slash redirect.
func keepsPathAsIs(path string) bool {
	return siteFiles[path] || path == "/blog" || strings.HasPrefix(path, "/public")
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:     true,
			LogURI:        true,
			LogMethod:     true,
			LogLatency:    true,
			LogValuesFunc: a.logRequest,
		}),
		middleware.Recover(),
		middleware.GzipWithConfig(middleware.GzipConfig{
			Level: 5,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Request().URL.Path, "/public/")
			},
		}),
		middleware.SecureWithConfig(middleware.SecureConfig{
			XSSProtection:      "1; mode=block",
			ContentTypeNosniff: "nosniff",
			XFrameOptions:      "DENY",
			ReferrerPolicy:     "strict-origin-when-cross-origin",
			// Post images may live on any HTTPS CDN.
			ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'",
			HSTSMaxAge:            31536000,
		}),
		session.Middleware(a.newSessionStore()),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
			TokenLookup:    "header:" + csrfHeader + ",form:_csrf",
			CookieName:     csrfCookieName,
			CookiePath:     "/",
			CookieSameSite: http.SameSiteLaxMode,
			CookieSecure:   a.Config.CookieSecure,
			ErrorHandler: func(err error, c echo.Context) error {
				return c.String(http.StatusForbidden, "Forbidden")
			},
		}),
		middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
			RedirectCode: http.StatusMovedPermanently,
			Skipper: func(c echo.Context) bool {
				return keepsPathAsIs(c.Request().URL.Path)
			},
		}),
		func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				c.Response().Header().Set("Cache-Control", cachePolicy(c.Request().URL.Path))
				return next(c)
			}
		},
	)
}

func (a *App) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	kv := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
	switch {
	case v.Status >= http.StatusInternalServerError:
		a.Logger.Error("request", kv...)
	case v.Status >= http.StatusBadRequest:
		a.Logger.Warn("request", kv...)
	default:
		a.Logger.Info("request", kv...)
	}
	return nil
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin checks if the current session is authenticated.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[sessionAuthKey].(bool)
	return auth
}

// saveAdminSession marks the session signed in, or expires it on logout.
func saveAdminSession(c echo.Context, signedIn bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if signedIn {
		sess.Values[sessionAuthKey] = true
	} else {
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

// Package webserver hosts the storefront assets and the JSON admin API on a
// single echo instance. Route registration mirrors the handler packages:
// handlers call ApiGET/ApiPOST/... during their register step.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"github.com/vitrinedecor/catalogo/internal/app"
)

const (
	appContextKey  = "catalogo_app"
	sessContextKey = "catalogo_sess"
	cookieName     = "catalogo_session"
)

// Session is the explicit per-request session context passed to handlers.
// The admin flag lives here, never in a package global.
type Session struct {
	IsAdmin bool
	CartID  string
}

type WebServer struct {
	root    *echo.Echo
	app     app.AppContext
	cookies *sessions.CookieStore
}

var server *WebServer

// Init builds the package server instance. Must run before handler packages
// register their routes.
func Init(ctx app.AppContext) {
	server = NewWebServer(ctx)
}

func NewWebServer(ctx app.AppContext) *WebServer {
	ws := &WebServer{
		root:    echo.New(),
		app:     ctx,
		cookies: sessions.NewCookieStore([]byte(ctx.Config().Web.Secret)),
	}
	ws.root.HideBanner = true
	ws.root.Use(middleware.Recover())
	ws.root.Use(ws.requestLogger)
	ws.root.Use(ws.sessionLoader)
	ws.root.Static("/", ctx.Config().Web.AssetsDir)
	return ws
}

// Listen starts the server and blocks.
func Listen() error {
	cfg := server.app.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	return server.root.Start(addr)
}

// Shutdown drains in-flight requests and stops the listener, falling back to
// a hard close when the deadline passes.
func Shutdown() {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.root.Shutdown(ctx); err != nil {
		zap.S().Errorf("graceful shutdown failed, closing: %v", err)
		_ = server.root.Close()
	}
}

// Echo exposes the underlying instance, used by tests.
func Echo() *echo.Echo {
	return server.root
}

func (ws *WebServer) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		zap.L().Debug("http",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
		)
		return err
	}
}

// sessionLoader resolves the cookie session into an explicit Session value
// and guarantees every visitor owns a cart id. Values staged here or by later
// handler code (SetAdmin) are flushed by a single Save right before the
// response headers are committed, so one request never emits two competing
// session cookies.
func (ws *WebServer) sessionLoader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := ws.cookies.Get(c.Request(), cookieName)
		cartID, _ := sess.Values["cart_id"].(string)
		if cartID == "" {
			cartID = random.String(16)
			sess.Values["cart_id"] = cartID
		}
		isAdmin, _ := sess.Values["admin"].(bool)
		c.Set(appContextKey, ws.app)
		c.Set(sessContextKey, Session{IsAdmin: isAdmin, CartID: cartID})
		c.Response().Before(func() {
			_ = sess.Save(c.Request(), c.Response())
		})
		return next(c)
	}
}

// GetApp returns the application context injected per request.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// GetSession returns the request's session context.
func GetSession(c echo.Context) Session {
	if s, ok := c.Get(sessContextKey).(Session); ok {
		return s
	}
	return Session{}
}

// SetAdmin flips the admin flag on the cookie session. The store registry
// returns the same session instance the loader staged, so the change rides
// the loader's deferred Save instead of writing a second cookie.
func SetAdmin(c echo.Context, isAdmin bool) {
	sess, _ := server.cookies.Get(c.Request(), cookieName)
	sess.Values["admin"] = isAdmin
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !GetSession(c).IsAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin session required"})
		}
		return next(c)
	}
}

// Public API routes.
func ApiGET(path string, h echo.HandlerFunc)  { server.root.GET("/api"+path, h) }
func ApiPOST(path string, h echo.HandlerFunc) { server.root.POST("/api"+path, h) }
func ApiPUT(path string, h echo.HandlerFunc)  { server.root.PUT("/api"+path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}

// Admin-gated API routes.
func AdminGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h, requireAdmin)
}
func AdminPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h, requireAdmin)
}
func AdminPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h, requireAdmin)
}
func AdminDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h, requireAdmin)
}

// RootPOST registers outside the /api prefix; the upload endpoint keeps its
// historical path.
func RootPOST(path string, h echo.HandlerFunc) { server.root.POST(path, h) }

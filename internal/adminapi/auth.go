package adminapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinedecor/catalogo/internal/webserver"
)

type loginPayload struct {
	Password string `json:"password"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/login", login)
	webserver.ApiPOST("/auth/logout", logout)
	webserver.ApiGET("/auth/session", sessionInfo)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	expected := webserver.GetApp(c).Config().Web.AdminPassword
	if subtle.ConstantTimeCompare([]byte(payload.Password), []byte(expected)) != 1 {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Wrong password", nil)
	}
	webserver.SetAdmin(c, true)
	return ok(c, map[string]bool{"is_admin": true})
}

func logout(c echo.Context) error {
	webserver.SetAdmin(c, false)
	return ok(c, map[string]bool{"is_admin": false})
}

func sessionInfo(c echo.Context) error {
	return ok(c, map[string]bool{"is_admin": webserver.GetSession(c).IsAdmin})
}

package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinedecor/catalogo/internal/webserver"
)

type categoryPayload struct {
	Name string `json:"name"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.AdminPOST("/categories", createCategory)
	webserver.AdminDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	categories, err := webserver.GetApp(c).Catalog().Categories()
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, categories)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	cat, err := webserver.GetApp(c).Catalog().CreateCategory(payload.Name)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, cat)
}

// deleteCategory runs the two-phase cascade and reports the deleted name so
// clients holding an active class filter on it can clear that filter.
func deleteCategory(c echo.Context) error {
	name, cleared, err := webserver.GetApp(c).Catalog().DeleteCategory(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]interface{}{
		"deleted_class":    name,
		"cleared_products": cleared,
	})
}

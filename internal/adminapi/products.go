package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/vitrinedecor/catalogo/internal/catalog"
	"github.com/vitrinedecor/catalogo/internal/checkout"
	"github.com/vitrinedecor/catalogo/internal/domain"
	"github.com/vitrinedecor/catalogo/internal/webserver"
)

type productPayload struct {
	ID               string   `json:"id"`
	Label            string   `json:"label"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            float64  `json:"price"`
	WhatsappTemplate string   `json:"whatsapp_template"`
	ImageURL         string   `json:"image_url"`
	Tags             []string `json:"tags"`
	Class            string   `json:"class"`
	Colors           []string `json:"colors"`
}

func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/products/:id/whatsapp", productWhatsappLink)
	webserver.AdminPOST("/products", saveProduct)
	webserver.AdminPUT("/products/:id", saveProduct)
	webserver.AdminPOST("/products/:id/toggle", toggleProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
	webserver.AdminGET("/products/export", exportProducts)
	webserver.AdminPOST("/products/import", importProducts)
}

// listProducts runs the storefront query: availability, class and free-text
// filters plus the sort key, all optional.
func listProducts(c echo.Context) error {
	products, err := webserver.GetApp(c).Catalog().Products()
	if err != nil {
		return failErr(c, err)
	}
	filters := catalog.Filters{
		AvailableOnly: c.QueryParam("availability") == "available",
		Class:         c.QueryParam("class"),
		Search:        c.QueryParam("q"),
		Sort:          catalog.SortKey(c.QueryParam("sort")),
	}
	list := catalog.Apply(products, filters)
	return ok(c, map[string]interface{}{
		"total": len(list),
		"items": list,
	})
}

func getProduct(c echo.Context) error {
	p, err := webserver.GetApp(c).Catalog().GetProduct(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

// productWhatsappLink builds the per-product deep link, honoring the chosen
// color variant from the query string.
func productWhatsappLink(c echo.Context) error {
	a := webserver.GetApp(c)
	p, err := a.Catalog().GetProduct(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	url := checkout.BuildLink(a.Config().Catalog.WhatsappNumber, p.WhatsappTemplate, p.Label, c.QueryParam("color"))
	return ok(c, map[string]string{"url": url})
}

func saveProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if id := c.Param("id"); id != "" {
		payload.ID = id
	}
	p, err := webserver.GetApp(c).Catalog().UpsertProduct(domain.Product{
		ID:               payload.ID,
		Label:            payload.Label,
		Name:             payload.Name,
		Description:      payload.Description,
		Price:            payload.Price,
		WhatsappTemplate: payload.WhatsappTemplate,
		ImageURL:         payload.ImageURL,
		Tags:             payload.Tags,
		Class:            payload.Class,
		Colors:           payload.Colors,
	})
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func toggleProduct(c echo.Context) error {
	p, err := webserver.GetApp(c).Catalog().ToggleAvailability(c.Param("id"))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := webserver.GetApp(c).Catalog().DeleteProduct(id); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]string{"id": id})
}

func exportProducts(c echo.Context) error {
	data, err := webserver.GetApp(c).Catalog().Export()
	if err != nil {
		return failErr(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="produtos.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// importProducts replaces the whole collection. Destructive, so the caller
// must state intent explicitly with confirm=true.
func importProducts(c echo.Context) error {
	if !cast.ToBool(c.QueryParam("confirm")) {
		return fail(c, http.StatusBadRequest, "CONFIRM_REQUIRED", "Import replaces all products; pass confirm=true", nil)
	}
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read import payload", err.Error())
	}
	count, err := webserver.GetApp(c).Catalog().Import(payload)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]int{"imported": count})
}

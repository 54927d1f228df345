package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vitrinedecor/catalogo/internal/cart"
	"github.com/vitrinedecor/catalogo/internal/checkout"
	"github.com/vitrinedecor/catalogo/internal/webserver"
)

type cartItemPayload struct {
	ProductID string `json:"id"`
	Qty       int    `json:"qty"`
	Color     string `json:"color"`
}

type cartQtyPayload struct {
	Qty int `json:"qty"`
}

func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:key", setCartItemQty)
	webserver.ApiDELETE("/cart/items/:key", removeCartItem)
	webserver.ApiDELETE("/cart", clearCart)
	webserver.ApiGET("/cart/checkout", cartCheckoutLink)
	webserver.ApiGET("/cart/link", cartShareLink)
}

// sessionCart resolves the visitor's own cart from the session context.
func sessionCart(c echo.Context) *cart.Cart {
	return webserver.GetApp(c).Carts().Cart(webserver.GetSession(c).CartID)
}

// getCart returns the cart joined with product data. Lines whose product was
// deleted since stay in the raw entries but are hidden from items and total.
func getCart(c echo.Context) error {
	entries, err := sessionCart(c).GetAll()
	if err != nil {
		return failErr(c, err)
	}
	products, err := webserver.GetApp(c).Catalog().Products()
	if err != nil {
		return failErr(c, err)
	}
	lines := cart.Resolve(entries, products)
	count := 0
	for _, e := range entries {
		count += e.Qty
	}
	return ok(c, map[string]interface{}{
		"entries": entries,
		"items":   lines,
		"count":   count,
		"total":   cart.Total(lines),
	})
}

func addCartItem(c echo.Context) error {
	var payload cartItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}
	if payload.ProductID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product id is required", nil)
	}
	if payload.Qty == 0 {
		payload.Qty = 1
	}
	entry, err := sessionCart(c).AddItem(payload.ProductID, payload.Qty, payload.Color)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, entry)
}

func setCartItemQty(c echo.Context) error {
	var payload cartQtyPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}
	if err := sessionCart(c).SetQty(c.Param("key"), payload.Qty); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]string{"key": c.Param("key")})
}

func removeCartItem(c echo.Context) error {
	if err := sessionCart(c).RemoveItem(c.Param("key")); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]string{"key": c.Param("key")})
}

func clearCart(c echo.Context) error {
	if err := sessionCart(c).Clear(); err != nil {
		return failErr(c, err)
	}
	return ok(c, map[string]string{"status": "cleared"})
}

// cartShareLink renders the short label-list message, unlike /cart/checkout
// which produces the full order text. An empty cart yields the generic
// interest message instead of an error.
func cartShareLink(c echo.Context) error {
	entries, err := sessionCart(c).GetAll()
	if err != nil {
		return failErr(c, err)
	}
	a := webserver.GetApp(c)
	products, err := a.Catalog().Products()
	if err != nil {
		return failErr(c, err)
	}
	lines := cart.Resolve(entries, products)
	labels := make([]string, 0, len(lines))
	for _, l := range lines {
		labels = append(labels, l.Product.Label)
	}
	url := checkout.BuildCartLink(a.Config().Catalog.WhatsappNumber, labels)
	return ok(c, map[string]string{"url": url})
}

// cartCheckoutLink renders the whole cart into the order deep link.
func cartCheckoutLink(c echo.Context) error {
	entries, err := sessionCart(c).GetAll()
	if err != nil {
		return failErr(c, err)
	}
	if len(entries) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	}
	a := webserver.GetApp(c)
	products, err := a.Catalog().Products()
	if err != nil {
		return failErr(c, err)
	}
	lines := cart.Resolve(entries, products)
	url := checkout.BuildOrderLink(a.Config().Catalog.WhatsappNumber, lines)
	return ok(c, map[string]interface{}{
		"url":   url,
		"total": cart.Total(lines),
	})
}

package domain

// CartEntry is one line of a shopping cart. Key, not ProductID, is the
// uniqueness key: the same product in two colors is two distinct lines.
// ProductID is a plain reference; the cart never owns product data and an
// entry may outlive the product it points at.
type CartEntry struct {
	Key       string `json:"key"`
	ProductID string `json:"id"`
	Qty       int    `json:"qty"`
	Color     string `json:"color,omitempty"`
	AddedAt   string `json:"addedAt"`
}

const cartKeySeparator = "||"

// CartKey derives the stable cart line key for a (product, color) pairing.
// The empty color maps to "<id>||" so colorless lines stay distinct from any
// colored variant of the same product.
func CartKey(productID, color string) string {
	return productID + cartKeySeparator + color
}

package domain

import "time"

// Product is the catalog record. The json tags are the interchange schema:
// export produces these field names and import accepts them, so they must not
// drift from what previously exported files contain.
type Product struct {
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
	Available        bool     `json:"available"`
	CreatedAt        string   `json:"createdAt"`
	UpdatedAt        string   `json:"updatedAt"`
}

// Category is the taxonomy record. Products reference it denormalized by
// name through Product.Class, not by id.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Timestamp renders the ISO-8601 form stored in CreatedAt/UpdatedAt.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

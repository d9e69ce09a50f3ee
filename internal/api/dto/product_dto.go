package dto

// ProductRequest payload for creating or replacing a catalog item.
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PriceCents  int64  `json:"price_cents"`
	Featured    bool   `json:"featured"`
}

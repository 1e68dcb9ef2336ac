package models

// ProductSize is one purchasable size of a product, derived from the
// payment provider's size_N / size_N_stock metadata keys.
type ProductSize struct {
	Label     string `json:"label"`
	Stock     int    `json:"stock"`
	Available bool   `json:"available"`
}

type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       int64         `json:"price"`
	PriceID     string        `json:"price_id,omitempty"`
	Currency    string        `json:"currency"`
	Images      []string      `json:"images"`
	Sizes       []ProductSize `json:"sizes,omitempty"`
	Category    string        `json:"category"`
}

type ProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type CreateProductRequest struct {
	Name        string        `json:"name" binding:"required"`
	Description string        `json:"description"`
	Price       int64         `json:"price" binding:"required,min=1"`
	Currency    string        `json:"currency"`
	Images      []string      `json:"images" binding:"max=3"`
	Sizes       []ProductSize `json:"sizes"`
	Category    string        `json:"category" binding:"required,oneof=home skate_shop preloved"`
}

type UpdateProductRequest struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Images      []string      `json:"images" binding:"max=3"`
	Sizes       []ProductSize `json:"sizes"`
	Category    string        `json:"category" binding:"omitempty,oneof=home skate_shop preloved"`
	Active      *bool         `json:"active"`
}

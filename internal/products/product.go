package products

import "github.com/angelmondragon/storefront-bff/pkg/types"

// Product is the catalog projection the storefront renders.
type Product struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Thumbnail   *Thumbnail   `json:"thumbnail,omitempty"`
	Price       *types.Money `json:"price,omitempty"`
	Category    *Category    `json:"category,omitempty"`
}

type Thumbnail struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

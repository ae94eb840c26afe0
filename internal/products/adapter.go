package products

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/storefront-bff/pkg/errors"
	"github.com/angelmondragon/storefront-bff/pkg/types"
)

// Wire shapes for the backend product fragment. Pointers distinguish absent
// fields from zero values so the adapter can reject malformed payloads.
type rawMoney struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency *string          `json:"currency"`
}

type rawGrossPrice struct {
	Gross *rawMoney `json:"gross"`
}

type rawProduct struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Thumbnail   *struct {
		URL *string `json:"url"`
		Alt *string `json:"alt"`
	} `json:"thumbnail"`
	Pricing *struct {
		PriceRange *struct {
			Start *rawGrossPrice `json:"start"`
		} `json:"priceRange"`
	} `json:"pricing"`
	Category *struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"category"`
}

func adaptMoney(raw *rawMoney) (*types.Money, error) {
	if raw == nil {
		return nil, nil
	}
	var err error
	if raw.Amount == nil {
		err = multierr.Append(err, fmt.Errorf("amount missing"))
	}
	if raw.Currency == nil {
		err = multierr.Append(err, fmt.Errorf("currency missing"))
	}
	if err != nil {
		return nil, err
	}
	money := types.NewMoney(*raw.Amount, *raw.Currency)
	return &money, nil
}

func adaptProduct(raw rawProduct) (Product, error) {
	var problems error
	if raw.ID == nil || *raw.ID == "" {
		problems = multierr.Append(problems, fmt.Errorf("id missing"))
	}
	if raw.Name == nil || *raw.Name == "" {
		problems = multierr.Append(problems, fmt.Errorf("name missing"))
	}
	if raw.Slug == nil || *raw.Slug == "" {
		problems = multierr.Append(problems, fmt.Errorf("slug missing"))
	}

	var price *types.Money
	if raw.Pricing != nil && raw.Pricing.PriceRange != nil && raw.Pricing.PriceRange.Start != nil {
		adapted, err := adaptMoney(raw.Pricing.PriceRange.Start.Gross)
		if err != nil {
			problems = multierr.Append(problems, fmt.Errorf("price: %w", err))
		} else {
			price = adapted
		}
	}

	if problems != nil {
		return Product{}, pkgerrors.Wrap(pkgerrors.CodeMalformed, problems, "product payload")
	}

	product := Product{
		ID:    *raw.ID,
		Name:  *raw.Name,
		Slug:  *raw.Slug,
		Price: price,
	}
	if raw.Description != nil {
		product.Description = *raw.Description
	}
	if raw.Thumbnail != nil && raw.Thumbnail.URL != nil {
		thumb := Thumbnail{URL: *raw.Thumbnail.URL}
		if raw.Thumbnail.Alt != nil {
			thumb.Alt = *raw.Thumbnail.Alt
		} else {
			thumb.Alt = product.Name
		}
		product.Thumbnail = &thumb
	}
	if raw.Category != nil && raw.Category.ID != nil && raw.Category.Name != nil {
		product.Category = &Category{ID: *raw.Category.ID, Name: *raw.Category.Name}
	}
	return product, nil
}

type productsPayload struct {
	Products *struct {
		Edges []struct {
			Node *rawProduct `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

func adaptProductList(data json.RawMessage) ([]Product, error) {
	var payload productsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode products payload")
	}
	if payload.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeMalformed, "products connection missing")
	}
	out := make([]Product, 0, len(payload.Products.Edges))
	for _, edge := range payload.Products.Edges {
		if edge.Node == nil {
			return nil, pkgerrors.New(pkgerrors.CodeMalformed, "product edge missing node")
		}
		product, err := adaptProduct(*edge.Node)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, nil
}

type productPayload struct {
	Product *rawProduct `json:"product"`
}

func adaptSingleProduct(data json.RawMessage) (*Product, error) {
	var payload productPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeMalformed, err, "decode product payload")
	}
	if payload.Product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product, err := adaptProduct(*payload.Product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

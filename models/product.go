package models

import "github.com/shopspring/decimal"

func init() {
	// prices travel as JSON numbers, the way the remote catalog sends them
	decimal.MarshalJSONWithoutQuotes = true
}

// Item is a catalog product. Two items are the same item iff their IDs match,
// whatever catalog they came from.
type Item struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
}

// RemoteProduct is one record of the remote catalog page.
type RemoteProduct struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Thumbnail   string          `json:"thumbnail"`
	Images      []string        `json:"images"`
}

type RemoteProductPage struct {
	Products []RemoteProduct `json:"products"`
	Total    int             `json:"total"`
	Skip     int             `json:"skip"`
	Limit    int             `json:"limit"`
}

// ToItem maps a remote record to the local item shape. The thumbnail falls
// back to the first image when the record carries none.
func (p RemoteProduct) ToItem() Item {
	thumbnail := p.Thumbnail
	if thumbnail == "" && len(p.Images) > 0 {
		thumbnail = p.Images[0]
	}
	return Item{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   thumbnail,
	}
}

func (page RemoteProductPage) Items() []Item {
	items := make([]Item, 0, len(page.Products))
	for _, p := range page.Products {
		items = append(items, p.ToItem())
	}
	return items
}

// ItemView is an item with its price rendered for display.
type ItemView struct {
	Item
	PriceDisplay string `json:"price_display"`
}

package models

const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

type SetNameRequest struct {
	Name string `json:"name" form:"name"`
}

// SelectItemRequest selects a local catalog item. A null id clears the
// selection.
type SelectItemRequest struct {
	ID *int `json:"id" form:"id"`
}

type AddToCartRequest struct {
	ID     int    `json:"id" form:"id" binding:"required"`
	Source string `json:"source" form:"source" binding:"omitempty,oneof=local remote"`
}

type SearchRequest struct {
	Query string `json:"query" form:"query"`
}

package api

import (
	"github.com/cams7/cadferias/pkg/crud"
)

// pageBody mirrors the paged answer of a get-by-search relation.
type pageBody[E any] struct {
	Content       []E   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func (p pageBody[E]) toPage() crud.Page[E] {
	items := p.Content
	if items == nil {
		items = []E{}
	}
	return crud.Page[E]{
		Items:         items,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
}

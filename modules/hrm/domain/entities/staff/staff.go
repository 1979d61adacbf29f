package staff

import "github.com/cams7/cadferias/pkg/hateoas"

type Staff struct {
	EntityID int64         `json:"entityId,omitempty"`
	Name     string        `json:"name,omitempty"`
	Links    hateoas.Links `json:"_links,omitempty"`
}

type Filter struct {
	Name string `json:"name,omitempty"`
}

// Package hateoas models the server-advertised affordances carried by every
// backend entity.
package hateoas

const (
	RelGetWithAuditByID = "get-with-audit-by-id"
	RelGetBySearch      = "get-by-search"
	RelGetByID          = "get-by-id"
	RelCreate           = "create"
	RelUpdate           = "update"
	RelDelete           = "delete"
)

type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Title  string `json:"title,omitempty"`
	Method string `json:"method,omitempty"`
}

type Links []Link

// Get returns the first link with the given relation.
func (l Links) Get(rel string) (Link, bool) {
	for _, link := range l {
		if link.Rel == rel {
			return link, true
		}
	}
	return Link{}, false
}

func (l Links) Has(rel string) bool {
	_, ok := l.Get(rel)
	return ok
}

// Title returns the relation title, or fallback when the relation is absent
// or carries no title.
func (l Links) Title(rel, fallback string) string {
	link, ok := l.Get(rel)
	if !ok || link.Title == "" {
		return fallback
	}
	return link.Title
}

// Affordance is the view-side projection of one relation.
type Affordance struct {
	Enabled bool   `json:"enabled"`
	Href    string `json:"href,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

func (l Links) Affordance(rel string) Affordance {
	link, ok := l.Get(rel)
	if !ok {
		return Affordance{}
	}
	return Affordance{Enabled: true, Href: link.Href, Tooltip: link.Title}
}

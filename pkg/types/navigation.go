package types

// NavigationItem is one entry of the application menu. Name is a message id.
type NavigationItem struct {
	Name         string           `json:"name"`
	Href         string           `json:"href"`
	Children     []NavigationItem `json:"children,omitempty"`
	RequiresAuth bool             `json:"-"`
}

// Visible filters the item and its children down to what the visitor may
// open.
func (n NavigationItem) Visible(authenticated bool) (NavigationItem, bool) {
	if n.RequiresAuth && !authenticated {
		return NavigationItem{}, false
	}
	children := make([]NavigationItem, 0, len(n.Children))
	for _, child := range n.Children {
		if visible, ok := child.Visible(authenticated); ok {
			children = append(children, visible)
		}
	}
	n.Children = children
	return n, true
}

// Localize replaces the message ids with the text localize returns.
func (n NavigationItem) Localize(localize func(id string) string) NavigationItem {
	n.Name = localize(n.Name)
	children := make([]NavigationItem, len(n.Children))
	for i, child := range n.Children {
		children[i] = child.Localize(localize)
	}
	n.Children = children
	return n
}

package crud

type FilterType string

const (
	FilterEmployee FilterType = "EMPLOYEE"
	FilterVacation FilterType = "VACATION"
	FilterStaff    FilterType = "STAFF"
	FilterUser     FilterType = "USER"
)

type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

type SortField struct {
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}

// SearchQuery is the body sent to a get-by-search relation.
type SearchQuery[F any] struct {
	Search string      `json:"search,omitempty"`
	Filter F           `json:"filter"`
	Page   int         `json:"page"`
	Size   int         `json:"size"`
	Sort   []SortField `json:"sort,omitempty"`
}

type Page[E any] struct {
	Items         []E   `json:"items"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

func (p Page[E]) Empty() bool {
	return len(p.Items) == 0
}

func (p Page[E]) First() bool {
	return p.Number == 0
}

func (p Page[E]) Last() bool {
	return p.TotalPages == 0 || p.Number >= p.TotalPages-1
}

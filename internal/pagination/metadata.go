package pagination

// Meta describes one page of a paginated result.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// NewMeta computes page totals for total items.
func NewMeta(p Params, total int) Meta {
	pages := 0
	if p.PageSize > 0 {
		pages = (total + p.PageSize - 1) / p.PageSize
	}
	return Meta{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}
}

// HasNext reports whether a later page exists.
func (m Meta) HasNext() bool {
	return m.Page < m.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (m Meta) HasPrevious() bool {
	return m.Page > 1
}

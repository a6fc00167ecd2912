package pagination

// Page is an offset page request; Page is 1-based.
type Page struct {
	Page  int
	Limit int
}

// Info is the pagination block returned with list responses.
type Info struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Normalize applies defaultLimit when limit is unset and clamps it to maxLimit.
func Normalize(page, limit, defaultLimit, maxLimit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// NewInfo builds the response block; pages is ceil(total/limit).
func NewInfo(p Page, total int64) Info {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Info{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}

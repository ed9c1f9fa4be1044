package squirreldex

// Pagination bounds. PageSize must be a multiple of 10 in [0, 100]; anything
// outside these caps is treated as a request for the first page.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1000
)

// Page is a pagination request: a 1-based page number and a page size.
type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PageInfo describes the position of a page slice within the full result
// set. It is derived per request and never persisted.
type PageInfo struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	TotalRecords int  `json:"total_records"`
	TotalPages   int  `json:"total_pages"`
	HasPrevious  bool `json:"has_previous"`
	HasNext      bool `json:"has_next"`
}

// DefaultPageRequest returns the default pagination request.
func DefaultPageRequest() Page {
	return Page{Page: DefaultPage, PageSize: DefaultPageSize}
}

// Offset converts the request into a row offset. Out-of-range values fall
// back to 0 rather than erroring; the schema already bounds them, but the
// arithmetic must hold up on its own against pathological input.
func (p Page) Offset() int {
	if p.Page <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.PageSize > MaxPageSize || p.Page > MaxPage {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ComputePageInfo derives the pagination descriptor for a request given the
// total number of records. Pure; safe for any input including pageSize 0.
func ComputePageInfo(p Page, totalRecords int) PageInfo {
	totalPages := 0
	if p.PageSize > 0 && totalRecords > 0 {
		totalPages = totalRecords / p.PageSize
		if totalRecords%p.PageSize > 0 {
			totalPages++
		}
	}

	return PageInfo{
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalRecords: totalRecords,
		TotalPages:   totalPages,
		HasPrevious:  p.Page > 1 && totalRecords > 0,
		HasNext:      p.Page < totalPages && totalRecords > 0,
	}
}

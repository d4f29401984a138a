package pagination

const (
	// DefaultPageSize is the number of catalog rows per page.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Page describes the resolved position inside a numbered result set.
type Page struct {
	Number      int   `json:"number"`
	Size        int   `json:"size"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NormalizeSize enforces the configured default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// NewPage clamps the requested 1-based page number into [1, TotalPages].
// An empty result set still has a single (empty) page.
func NewPage(requested int, total int64, size int) Page {
	size = NormalizeSize(size)
	if total < 0 {
		total = 0
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:      number,
		Size:        size,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasPrevious: number > 1,
		HasNext:     number < totalPages,
	}
}

// Offset returns the row offset of the first item on the page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

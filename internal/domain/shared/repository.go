package shared

// Filter carries the list-query options every repository listing accepts.
// Zero Page or PageSize disables pagination; ordering falls back to the
// repository's default when OrderBy is empty or not whitelisted there.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter lists the newest twenty records first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Paginated reports whether the filter asks for a bounded page.
func (f Filter) Paginated() bool {
	return f.Page > 0 && f.PageSize > 0
}

// Offset returns the row offset of the requested page.
func (f Filter) Offset() int {
	if !f.Paginated() {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

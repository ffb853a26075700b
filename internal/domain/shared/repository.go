package shared

// Page holds offset pagination parameters for list queries
type Page struct {
	Limit  int
	Offset int
}

// DefaultPageSize mirrors the page size used by the public listings
const DefaultPageSize = 40

// MaxPageSize caps the requested page size
const MaxPageSize = 100

// Normalize clamps the page to sane bounds
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

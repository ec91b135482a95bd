package pagination

import "fmt"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize returns params with the limit clamped. A negative offset is an error.
func (p Params) Normalize() (Params, error) {
	if p.Offset < 0 {
		return Params{}, fmt.Errorf("offset must be >= 0")
	}
	return Params{Limit: NormalizeLimit(p.Limit), Offset: p.Offset}, nil
}

// Bounds returns the half-open [start, end) window of a collection of size total.
func (p Params) Bounds(total int) (start, end int) {
	limit := NormalizeLimit(p.Limit)
	start = p.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end = start + limit
	if end > total {
		end = total
	}
	return start, end
}

// Slice applies the page window to an already ordered slice.
func Slice[T any](items []T, p Params) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}

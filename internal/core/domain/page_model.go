package domain

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := defaultPageSize
	if pageSize > 0 {
		pSize = pageSize
	}
	if pSize > maxPageSize {
		pSize = maxPageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Bounds returns the [start, end) window of the page over n items.
func (p Page) Bounds(n int) (int, int) {
	start := (p.Number - 1) * p.Size
	if start > n {
		start = n
	}
	end := start + p.Size
	if end > n {
		end = n
	}
	return start, end
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

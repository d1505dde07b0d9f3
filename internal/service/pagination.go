package service

// Pagination is a page-number/limit window for list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.Limit
}

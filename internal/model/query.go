package model

// ListQuery narrows and pages list queries. Name matches as a
// case-insensitive substring; Type and Category match exactly when set.
type ListQuery struct {
	Name     string
	Type     string
	Category string
	Page     int
	Limit    int
}

// Normalize applies pagination defaults and bounds
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return q
}

// Start returns the offset for the current page
func (q ListQuery) Start() int {
	return (q.Page - 1) * q.Limit
}

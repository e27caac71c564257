package request

import "time"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds the page window shared by list endpoints.
type ListParams struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in the default page window.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
}

// DateQuery carries a calendar day as YYYY-MM-DD.
type DateQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ParseIn interprets the date at midnight in loc.
func (q DateQuery) ParseIn(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", q.Date, loc)
}

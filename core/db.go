package core

// DBOrdering describes one ORDER BY term.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// PageSize is the fixed window used by all list endpoints.
const PageSize = 10

// PageInfo describes one window of a paginated listing.
type PageInfo struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Total       int  `json:"total"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate computes the page window [start:end) over a collection of
// `total` items. An out-of-range or invalid page number is clamped: numbers
// below 1 resolve to the first page, numbers past the end to the last page.
func Paginate(total, number int) (PageInfo, int, int) {
	numPages := (total + PageSize - 1) / PageSize
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	} else if number > numPages {
		number = numPages
	}

	start := (number - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	info := PageInfo{
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	return info, start, end
}

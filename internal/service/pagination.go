package service

// Pagination 偏移分页元信息；Total 未知时省略
type Pagination struct {
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	Total   *int64 `json:"total,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// NewPagination builds metadata for a page of n rows out of total.
func NewPagination(limit, offset, n int, total int64) Pagination {
	return Pagination{
		Limit:   limit,
		Offset:  offset,
		Total:   &total,
		HasMore: int64(offset+n) < total,
	}
}

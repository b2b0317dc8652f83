package models

// PagedResult is the envelope returned by every listing query.
// Page echoes the requested page number unconditionally; it is not
// clamped to the number of available pages.
type PagedResult[T any] struct {
	TotalResults int64 `json:"total_results"`
	TotalPages   int   `json:"total_pages"`
	Page         int   `json:"page"`
	Results      []T   `json:"results"`
}

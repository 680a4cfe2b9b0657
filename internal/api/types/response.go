// internal/api/types/response.go
package types

// PaginatedResponse is the generic envelope for paginated API responses,
// used by the ledger history endpoint.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}

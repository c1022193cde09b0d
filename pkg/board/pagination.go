package board

import (
	"sort"

	"imageboard/pkg/models"
)

// DefaultPageSize is the homepage page size.
const DefaultPageSize = 10

// Page is one visible slice of the recency-sorted thread list.
type Page struct {
	Threads    []models.Thread
	Number     int
	TotalPages int
	Total      int
}

// Paginate sorts threads by last_updated descending (ties broken by id
// descending so ordering is deterministic) and returns the requested
// 1-indexed page. Page numbers below 1 clamp to 1; numbers past the end
// clamp to the last page. An empty board yields an empty page 1.
func Paginate(threads []models.Thread, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	sorted := append([]models.Thread(nil), threads...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].LastUpdated != sorted[j].LastUpdated {
			return sorted[i].LastUpdated > sorted[j].LastUpdated
		}
		return sorted[i].ID > sorted[j].ID
	})

	total := len(sorted)
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Threads:    sorted[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}

package dto

import "testing"

func TestNewPagination(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		page, limit int
		total       int64
		totalPages  int
		hasNext     bool
		hasPrev     bool
	}{
		{"first of three", 1, 10, 25, 3, true, false},
		{"middle", 2, 10, 25, 3, true, true},
		{"last partial", 3, 10, 25, 3, false, true},
		{"exact fit", 2, 10, 20, 2, false, true},
		{"empty", 1, 10, 0, 0, false, false},
		{"single page", 1, 100, 7, 1, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.limit, tc.total)
			if p.CurrentPage != tc.page {
				t.Errorf("CurrentPage = %d, want %d", p.CurrentPage, tc.page)
			}
			if p.TotalPages != tc.totalPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tc.totalPages)
			}
			if p.Total != tc.total {
				t.Errorf("Total = %d, want %d", p.Total, tc.total)
			}
			if p.HasNextPage != tc.hasNext {
				t.Errorf("HasNextPage = %v, want %v", p.HasNextPage, tc.hasNext)
			}
			if p.HasPrevPage != tc.hasPrev {
				t.Errorf("HasPrevPage = %v, want %v", p.HasPrevPage, tc.hasPrev)
			}
		})
	}
}

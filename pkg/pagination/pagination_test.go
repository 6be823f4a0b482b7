package pagination

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		in          PaginationParams
		wantPage    int
		wantPerPage int
	}{
		{"defaults", PaginationParams{}, 1, 15},
		{"negative page", PaginationParams{Page: -3, PerPage: 10}, 1, 10},
		{"clamps size", PaginationParams{Page: 2, PerPage: 500}, 2, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("got %d/%d, want %d/%d", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Errorf("NewPagination(2, 10, 25) = %+v", p)
	}
	last := NewPagination(3, 10, 25)
	if last.HasNext {
		t.Error("last page should not have next")
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := Slice(items, &PaginationParams{Page: 2, PerPage: 2})
	if len(page.Items) != 2 || page.Items[0] != 3 {
		t.Errorf("page 2 = %v", page.Items)
	}
	if page.Pagination.Total != 5 || page.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", page.Pagination)
	}

	past := Slice(items, &PaginationParams{Page: 9, PerPage: 2})
	if len(past.Items) != 0 || past.Items == nil {
		t.Errorf("past end = %#v", past.Items)
	}
}

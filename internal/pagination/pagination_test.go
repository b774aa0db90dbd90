package pagination

import "testing"

func TestDefaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
	}{
		{"empty request", PageRequest{}, 1, DefaultPageSize},
		{"explicit values kept", PageRequest{Page: 3, PageSize: 50}, 3, 50},
		{"oversized page clamped", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize},
		{"negative values normalized", PageRequest{Page: -1, PageSize: -10}, 1, DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Defaults()
			if tt.in.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", tt.in.Page, tt.wantPage)
			}
			if tt.in.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", tt.in.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]int{1, 2, 3}, 2, 3, 7)
	if resp.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", resp.TotalPages)
	}
	if resp.TotalItems != 7 {
		t.Errorf("TotalItems = %d, want 7", resp.TotalItems)
	}

	empty := NewPageResponse[int](nil, 1, DefaultPageSize, 0)
	if empty.Data == nil {
		t.Error("expected non-nil Data for empty result")
	}
	if empty.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", empty.TotalPages)
	}
}

func TestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 20}
	if got := req.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
}

package pagination

import "testing"

func TestParamsNormalize(t *testing.T) {
	tests := []struct {
		in         Params
		wantPage   int
		wantPer    int
		wantOffset int
	}{
		{in: Params{}, wantPage: 1, wantPer: DefaultPerPage, wantOffset: 0},
		{in: Params{Page: 3, PerPage: 10}, wantPage: 3, wantPer: 10, wantOffset: 20},
		{in: Params{Page: -2, PerPage: 500}, wantPage: 1, wantPer: MaxPerPage, wantOffset: 0},
	}
	for _, tt := range tests {
		got := tt.in.Normalize()
		if got.Page != tt.wantPage || got.PerPage != tt.wantPer {
			t.Fatalf("normalize %+v: got %+v", tt.in, got)
		}
		if off := tt.in.Offset(); off != tt.wantOffset {
			t.Fatalf("offset %+v: expected %d got %d", tt.in, tt.wantOffset, off)
		}
	}
}

func TestNewPageComputesTotalPages(t *testing.T) {
	page := NewPage[string](nil, Params{Page: 2, PerPage: 10}, 21)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}
	if page.Items == nil {
		t.Fatal("items should never be nil")
	}

	empty := NewPage([]int{}, Params{}, 0)
	if empty.TotalPages != 0 || empty.PerPage != DefaultPerPage {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}

func TestMapKeepsCounters(t *testing.T) {
	page := NewPage([]int{1, 2}, Params{Page: 1, PerPage: 2}, 5)
	mapped := Map(page, func(v int) int { return v * 10 })
	if mapped.Total != 5 || mapped.TotalPages != 3 || mapped.Items[1] != 20 {
		t.Fatalf("unexpected mapped page %+v", mapped)
	}
}

func TestLikePattern(t *testing.T) {
	if got := (Params{Query: "  Taza "}).LikePattern(); got != "%taza%" {
		t.Fatalf("unexpected pattern %q", got)
	}
}

package usecase

import (
	"fmt"
	"reflect"
	"testing"

	"habittracker/model"
)

func TestSortedKeysNewestFirst(t *testing.T) {
	ledger := map[string]model.DayCounts{
		"2024-01-02": {},
		"2023-12-31": {},
		"2024-01-10": {},
		"2024-01-01": {},
	}

	got := sortedKeysNewestFirst(ledger)
	want := []string{"2024-01-10", "2024-01-02", "2024-01-01", "2023-12-31"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sortedKeysNewestFirst() = %v, want %v", got, want)
	}
}

func TestPaginate(t *testing.T) {
	keys := make([]string, 7)
	for i := range keys {
		keys[i] = fmt.Sprintf("2024-01-%02d", 7-i)
	}

	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantLen    int
		wantFirst  string
		wantPages  int
	}{
		{"first page", 1, 3, 3, "2024-01-07", 3},
		{"middle page", 2, 3, 3, "2024-01-04", 3},
		{"last partial page", 3, 3, 1, "2024-01-01", 3},
		{"past the end", 4, 3, 0, "", 3},
		{"exact fit last page", 7, 1, 1, "2024-01-01", 7},
		{"single page holds all", 1, 50, 7, "2024-01-07", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, totalPages := paginate(keys, tt.page, tt.pageSize)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if totalPages != tt.wantPages {
				t.Fatalf("totalPages = %d, want %d", totalPages, tt.wantPages)
			}
			if tt.wantLen > 0 && got[0] != tt.wantFirst {
				t.Fatalf("first key = %q, want %q", got[0], tt.wantFirst)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, totalPages := paginate(nil, 1, 5)
	if len(got) != 0 || totalPages != 0 {
		t.Fatalf("paginate(nil) = %v, %d", got, totalPages)
	}
}

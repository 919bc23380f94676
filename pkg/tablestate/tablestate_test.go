package tablestate

import (
	"fmt"
	"strconv"
	"testing"
)

type product struct {
	ID       int
	Name     string
	Category string
	Status   string
	Price    float64
}

func testProducts(n int) []product {
	categories := []string{"Electronics", "Apparel", "Home"}
	statuses := []string{"active", "draft"}
	items := make([]product, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, product{
			ID:       i,
			Name:     fmt.Sprintf("Product %02d", i),
			Category: categories[i%len(categories)],
			Status:   statuses[i%len(statuses)],
			Price:    float64(i) * 9.99,
		})
	}
	return items
}

func newTestTable(items []product) *TableState[product] {
	ts := New(Config[product]{
		SearchKeys:  []string{"Name"},
		CategoryKey: "Category",
		StatusKey:   "Status",
	})
	ts.SetItems(items)
	return ts
}

func TestFilterCompositionIsConjunctive(t *testing.T) {
	items := testProducts(30)
	ts := New(Config[product]{
		SearchKeys:  []string{"Name"},
		CategoryKey: "Category",
		StatusKey:   "Status",
		CustomFilters: []CustomFilter[product]{
			{Key: "priceBand", Predicate: func(p product, v string) bool {
				limit, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return true
				}
				return p.Price <= limit
			}},
		},
	})
	ts.SetItems(items)

	ts.SetSearchTerm("product")
	ts.SetSelectedCategory("Electronics")
	ts.SetSelectedStatus("active")
	ts.SetCustomValue("priceBand", "150")

	filtered := ts.FilteredItems()
	inFiltered := make(map[int]bool, len(filtered))
	for _, p := range filtered {
		inFiltered[p.ID] = true
	}

	// Every item appears iff it independently satisfies all predicates.
	for _, p := range items {
		want := p.Category == "Electronics" && p.Status == "active" && p.Price <= 150
		if inFiltered[p.ID] != want {
			t.Errorf("item %d: in filtered %v, want %v", p.ID, inFiltered[p.ID], want)
		}
	}
}

func TestSearchMatchesAnyKeyCaseInsensitive(t *testing.T) {
	ts := New(Config[product]{
		SearchKeys:  []string{"Name", "Category"},
		CategoryKey: "Category",
	})
	ts.SetItems([]product{
		{ID: 1, Name: "Widget", Category: "Tools"},
		{ID: 2, Name: "Gadget", Category: "Electronics"},
		{ID: 3, Name: "Toolbox", Category: "Storage"},
	})

	ts.SetSearchTerm("TOOL")
	filtered := ts.FilteredItems()
	if len(filtered) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(filtered))
	}
	if filtered[0].ID != 1 || filtered[1].ID != 3 {
		t.Errorf("unexpected matches: %v", filtered)
	}
}

func TestEmptySearchKeysDegradeToNoop(t *testing.T) {
	ts := New(Config[product]{})
	ts.SetItems(testProducts(5))

	ts.SetSearchTerm("no such thing")
	if got := len(ts.FilteredItems()); got != 5 {
		t.Errorf("empty searchKeys should not constrain, got %d items", got)
	}
}

func TestCategoryIsExactMatchNotSubstring(t *testing.T) {
	ts := New(Config[product]{CategoryKey: "Category"})
	ts.SetItems([]product{
		{ID: 1, Category: "Home"},
		{ID: 2, Category: "Home & Garden"},
	})

	ts.SetSelectedCategory("Home")
	filtered := ts.FilteredItems()
	if len(filtered) != 1 || filtered[0].ID != 1 {
		t.Errorf("expected exact match on item 1, got %v", filtered)
	}
}

func TestSentinelMeansNoConstraint(t *testing.T) {
	ts := newTestTable(testProducts(12))

	ts.SetSelectedCategory("Electronics")
	ts.SetSelectedCategory("All")
	if got := len(ts.FilteredItems()); got != 12 {
		t.Errorf("sentinel selection should pass everything, got %d", got)
	}
}

func TestCustomFilterFieldEquality(t *testing.T) {
	ts := New(Config[product]{
		CustomFilters: []CustomFilter[product]{
			{Key: "status", Field: "Status"},
		},
	})
	ts.SetItems(testProducts(10))

	ts.SetCustomValue("status", "draft")
	for _, p := range ts.FilteredItems() {
		if p.Status != "draft" {
			t.Errorf("item %d leaked through equality filter: status %q", p.ID, p.Status)
		}
	}

	ts.SetCustomValue("status", "All")
	if got := len(ts.FilteredItems()); got != 10 {
		t.Errorf("sentinel custom value should pass everything, got %d", got)
	}
}

func TestSetCustomValueUnknownKeyIgnored(t *testing.T) {
	ts := newTestTable(testProducts(5))

	ts.SetCustomValue("nonexistent", "x")
	if got := len(ts.FilteredItems()); got != 5 {
		t.Errorf("unknown filter key should be a no-op, got %d items", got)
	}
}

func TestGetValueAccessorOverride(t *testing.T) {
	ts := New(Config[product]{
		SearchKeys: []string{"display"},
		GetValue: map[string]Accessor[product]{
			"display": func(p product) any { return fmt.Sprintf("%s/%s", p.Category, p.Name) },
		},
	})
	ts.SetItems([]product{
		{ID: 1, Name: "Lamp", Category: "Home"},
		{ID: 2, Name: "Cable", Category: "Electronics"},
	})

	ts.SetSearchTerm("home/lamp")
	filtered := ts.FilteredItems()
	if len(filtered) != 1 || filtered[0].ID != 1 {
		t.Errorf("accessor override not applied: %v", filtered)
	}
}

func TestMapItems(t *testing.T) {
	ts := New(Config[map[string]any]{
		SearchKeys:  []string{"name"},
		CategoryKey: "category",
	})
	ts.SetItems([]map[string]any{
		{"id": 1, "name": "Desk", "category": "Furniture"},
		{"id": 2, "name": "Monitor", "category": "Electronics"},
	})

	ts.SetSelectedCategory("Furniture")
	filtered := ts.FilteredItems()
	if len(filtered) != 1 || filtered[0]["id"] != 1 {
		t.Errorf("map item filtering failed: %v", filtered)
	}
}

func TestIdempotentSetSearchTerm(t *testing.T) {
	ts := newTestTable(testProducts(23))

	ts.SetSearchTerm("product 1")
	first := ts.FilteredItems()

	ts.SetSearchTerm("product 1")
	second := ts.FilteredItems()

	if len(first) != len(second) {
		t.Fatalf("idempotence violated: %d vs %d items", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("item %d differs after repeated set", i)
		}
	}
}

func TestDerivedOptionExtraction(t *testing.T) {
	ts := newTestTable([]product{
		{ID: 1, Category: "B", Status: "active"},
		{ID: 2, Category: "A", Status: "draft"},
		{ID: 3, Category: "B", Status: ""},
		{ID: 4, Category: "", Status: "active"},
	})

	categories := ts.Categories()
	if len(categories) != 2 || categories[0] != "A" || categories[1] != "B" {
		t.Errorf("expected sorted distinct categories [A B], got %v", categories)
	}

	statuses := ts.Statuses()
	if len(statuses) != 2 || statuses[0] != "active" || statuses[1] != "draft" {
		t.Errorf("expected [active draft], got %v", statuses)
	}
}

func TestHasActiveFilters(t *testing.T) {
	ts := newTestTable(testProducts(5))

	if ts.HasActiveFilters() {
		t.Error("fresh table should have no active filters")
	}

	ts.SetSearchTerm("x")
	if !ts.HasActiveFilters() {
		t.Error("search term should count as an active filter")
	}

	ts.ResetFilters()
	if ts.HasActiveFilters() {
		t.Error("reset should clear active filters")
	}
}

func TestResetRoundTrip(t *testing.T) {
	ts := New(Config[product]{
		SearchKeys:  []string{"Name"},
		CategoryKey: "Category",
		StatusKey:   "Status",
		CustomFilters: []CustomFilter[product]{
			{Key: "status", Field: "Status"},
		},
		InitialItemsPerPage: 10,
		ItemsPerPageOptions: []int{5, 10, 20},
	})
	ts.SetItems(testProducts(50))

	ts.SetSearchTerm("product")
	ts.SetSelectedCategory("Home")
	ts.SetSelectedStatus("active")
	ts.SetCustomValue("status", "active")
	ts.SetItemsPerPage(5)
	ts.SetCurrentPage(2)

	ts.ResetAll()

	if ts.SearchTerm() != "" {
		t.Errorf("searchTerm = %q, want empty", ts.SearchTerm())
	}
	if ts.SelectedCategory() != "All" {
		t.Errorf("selectedCategory = %q, want All", ts.SelectedCategory())
	}
	if ts.SelectedStatus() != "All" {
		t.Errorf("selectedStatus = %q, want All", ts.SelectedStatus())
	}
	if ts.CustomValue("status") != "All" {
		t.Errorf("custom value = %q, want All", ts.CustomValue("status"))
	}
	if ts.CurrentPage() != 1 {
		t.Errorf("currentPage = %d, want 1", ts.CurrentPage())
	}
	if ts.ItemsPerPage() != 10 {
		t.Errorf("itemsPerPage = %d, want 10", ts.ItemsPerPage())
	}
}

func TestSnapshotScenario23Items(t *testing.T) {
	ts := newTestTable(testProducts(23))

	snap := ts.Snapshot()
	if snap.TotalItems != 23 || snap.FilteredCount != 23 {
		t.Errorf("counts = %d/%d, want 23/23", snap.TotalItems, snap.FilteredCount)
	}
	if snap.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", snap.TotalPages)
	}
	if len(snap.PageNumbers) != 3 {
		t.Fatalf("pageNumbers = %v, want [1 2 3]", snap.PageNumbers)
	}
	for i, p := range snap.PageNumbers {
		if p.Ellipsis || p.Number != i+1 {
			t.Errorf("pageNumbers[%d] = %+v, want page %d", i, p, i+1)
		}
	}

	// A search matching nothing collapses to one page and resets to it.
	ts.SetCurrentPage(3)
	ts.SetSearchTerm("zzz no match")

	snap = ts.Snapshot()
	if snap.FilteredCount != 0 {
		t.Errorf("filteredCount = %d, want 0", snap.FilteredCount)
	}
	if snap.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", snap.TotalPages)
	}
	if snap.CurrentPage != 1 {
		t.Errorf("currentPage = %d, want 1", snap.CurrentPage)
	}
	if len(snap.Items) != 0 {
		t.Errorf("expected no visible items, got %d", len(snap.Items))
	}
}

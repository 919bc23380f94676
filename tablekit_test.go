package tablekit_test

import (
	"fmt"
	"testing"

	"github.com/tablekit-dev/tablekit"
)

type product struct {
	ID       string
	Name     string
	Category string
	Status   string
}

func sampleProducts(n int) []product {
	categories := []string{"Electronics", "Furniture"}
	items := make([]product, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, product{
			ID:       fmt.Sprintf("p-%02d", i),
			Name:     fmt.Sprintf("Product %d", i),
			Category: categories[i%2],
			Status:   "Active",
		})
	}
	return items
}

func TestPublicAPI(t *testing.T) {
	table := tablekit.New(tablekit.Config[product]{
		SearchKeys:          []string{"Name", "ID"},
		CategoryKey:         "Category",
		StatusKey:           "Status",
		InitialItemsPerPage: 5,
	})
	defer table.Dispose()

	table.SetItems(sampleProducts(23))

	if got := table.TotalPages(); got != 5 {
		t.Errorf("TotalPages() = %d, want 5", got)
	}

	table.SetSelectedCategory("Furniture")
	if got := table.FilteredItems(); len(got) != 11 {
		t.Errorf("FilteredItems() after category filter = %d items, want 11", len(got))
	}
	if !table.HasActiveFilters() {
		t.Error("HasActiveFilters() = false after setting a category")
	}

	table.SetSelectedCategory(tablekit.AllValue)
	if table.HasActiveFilters() {
		t.Error("HasActiveFilters() = true after resetting to the sentinel")
	}
}

func TestPublicAPIURLSync(t *testing.T) {
	h := tablekit.NewMemoryHistory()

	table := tablekit.New(tablekit.Config[product]{
		SearchKeys: []string{"Name"},
		URL: tablekit.URLConfig{
			Enabled: true,
			Prefix:  "inv",
			History: h,
		},
	})
	defer table.Dispose()

	table.SetItems(sampleProducts(23))
	table.SetSearchTerm("Product 1")

	if got := h.Params().Get("invSearch"); got != "Product 1" {
		t.Errorf("invSearch param = %q, want %q", got, "Product 1")
	}
}

func TestReactivePrimitives(t *testing.T) {
	count := tablekit.NewSignal(1)
	double := tablekit.NewMemo(func() int { return count.Get() * 2 })

	if got := double.Get(); got != 2 {
		t.Errorf("memo = %d, want 2", got)
	}
	count.Set(3)
	if got := double.Get(); got != 6 {
		t.Errorf("memo after set = %d, want 6", got)
	}
}

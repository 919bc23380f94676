package main

import (
	"fmt"

	"github.com/tablekit-dev/tablekit/internal/config"
	"github.com/tablekit-dev/tablekit/pkg/source"
)

// demoInventory returns the built-in product inventory served when no
// dataset is configured.
func demoInventory() []source.Row {
	categories := []string{"Electronics", "Furniture", "Stationery"}
	statuses := []string{"In Stock", "Low Stock", "Out of Stock"}

	rows := make([]source.Row, 0, 60)
	for i := 1; i <= 60; i++ {
		rows = append(rows, source.Row{
			"id":       fmt.Sprintf("sku-%03d", i),
			"name":     fmt.Sprintf("Product %d", i),
			"category": categories[i%len(categories)],
			"status":   statuses[i%len(statuses)],
			"price":    float64(5*i) + 0.99,
		})
	}
	return rows
}

// applyDemoTableDefaults fills in table settings that make the demo
// dataset filterable out of the box.
func applyDemoTableDefaults(cfg *config.Config) {
	if len(cfg.Table.SearchKeys) == 0 {
		cfg.Table.SearchKeys = []string{"name", "id"}
	}
	if cfg.Table.CategoryKey == "" {
		cfg.Table.CategoryKey = "category"
	}
	if cfg.Table.StatusKey == "" {
		cfg.Table.StatusKey = "status"
	}
	if cfg.Table.URLPrefix == "" {
		cfg.Table.URLPrefix = "inv"
	}
}

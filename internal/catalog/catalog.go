package catalog

import "github.com/wichananm65/grocery-list-backend/internal/product"

// Catalog is the public DTO describing the product enumerations and defaults.
type Catalog struct {
	Categories []product.Category `json:"categories"`
	Units      []product.Unit     `json:"units"`
	Defaults   Defaults           `json:"defaults"`
}

type Defaults struct {
	Category                  product.Category `json:"category"`
	Unit                      product.Unit     `json:"unit"`
	DefaultQuantity           float64          `json:"defaultQuantity"`
	ConsumptionDuration       float64          `json:"consumptionDuration"`
	AverageMonthlyConsumption float64          `json:"averageMonthlyConsumption"`
	ConsumersCount            int              `json:"consumersCount"`
}

func Current() Catalog {
	return Catalog{
		Categories: append([]product.Category(nil), product.Categories...),
		Units:      append([]product.Unit(nil), product.Units...),
		Defaults: Defaults{
			Category:                  product.DefaultCategory,
			Unit:                      product.DefaultUnit,
			DefaultQuantity:           product.DefaultQuantity,
			ConsumptionDuration:       product.DefaultConsumptionDuration,
			AverageMonthlyConsumption: product.DefaultAverageMonthlyConsumption,
			ConsumersCount:            product.DefaultConsumersCount,
		},
	}
}

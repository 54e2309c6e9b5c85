package product

import (
	"errors"
	"math"
	"time"
)

var ErrNotFound = errors.New("product not found")

type Category string

const (
	CategoryFruitsVeggies Category = "Fruits & Veggies"
	CategoryDairyEggs     Category = "Dairy & Eggs"
	CategoryBakery        Category = "Bakery"
	CategoryMeatSeafood   Category = "Meat & Seafood"
	CategoryPantry        Category = "Pantry"
	CategorySnacks        Category = "Snacks"
	CategoryBeverages     Category = "Beverages"
	CategoryHousehold     Category = "Household"
	CategoryPersonalCare  Category = "Personal Care"
	CategoryOther         Category = "Other"
)

// Categories lists the accepted categories in display order.
var Categories = []Category{
	CategoryFruitsVeggies,
	CategoryDairyEggs,
	CategoryBakery,
	CategoryMeatSeafood,
	CategoryPantry,
	CategorySnacks,
	CategoryBeverages,
	CategoryHousehold,
	CategoryPersonalCare,
	CategoryOther,
}

type Unit string

const (
	UnitEach  Unit = "unit"
	UnitKg    Unit = "kg"
	UnitGram  Unit = "g"
	UnitLitre Unit = "l"
	UnitMl    Unit = "ml"
	UnitPack  Unit = "pack"
	UnitDozen Unit = "dozen"
	UnitBunch Unit = "bunch"
)

var Units = []Unit{UnitEach, UnitKg, UnitGram, UnitLitre, UnitMl, UnitPack, UnitDozen, UnitBunch}

const (
	DefaultCategory                  = CategoryOther
	DefaultUnit                      = UnitEach
	DefaultQuantity                  = 1.0
	DefaultConsumptionDuration       = 7.0
	DefaultAverageMonthlyConsumption = 1.0
	DefaultConsumersCount            = 0
)

// MaxConsumersCount is the largest value the consumers_count column holds.
const MaxConsumersCount = math.MaxInt32

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (u Unit) Valid() bool {
	for _, v := range Units {
		if u == v {
			return true
		}
	}
	return false
}

// Product is an entry of a user's master catalog.
type Product struct {
	ID                        string    `json:"_id"`
	OwnerID                   string    `json:"owner"`
	Name                      string    `json:"name"`
	Description               string    `json:"description"`
	Brand                     string    `json:"brand"`
	ImageURL                  string    `json:"imageUrl"`
	Alias                     string    `json:"alias"`
	Notes                     string    `json:"notes"`
	Category                  Category  `json:"category"`
	Unit                      Unit      `json:"unit"`
	DefaultQuantity           float64   `json:"defaultQuantity"`
	ConsumptionDuration       float64   `json:"consumptionDuration"`
	AverageMonthlyConsumption float64   `json:"averageMonthlyConsumption"`
	ConsumersCount            int       `json:"consumersCount"`
	PreferredStore            string    `json:"preferredStore"`
	ProductLink               string    `json:"productLink"`
	LastKnownPrice            *float64  `json:"lastKnownPrice"`
	BestPrice                 *float64  `json:"bestPrice"`
	BestPriceStore            string    `json:"bestPriceStore"`
	BestPriceLink             string    `json:"bestPriceLink"`
	CreatedAt                 time.Time `json:"createdAt"`
}

// New returns a product carrying the catalog defaults.
func New(ownerID string) Product {
	return Product{
		OwnerID:                   ownerID,
		Category:                  DefaultCategory,
		Unit:                      DefaultUnit,
		DefaultQuantity:           DefaultQuantity,
		ConsumptionDuration:       DefaultConsumptionDuration,
		AverageMonthlyConsumption: DefaultAverageMonthlyConsumption,
		ConsumersCount:            DefaultConsumersCount,
	}
}

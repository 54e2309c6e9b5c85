package product

import (
	"fmt"
	"math"
	"strings"
)

// Payload is the body of POST and PATCH /api/products. Absent fields leave
// the product untouched on PATCH.
type Payload struct {
	Name                      *string `json:"name"`
	Description               *string `json:"description"`
	Brand                     *string `json:"brand"`
	ImageURL                  *string `json:"imageUrl"`
	Alias                     *string `json:"alias"`
	Notes                     *string `json:"notes"`
	Category                  *string `json:"category"`
	Unit                      *string `json:"unit"`
	DefaultQuantity           Number  `json:"defaultQuantity"`
	ConsumptionDuration       Number  `json:"consumptionDuration"`
	AverageMonthlyConsumption Number  `json:"averageMonthlyConsumption"`
	ConsumersCount            Number  `json:"consumersCount"`
	PreferredStore            *string `json:"preferredStore"`
	ProductLink               *string `json:"productLink"`
	LastKnownPrice            Number  `json:"lastKnownPrice"`
	BestPrice                 Number  `json:"bestPrice"`
	BestPriceStore            *string `json:"bestPriceStore"`
	BestPriceLink             *string `json:"bestPriceLink"`
}

// Validate returns a field->message map; empty means valid. On create the
// name is required.
func (p *Payload) Validate(create bool) map[string]string {
	errs := map[string]string{}
	if p.Name == nil {
		if create {
			errs["name"] = "name is required"
		}
	} else if strings.TrimSpace(*p.Name) == "" {
		errs["name"] = "name is required"
	}
	if p.Category != nil && *p.Category != "" && !Category(*p.Category).Valid() {
		errs["category"] = "invalid category"
	}
	if p.Unit != nil && *p.Unit != "" && !Unit(*p.Unit).Valid() {
		errs["unit"] = "invalid unit"
	}

	numbers := map[string]Number{
		"defaultQuantity":           p.DefaultQuantity,
		"consumptionDuration":       p.ConsumptionDuration,
		"averageMonthlyConsumption": p.AverageMonthlyConsumption,
		"consumersCount":            p.ConsumersCount,
		"lastKnownPrice":            p.LastKnownPrice,
		"bestPrice":                 p.BestPrice,
	}
	for field, n := range numbers {
		switch {
		case n.Invalid:
			errs[field] = field + " must be a number"
		case n.Set && (n.Value < 0 || math.IsInf(n.Value, 0) || math.IsNaN(n.Value)):
			errs[field] = field + " must be >= 0"
		}
	}
	if _, bad := errs["consumersCount"]; !bad && p.ConsumersCount.Set {
		switch v := p.ConsumersCount.Value; {
		case v != math.Trunc(v):
			errs["consumersCount"] = "consumersCount must be a whole number"
		case v > MaxConsumersCount:
			errs["consumersCount"] = fmt.Sprintf("consumersCount must be <= %d", MaxConsumersCount)
		}
	}
	return errs
}

// Apply copies the present fields onto dst. Present-but-empty values reset
// defaulted fields and clear optional ones.
func (p *Payload) Apply(dst *Product) {
	setString(&dst.Name, p.Name, true)
	setString(&dst.Description, p.Description, false)
	setString(&dst.Brand, p.Brand, true)
	setString(&dst.ImageURL, p.ImageURL, true)
	setString(&dst.Alias, p.Alias, true)
	setString(&dst.Notes, p.Notes, false)
	setString(&dst.PreferredStore, p.PreferredStore, true)
	setString(&dst.ProductLink, p.ProductLink, true)
	setString(&dst.BestPriceStore, p.BestPriceStore, true)
	setString(&dst.BestPriceLink, p.BestPriceLink, true)

	if p.Category != nil {
		dst.Category = Category(*p.Category)
		if dst.Category == "" {
			dst.Category = DefaultCategory
		}
	}
	if p.Unit != nil {
		dst.Unit = Unit(*p.Unit)
		if dst.Unit == "" {
			dst.Unit = DefaultUnit
		}
	}

	if p.DefaultQuantity.Present {
		dst.DefaultQuantity = p.DefaultQuantity.Or(DefaultQuantity)
	}
	if p.ConsumptionDuration.Present {
		dst.ConsumptionDuration = p.ConsumptionDuration.Or(DefaultConsumptionDuration)
	}
	if p.AverageMonthlyConsumption.Present {
		dst.AverageMonthlyConsumption = p.AverageMonthlyConsumption.Or(DefaultAverageMonthlyConsumption)
	}
	if p.ConsumersCount.Present {
		dst.ConsumersCount = int(p.ConsumersCount.Or(DefaultConsumersCount))
	}
	if p.LastKnownPrice.Present {
		dst.LastKnownPrice = p.LastKnownPrice.Ptr()
	}
	if p.BestPrice.Present {
		dst.BestPrice = p.BestPrice.Ptr()
	}
}

func setString(dst *string, v *string, trim bool) {
	if v == nil {
		return
	}
	if trim {
		*dst = strings.TrimSpace(*v)
		return
	}
	*dst = *v
}

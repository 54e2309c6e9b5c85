package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wichananm65/grocery-list-backend/internal/product"
)

const promptHeader = `I have a master list of grocery items with their average monthly consumption.
Please suggest a shopping list for this week based on this data.
Return the result as a JSON array of objects, where each object has:
- "productName": The exact name of the product from the list
- "reason": A brief reason for the suggestion

Master List:
`

const promptFooter = `
Output JSON only, no markdown formatting.`

func buildPrompt(products []product.Product) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	for _, p := range products {
		brand := p.Brand
		if brand == "" {
			brand = "N/A"
		}
		fmt.Fprintf(&b, "- %s (Brand: %s, Avg Monthly: %g %s)\n", p.Name, brand, p.AverageMonthlyConsumption, p.Unit)
	}
	b.WriteString(promptFooter)
	return b.String()
}

// cleanJSON strips markdown fences and any prose around the JSON array.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```", "")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return content
}

type modelSuggestion struct {
	ProductName string `json:"productName"`
	Reason      string `json:"reason"`
}

// parseSuggestions maps the model's answer back onto products by exact
// name. Unknown names and repeats are dropped.
func parseSuggestions(text string, products []product.Product) ([]Suggestion, error) {
	var raw []modelSuggestion
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}

	byName := make(map[string]product.Product, len(products))
	for _, p := range products {
		if _, dup := byName[p.Name]; !dup {
			byName[p.Name] = p
		}
	}

	out := make([]Suggestion, 0, len(raw))
	seen := map[string]bool{}
	for _, r := range raw {
		p, ok := byName[r.ProductName]
		if !ok || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, Suggestion{Product: p.ID, ProductName: p.Name, Reason: r.Reason})
	}
	return out, nil
}

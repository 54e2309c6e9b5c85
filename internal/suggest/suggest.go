package suggest

// Suggestion is one product the assistant proposes to buy.
type Suggestion struct {
	Product     string `json:"product"`
	ProductName string `json:"productName"`
	Reason      string `json:"reason"`
}

// Request is the optional body of POST /api/ai/suggest.
type Request struct {
	ListID string `json:"listId"`
}

const (
	MockReason = "Based on your monthly consumption habits (Mock AI)"
	MockCount  = 3
)

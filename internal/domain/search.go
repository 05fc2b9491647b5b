package domain

// SearchRequest is one logical product search.
type SearchRequest struct {
	Query      string   `json:"query" binding:"required,min=2,max=200"`
	Language   Language `json:"language,omitempty"`
	MaxResults int      `json:"maxResults,omitempty" binding:"omitempty,min=1,max=100"`
}

// SearchResponse is the aggregated result of one search across all
// retailers, the boundary the web layer exposes.
type SearchResponse struct {
	RequestID            string    `json:"requestId"`
	Query                string    `json:"query"`
	Products             []Product `json:"products"`
	TotalResults         int       `json:"totalResults"`
	SearchTimeMs         int64     `json:"searchTimeMs"`
	RetailersSearched    []string  `json:"retailersSearched"`
	FailedRetailers      []string  `json:"failedRetailers"`
	AlternativesIncluded bool      `json:"alternativesIncluded"`
}

// ProviderOutcome is the terminal result of one provider's search attempt.
// Every queried provider yields exactly one outcome per request, whether it
// succeeded, failed, or was cut off by the request deadline.
type ProviderOutcome struct {
	Retailer      string    `json:"retailer"`
	Success       bool      `json:"success"`
	Products      []Product `json:"products,omitempty"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	ElapsedMs     int64     `json:"elapsedMs"`
	ProductsFound int       `json:"productsFound"`
}

// RetailerStatus marks whether a retailer integration is enabled.
type RetailerStatus string

const (
	RetailerActive   RetailerStatus = "active"
	RetailerInactive RetailerStatus = "inactive"
)

// RetailerConfig is the static configuration of one retailer integration.
// Configuration is data, not behavior: the registry maps it to a provider
// implementation.
type RetailerConfig struct {
	Name       string         `json:"name"`
	NameAr     string         `json:"nameAr"`
	BaseURL    string         `json:"baseUrl"`
	SearchURL  string         `json:"searchUrl"`
	LogoURL    string         `json:"logoUrl,omitempty"`
	Status     RetailerStatus `json:"status"`
	Priority   int            `json:"priority"`
	TimeoutSec int            `json:"timeoutSeconds"`
	MaxRetries int            `json:"maxRetries"`
}

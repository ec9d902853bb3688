package events

// Topic constants for domain events emitted by the service.
const (
	TopicSaleRecorded   = "sale.recorded"
	TopicCatalogChanged = "catalog.changed"
)

// SaleRecorded is the payload of TopicSaleRecorded.
type SaleRecorded struct {
	CartID     string   `json:"cartId"`
	UserID     string   `json:"userId,omitempty"`
	Lines      int      `json:"lines"`
	ProductIDs []string `json:"productIds"`
	Partial    bool     `json:"partial"`
}

// CatalogChanged is the payload of TopicCatalogChanged.
type CatalogChanged struct {
	Action     string   `json:"action"`
	ProductIDs []string `json:"productIds,omitempty"`
}

// DefaultTopics returns the canonical list of topics.
func DefaultTopics() []string {
	return []string{TopicSaleRecorded, TopicCatalogChanged}
}

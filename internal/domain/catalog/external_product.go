package catalog

import "encoding/json"

// MappedProduct is the normalized subset of an external lookup result that
// can be applied to an item.
type MappedProduct struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Brand       string `json:"brand,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Quantity    string `json:"quantity,omitempty"`
	Categories  string `json:"categories,omitempty"`
}

// IsEmpty reports whether the mapping carries no usable fields
func (m MappedProduct) IsEmpty() bool {
	return m == MappedProduct{}
}

// ExternalProduct is the transient result of one provider lookup. It is
// never persisted as its own entity; it patches an item and is embedded into
// the scan event's analysis blob.
type ExternalProduct struct {
	Source string          `json:"source"`
	Raw    json.RawMessage `json:"raw,omitempty"`
	Mapped MappedProduct   `json:"mapped"`
}

package scan

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pulzar/backend/internal/domain/catalog"
	"github.com/pulzar/backend/internal/domain/shared"
)

// EventType is the kind of scan event. Only scanner reads exist today.
const EventTypeScannerRead = "scanner.read"

// Status is the processing lifecycle of a scan event:
// created -> processing -> {done | error}. Terminal states are final; a
// failed pipeline run is never retried.
type Status string

const (
	StatusCreated    Status = "created"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Event records one raw scanned/pasted input and its processing lifecycle.
// Content is a JSON blob mutated by read-modify-write merges; the event is
// scoped to a single logical writer (its own pipeline run plus the
// synchronous fast path), so concurrent merges are last-writer-wins.
type Event struct {
	shared.OrgEntity
	Type    string         `gorm:"type:varchar(50);not null"`
	Content datatypes.JSON `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "scan_events"
}

// Payload is the raw input section of the event content
type Payload struct {
	Raw        string `json:"raw"`
	Identifier string `json:"identifier,omitempty"`
	URL        string `json:"url,omitempty"`
}

// IdentifierAnalysis is the classification of a scanned code
type IdentifierAnalysis struct {
	Value     string `json:"value"`
	Type      string `json:"type"`
	Symbology string `json:"symbology,omitempty"`
	Valid     bool   `json:"valid"`
}

// URLAnalysis is the result of analyzing a scanned URL
type URLAnalysis struct {
	Value    string `json:"value"`
	Original string `json:"original"`
}

// ResolvedAnalysis records which identifier/item pair a scan resolved to
type ResolvedAnalysis struct {
	IdentifierID uuid.UUID  `json:"identifierId"`
	ItemID       *uuid.UUID `json:"itemId,omitempty"`
}

// ProductLookupAnalysis records the outcome of the enrichment cascade
type ProductLookupAnalysis struct {
	OK        bool                   `json:"ok"`
	Provider  string                 `json:"provider"`
	FetchedAt time.Time              `json:"fetchedAt"`
	Mapped    *catalog.MappedProduct `json:"mapped,omitempty"`
	Raw       json.RawMessage        `json:"raw,omitempty"`
}

// Analysis aggregates the pipeline's progressively attached results
type Analysis struct {
	Identifier    *IdentifierAnalysis    `json:"identifier,omitempty"`
	URL           *URLAnalysis           `json:"url,omitempty"`
	Resolved      *ResolvedAnalysis      `json:"resolved,omitempty"`
	ProductLookup *ProductLookupAnalysis `json:"productLookup,omitempty"`
}

// Content is the decoded event content blob
type Content struct {
	Status   Status    `json:"status"`
	Type     string    `json:"type,omitempty"`
	UserID   string    `json:"userId,omitempty"`
	Payload  Payload   `json:"payload"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// EnsureAnalysis returns the content's analysis section, allocating it first
// when absent
func (c *Content) EnsureAnalysis() *Analysis {
	if c.Analysis == nil {
		c.Analysis = &Analysis{}
	}
	return c.Analysis
}

// NewEvent creates a scanner-read event in the created state
func NewEvent(orgID uuid.UUID, raw, userID string) (*Event, error) {
	e := &Event{
		OrgEntity: shared.NewOrgEntity(orgID),
		Type:      EventTypeScannerRead,
	}
	content := Content{
		Status:  StatusCreated,
		UserID:  userID,
		Payload: Payload{Raw: raw},
	}
	if err := e.SetContent(content); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeContent decodes the JSON content blob
func (e *Event) DecodeContent() (Content, error) {
	var c Content
	if len(e.Content) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(e.Content, &c); err != nil {
		return c, err
	}
	return c, nil
}

// SetContent encodes and replaces the whole content blob
func (e *Event) SetContent(c Content) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	e.Content = datatypes.JSON(raw)
	e.UpdatedAt = time.Now()
	return nil
}

// MergeContent applies a patch to the decoded content and writes it back.
// This is a read-modify-write over the whole blob, not a compare-and-swap.
func (e *Event) MergeContent(patch func(*Content)) error {
	c, err := e.DecodeContent()
	if err != nil {
		return err
	}
	patch(&c)
	return e.SetContent(c)
}

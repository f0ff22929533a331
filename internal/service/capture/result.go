package capture

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/myenglish-capture/internal/domain"
)

// Result is the terminal outcome of one capture.
type Result struct {
	CaptureID  uuid.UUID       `json:"capture_id"`
	EntryID    int64           `json:"entry_id"`
	Category   domain.Category `json:"category"`
	Text       string          `json:"text"`
	Created    bool            `json:"created"`
	Diagnostic string          `json:"diagnostic,omitempty"`

	// Err is set when the entry could not be stored.
	Err error `json:"-"`
}

// Discarded reports a duplicate whose existing row could not be found.
func (r Result) Discarded() bool {
	return r.Err == nil && !r.Created && r.EntryID == 0
}

// Message is the human-readable status line for the result.
func (r Result) Message() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("Capture failed: %v", r.Err)
	case r.Created:
		return fmt.Sprintf("Saved entry #%d (%s).", r.EntryID, r.Category)
	case r.Discarded():
		return fmt.Sprintf("Duplicate %s discarded.", r.Category)
	default:
		return fmt.Sprintf("Duplicate entry #%d (%s).", r.EntryID, r.Category)
	}
}

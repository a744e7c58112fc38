package neo

import "fmt"

// IngestionError reports a transport or decode failure while loading a feed.
type IngestionError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *IngestionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ingestion %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("ingestion %s: %v", e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

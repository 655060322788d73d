package document

import "fmt"

// SinkError reports that the output sink or persistence medium rejected a
// read or write. The in-memory scene is unaffected.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

package main

import (
	"fmt"
	"io"
	"time"
)

// NewResponseHeader builds the response head. The status is fixed here
// and never changes for the connection.
func NewResponseHeader(status int, contentType string, now time.Time) *Response {
	return &Response{
		Version: httpVersion,
		Status:  status,
		Phrase:  statusPhrases[status],
		Headers: HTTPHeader{
			{"Date", now.UTC().Format(dateFormat)},
			{"Server", serverName},
			{"Connection", "close"},
			{"Content-Type", contentType},
		},
	}
}

// statusFor picks 404 only when something was requested and is missing.
func statusFor(t *Target) int {
	if t == nil || t.Exists() {
		return StatusOK
	}
	return StatusNotFound
}

// WriteResponse writes the status line and headers, each ended by a single
// '\n', followed by the blank line.
func WriteResponse(w io.Writer, res *Response) error {
	if _, err := fmt.Fprintf(w, "%s %d %s\n", res.Version, res.Status, res.Phrase); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	for _, f := range res.Headers {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Name, f.Value); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

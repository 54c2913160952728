package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RequestReader reads an HTTP request head and picks out the requested
// resource. Only the request line matters; the other header lines are
// consumed up to the blank line and dropped.
type RequestReader struct {
	r     *bufio.Reader
	req   *Request
	reqCh chan *Request
	errCh chan error
}

func NewRequestReader(r io.Reader) *RequestReader {
	var br *bufio.Reader
	if casted, ok := r.(*bufio.Reader); ok {
		br = casted
	} else {
		br = bufio.NewReader(r)
	}
	// buffered so Start never blocks on a worker that stopped listening
	return &RequestReader{
		r:     br,
		req:   &Request{},
		reqCh: make(chan *Request, 1),
		errCh: make(chan error, 1),
	}
}

func (r *RequestReader) Start() {
	go func() {
		if err := r.readRequestHead(); err != nil {
			r.errCh <- err
			return
		}
		r.reqCh <- r.req
	}()
}

func (r *RequestReader) RequestReceived() <-chan *Request {
	return r.reqCh
}

func (r *RequestReader) ErrorOccurred() <-chan error {
	return r.errCh
}

// Request returns what was parsed so far. Only safe to call after a value
// was received from RequestReceived or ErrorOccurred.
func (r *RequestReader) Request() *Request {
	return r.req
}

// similar to readLineSlice() in net/textproto/reader.go
func (r *RequestReader) readLine() (string, error) {
	var line []byte
	for {
		l, more, err := r.r.ReadLine()
		if err != nil {
			return "", err
		}
		if line == nil && !more {
			return string(l), nil
		}
		line = append(line, l...)
		if !more {
			break
		}
	}
	return string(line), nil
}

func (r *RequestReader) readRequestHead() error {
	for {
		line, err := r.readLine()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRequestRead, err)
		}
		logger.Debug("request line: (%s)", line)
		if !r.req.Found {
			r.matchRequestLine(line)
		}
		if len(line) == 0 {
			return nil
		}
	}
}

// The first fetch line wins, later ones are ignored.
func (r *RequestReader) matchRequestLine(line string) {
	if !isFetchLine(line) {
		return
	}
	uri, ok := parseRequestURI(line)
	if !ok {
		logger.Debug("malformed request line skipped: (%s)", line)
		return
	}
	r.req.Line = line
	r.req.URI = uri
	r.req.Found = true
}

func isFetchLine(line string) bool {
	return strings.Contains(line, "GET") && !strings.Contains(line, "favicon")
}

// parseRequestURI returns the text between the first '/' and the space
// after it.
func parseRequestURI(line string) (string, bool) {
	slash := strings.IndexByte(line, '/')
	if slash < 0 {
		return "", false
	}
	rest := line[slash+1:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return "", false
	}
	return rest[:sp], true
}

package main

import "errors"

const (
	httpVersion = "HTTP/1.1"
	serverName  = "simpleweb"

	// prefix every served resource is looked up under
	servedRoot = "www/"

	// same layout as net/http.TimeFormat
	dateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

var (
	ErrRequestRead = errors.New("failed to read request")
	ErrImageDecode = errors.New("failed to decode image")
	ErrWrite       = errors.New("failed to write response")
)

// HeaderField is a single response header line.
type HeaderField struct {
	Name  string
	Value string
}

// Unlike http.Header, fields keep the order they are written in.
type HTTPHeader []HeaderField

func (h HTTPHeader) Get(name string) string {
	for _, f := range h {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// Request holds the one request line a worker honors.
type Request struct {
	Line  string
	URI   string // client path without the leading '/'
	Found bool
}

// Target is the resolved file for a request. A nil *Target means nothing
// was requested.
type Target struct {
	Resource     string // servedRoot + URI
	Path         string // filesystem path under the configured root
	Extension    string
	HasExtension bool
	Escaped      bool // canonical path lies outside the root
	OnDisk       bool // stat result taken once, when the target is resolved
}

type Response struct {
	Version string
	Status  int
	Phrase  string
	Headers HTTPHeader
}

const (
	StatusOK       = 200
	StatusNotFound = 404
)

var statusPhrases = map[int]string{
	StatusOK:       "OK",
	StatusNotFound: "NOT FOUND",
}

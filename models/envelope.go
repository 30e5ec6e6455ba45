package models

import "time"

// DataQuality describes the provenance of a response's data
type DataQuality string

const (
	QualityLive  DataQuality = "live"
	QualityMixed DataQuality = "mixed"
	QualityMock  DataQuality = "mock"
)

// Metadata is attached to every API response.
type Metadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	DataQuality DataQuality    `json:"dataQuality"`
	Error       string         `json:"error,omitempty"`
	Sources     []string       `json:"sources"`
	RequestID   string         `json:"requestId"`
	Params      map[string]any `json:"params,omitempty"`
}

// Payload is implemented by every response body so the HTTP layer can
// stamp its metadata.
type Payload interface {
	Meta() *Metadata
}

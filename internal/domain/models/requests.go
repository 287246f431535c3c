package models

// HTTP request models for the read API. Binding, defaults, and validation
// tags are consumed by pkg/http.ReadAndValidateRequest.

// SnapshotRequest selects snapshot options for one consumer.
type SnapshotRequest struct {
	ConsumerID string `query:"consumer_id" default:"default" validate:"max=64"`
	Refresh    bool   `query:"refresh"`
}

// SignalsRequest selects which cross-type cache to read.
type SignalsRequest struct {
	Type string `query:"type" default:"golden" validate:"oneof=golden death"`
}

package ingest

import "errors"

// ErrEmptyBatch indicates the submitted batch was nil or empty
var ErrEmptyBatch = errors.New("videos array required")

// IsEmptyBatch checks if the error is an empty batch error
func IsEmptyBatch(err error) bool {
	return errors.Is(err, ErrEmptyBatch)
}

// Reason identifies why an ingestion entry was rejected.
type Reason string

const (
	// ReasonMissingField - url or category absent on the entry
	ReasonMissingField Reason = "MissingField"
	// ReasonInvalidCategory - category outside the closed set
	ReasonInvalidCategory Reason = "InvalidCategory"
	// ReasonUnrecognizedURL - no video ID could be extracted from the URL
	ReasonUnrecognizedURL Reason = "UnrecognizedUrl"
	// ReasonMetadataUnavailable - the provider had no metadata for the video
	ReasonMetadataUnavailable Reason = "MetadataUnavailable"
)

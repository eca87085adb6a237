package types

import "errors"

// Failure kinds surfaced by the processing pipeline. Extraction-side
// errors are retried per file; ErrMissingCredentials is the only fatal
// one and is checked before any file is touched.
var (
	ErrUpload             = errors.New("audio upload failed")
	ErrRemoteProcessing   = errors.New("remote processing failed")
	ErrMalformedResponse  = errors.New("malformed extraction response")
	ErrInvalidPatientID   = errors.New("invalid patient id")
	ErrPersist            = errors.New("record insert failed")
	ErrMissingCredentials = errors.New("missing credentials")
)

package container

import "errors"

var (
	// ErrInvalidSignature means the input does not start with a
	// recognized GIF87a/GIF89a signature.
	ErrInvalidSignature = errors.New("container: invalid signature")

	// ErrTruncated means the input ended before a record could be fully
	// read.
	ErrTruncated = errors.New("container: truncated stream")

	// ErrMalformed means a record's fixed fields violate the format
	// (bad block size, unexpected separator, missing terminator).
	ErrMalformed = errors.New("container: malformed record")
)

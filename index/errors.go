package index

import "errors"

// ErrIndexNotReady is returned when the index does not become ready
// within the configured polling budget
var ErrIndexNotReady = errors.New("vector index not ready")

package staging

import "errors"

// ErrUnsafePath indicates a staged path that is absolute, escapes the
// staging root or contains a NUL byte.
var ErrUnsafePath = errors.New("unsafe staged path")

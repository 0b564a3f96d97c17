package unit

import "errors"

// ErrIncompatibleJig is returned by IsCompatible, and therefore by every
// Select implementation, when a description names jigs but none of them
// is currently live.
var ErrIncompatibleJig = errors.New("IncompatibleJig")

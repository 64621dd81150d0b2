package subblock

import "errors"

var errUnexpectedEOF = errors.New("subblock: unexpected end of stream")

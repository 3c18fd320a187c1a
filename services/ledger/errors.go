package ledger

import "errors"

// ErrUnitNotFound rejects ledger operations against unconfigured units.
var ErrUnitNotFound = errors.New("unit not found")

package popover

import "errors"

// ErrLoadFailed wraps search failures shown to the user.
var ErrLoadFailed = errors.New("failed to load data")

package domain

import "errors"

// ErrConfig marks invalid construction-time parameters (for example a
// chunk overlap that is not smaller than the chunk size). It is the only
// error class in the pipeline that is raised to the caller instead of
// being degraded to an empty result.
var ErrConfig = errors.New("invalid configuration")

// ErrBackendUnavailable marks a transient embedding or index backend
// failure. Usecases catch it at the call site, log a warning and return
// an empty result; it never propagates past a pipeline stage.
var ErrBackendUnavailable = errors.New("backend unavailable")

package service

import "errors"

// ErrUnsupportedTaskType is returned when a submission names a task type
// outside the registered set.
var ErrUnsupportedTaskType = errors.New("unsupported task type")

package queue

import "errors"

// ErrRejected is returned by submitters when the queue does not accept a job.
var ErrRejected = errors.New("refresh job rejected")

package ssmutils

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Client.Get when the key is absent from the
// cache, the mock sources and the parameter store alike. It is an expected
// outcome for optional configuration; check it with errors.Is.
var ErrNotFound = errors.New("parameter not found")

// SSMError wraps any parameter store failure other than "not found"
// (authentication, throttling, transport). The underlying SDK error is
// reachable through Unwrap.
type SSMError struct {
	Err error
}

func (e *SSMError) Error() string {
	return fmt.Sprintf("ssm: %v", e.Err)
}

func (e *SSMError) Unwrap() error {
	return e.Err
}

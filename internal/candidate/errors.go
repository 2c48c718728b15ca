package candidate

import "errors"

var (
	ErrTimeout = errors.New("candidate: exchange timed out")
	ErrStart   = errors.New("candidate: start failed")
)

// ExchangeError is a protocol failure while talking to the candidate. Every
// error returned by Exchange has this type.
type ExchangeError struct {
	Op  string
	Err error
}

func (e *ExchangeError) Error() string {
	return "candidate: " + e.Op + ": " + e.Err.Error()
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

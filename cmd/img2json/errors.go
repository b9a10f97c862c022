package main

import (
	"fmt"
)

// Kind classifies a failure for reporting and for the process exit code.
type Kind int

const (
	InputError Kind = iota + 1
	DecodeError
	SerializationError
	OutputError
)

var kindNames = map[Kind]string{
	InputError:         "input error",
	DecodeError:        "decode error",
	SerializationError: "serialization error",
	OutputError:        "output error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ExitCode is 2 for input errors, 3 for decode errors, 4 for serialization
// errors and 5 for output errors.
func (k Kind) ExitCode() int { return int(k) + 1 }

type cliError struct {
	Kind Kind
	Err  error
}

func (e *cliError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Err) }
func (e *cliError) Unwrap() error { return e.Err }

func fail(k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{Kind: k, Err: err}
}

func failf(k Kind, format string, args ...any) error {
	return &cliError{Kind: k, Err: fmt.Errorf(format, args...)}
}

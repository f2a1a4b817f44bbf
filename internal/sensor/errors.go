// internal/sensor/errors.go
package sensor

import (
	"errors"
	"fmt"

	"github.com/tamzrod/vibration-monitor/internal/register"
)

// ErrShortRead marks a bulk read that returned fewer words than requested.
var ErrShortRead = errors.New("sensor: short register block")

// GenericErrorCode is reported when a transport error carries no code.
const GenericErrorCode uint16 = 1

// TransportError means the bulk read failed. No record was produced.
type TransportError struct {
	code uint16
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sensor: transport error (code=%d): %v", e.code, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code is the best-effort device or transport error code.
func (e *TransportError) Code() uint16 { return e.code }

// DecodeError means the scaling table and the frame layout disagree.
// It is a programming error, never a device condition.
type DecodeError struct {
	Field register.Field
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sensor: decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorCode extracts a best-effort uint16 code from an error without
// assuming concrete types. Returns 0 for nil and GenericErrorCode when the
// error does not expose a code.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }
	type coderC interface{ ModbusCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}
	var c coderC
	if errors.As(err, &c) {
		return c.ModbusCode()
	}

	return GenericErrorCode
}

func newTransportError(err error) *TransportError {
	code := ErrorCode(err)
	if code == 0 {
		code = GenericErrorCode
	}
	return &TransportError{code: code, Err: err}
}

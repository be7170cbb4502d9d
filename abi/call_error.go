package abi

import "fmt"

// CallErrorCode is the engine's call status.
type CallErrorCode int32

const (
	CallOK CallErrorCode = iota
	CallErrorInvalidMethod
	CallErrorInvalidArgument
	CallErrorTooManyArguments
	CallErrorTooFewArguments
	CallErrorInstanceIsNull
	CallErrorMethodNotConst
)

var callErrorNames = [...]string{
	CallOK:                    "ok",
	CallErrorInvalidMethod:    "invalid method",
	CallErrorInvalidArgument:  "invalid argument",
	CallErrorTooManyArguments: "too many arguments",
	CallErrorTooFewArguments:  "too few arguments",
	CallErrorInstanceIsNull:   "instance is null",
	CallErrorMethodNotConst:   "method not const",
}

func (c CallErrorCode) String() string {
	if c >= 0 && int(c) < len(callErrorNames) {
		return callErrorNames[c]
	}
	return fmt.Sprintf("call error %d", int32(c))
}

// CallError is the status of a Variant call. Argument is the failing argument
// index and Expected the expected type or count, as the code requires.
type CallError struct {
	Code     CallErrorCode
	Argument int32
	Expected int32
}

// OK reports whether the call succeeded.
func (e CallError) OK() bool { return e.Code == CallOK }

func (e CallError) String() string {
	switch e.Code {
	case CallErrorInvalidArgument:
		return fmt.Sprintf("%s %d (expected type %d)", e.Code, e.Argument, e.Expected)
	case CallErrorTooManyArguments, CallErrorTooFewArguments:
		return fmt.Sprintf("%s (expected %d)", e.Code, e.Expected)
	}
	return e.Code.String()
}

// InvalidMethod is the status reported for any failure the engine has no
// more specific code for.
func InvalidMethod() CallError { return CallError{Code: CallErrorInvalidMethod} }

// InvalidArgument reports argument arg failing to convert to the expected type.
func InvalidArgument(arg int, expected int32) CallError {
	return CallError{Code: CallErrorInvalidArgument, Argument: int32(arg), Expected: expected}
}

// ArgumentCount reports a wrong number of arguments.
func ArgumentCount(got, want int) CallError {
	code := CallErrorTooFewArguments
	if got > want {
		code = CallErrorTooManyArguments
	}
	return CallError{Code: code, Expected: int32(want)}
}

package variant

import "fmt"

// CallErrorKind classifies a failed host method call.
type CallErrorKind uint8

const (
	CallOK CallErrorKind = iota
	CallInvalidMethod
	CallInvalidArgument
	CallTooManyArguments
	CallTooFewArguments
	CallInstanceIsNull
	CallFailed
)

var callErrorNames = [...]string{
	CallOK:               "ok",
	CallInvalidMethod:    "invalid method",
	CallInvalidArgument:  "invalid argument",
	CallTooManyArguments: "too many arguments",
	CallTooFewArguments:  "too few arguments",
	CallInstanceIsNull:   "instance is null",
	CallFailed:           "call failed",
}

func (k CallErrorKind) String() string {
	if int(k) < len(callErrorNames) {
		return callErrorNames[k]
	}
	return "unknown"
}

// CallError is reported by a host method invocation.
type CallError struct {
	Cause    error
	Method   string
	Argument int
	Expected Type
	Kind     CallErrorKind
}

func (e *CallError) Error() string {
	prefix := e.Kind.String()
	if e.Method != "" {
		prefix = e.Method + ": " + prefix
	}
	switch e.Kind {
	case CallInvalidArgument:
		return fmt.Sprintf("%s: argument %d should be %s", prefix, e.Argument+1, e.Expected)
	case CallTooManyArguments, CallTooFewArguments:
		return fmt.Sprintf("%s: expected %d", prefix, e.Argument)
	}
	if e.Cause != nil {
		return prefix + ": " + e.Cause.Error()
	}
	return prefix
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

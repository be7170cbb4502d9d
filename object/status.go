package object

import (
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/errors"
)

// StatusError converts an engine call status into an error. It returns nil
// for a successful call.
func StatusError(phase errors.Phase, class, method string, st abi.CallError) error {
	switch st.Code {
	case abi.CallOK:
		return nil
	case abi.CallErrorInvalidMethod:
		return errors.MethodNotFound(phase, class, method)
	case abi.CallErrorInvalidArgument, abi.CallErrorTooManyArguments, abi.CallErrorTooFewArguments:
		return errors.ArgumentMismatch(phase, class, method, st.String())
	case abi.CallErrorInstanceIsNull:
		return errors.New(phase, errors.KindStaleReference).
			Class(class).
			Member(method).
			Detail("instance is null").
			Build()
	}
	return errors.New(phase, errors.KindInvalidInput).
		Class(class).
		Member(method).
		Detail("%s", st).
		Build()
}

// callStatus is StatusError for outbound calls. The engine reports a method
// that exists but failed in its implementation the same way as a missing
// one, so the class metadata decides between native_failure and
// method_not_found.
func (m *Manager) callStatus(class, method string, st abi.CallError) error {
	if st.Code == abi.CallErrorInvalidMethod && m.host.HasMethod(class, method) {
		return errors.New(errors.PhaseObject, errors.KindNativeFailure).
			Class(class).
			Member(method).
			Detail("method failed in its implementation").
			Build()
	}
	return StatusError(errors.PhaseObject, class, method, st)
}

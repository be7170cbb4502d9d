package dispatch

import (
	"fmt"

	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/variant"
)

// Stage is a step of an inbound call.
type Stage uint8

const (
	StageIdle Stage = iota
	StageUnmarshalArgs
	StageLookupInstance
	StageInvoke
	StageMarshalResult
)

var stageNames = [...]string{
	StageIdle:           "idle",
	StageUnmarshalArgs:  "unmarshal_args",
	StageLookupInstance: "lookup_instance",
	StageInvoke:         "invoke",
	StageMarshalResult:  "marshal_result",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// Result is what an inbound call reports back to the engine. On failure
// Value is Nil, Stage names the step that failed and Err describes why.
type Result struct {
	Value  variant.Variant
	Err    error
	Status abi.CallError
	Stage  Stage
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil && r.Status.OK()
}

func failed(stage Stage, st abi.CallError, err error) Result {
	return Result{Value: variant.Nil(), Err: err, Status: st, Stage: stage}
}

// Stats counts inbound calls.
type Stats struct {
	Calls    int64
	Failures int64
	Panics   int64
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKind_IsHook(t *testing.T) {
	assert.True(t, KindBeforeSave.IsHook())
	assert.True(t, KindAfterSave.IsHook())
	assert.True(t, KindBeforeDelete.IsHook())
	assert.True(t, KindAfterDelete.IsHook())
	assert.False(t, KindFunction.IsHook())
	assert.False(t, KindJob.IsHook())
}

func TestEventKind_IsBefore(t *testing.T) {
	assert.True(t, KindBeforeSave.IsBefore())
	assert.True(t, KindBeforeDelete.IsBefore())
	assert.False(t, KindAfterSave.IsBefore())
	assert.False(t, KindAfterDelete.IsBefore())
	assert.False(t, KindFunction.IsBefore())
}

func TestObject_Clone(t *testing.T) {
	obj := Object{"title": "hello", "views": 3}
	snap := obj.Clone()

	obj.Set("title", "changed")

	assert.Equal(t, "hello", snap.Get("title"))
	assert.Equal(t, "changed", obj.Get("title"))
}

func TestObject_NilSafety(t *testing.T) {
	var obj Object
	assert.Nil(t, obj.Get("anything"))
	assert.Nil(t, obj.Clone())
}

func TestEventContext_MessageWithoutSinkIsNoOp(t *testing.T) {
	ec := &EventContext{Kind: KindFunction}
	assert.NotPanics(t, func() {
		ec.Message("ignored")
	})
}

func TestEventContext_MessageForwardsInOrder(t *testing.T) {
	var got []string
	ec := &EventContext{Kind: KindJob}
	ec.SetMessageSink(func(s string) {
		got = append(got, s)
	})

	ec.Message("one")
	ec.Message("two")
	ec.Message("three")

	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestRunStatus_Terminal(t *testing.T) {
	assert.False(t, RunRunning.Terminal())
	assert.True(t, RunSucceeded.Terminal())
	assert.True(t, RunFailed.Terminal())
}

func TestJobRun_Err(t *testing.T) {
	run := &JobRun{Status: RunFailed, ErrorCode: CodeScriptFailed, ErrorMessage: "boom"}
	err := run.Err()
	assert.NotNil(t, err)
	assert.Equal(t, CodeScriptFailed, err.Code)
	assert.Equal(t, "boom", err.Message)

	run.Status = RunSucceeded
	assert.Nil(t, run.Err())
}

package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/errs"
)

func TestWrapDoesNotDoubleWrapSameKind(t *testing.T) {
	original := errs.New(errs.DomainError, "boom")
	wrapped := errs.Wrap(errs.DomainError, original, "wrapped boom")
	assert.Same(t, original, wrapped, "re-wrapping with the same Kind must return the original, not nest it")
}

func TestWrapNestsADifferentKindOrForeignError(t *testing.T) {
	original := errs.New(errs.DomainError, "boom")
	wrapped := errs.Wrap(errs.InternalError, original, "wrapped as internal")
	require.NotSame(t, original, wrapped)
	assert.Equal(t, errs.InternalError, wrapped.Kind)
	assert.Same(t, original, wrapped.Cause)

	stdErr := errors.New("plain go error")
	wrapped2 := errs.Wrap(errs.InternalError, stdErr, "wrapped plain")
	assert.Equal(t, stdErr, wrapped2.Cause)
}

func TestWithPathAppendsWithoutMutatingOriginal(t *testing.T) {
	base := errs.New(errs.TypeMismatch, "field type mismatch")
	withField := base.WithPath(".age")
	withIndex := withField.WithPath("[3]")

	assert.Empty(t, base.Path)
	assert.Equal(t, []string{".age"}, withField.Path)
	assert.Equal(t, []string{".age", "[3]"}, withIndex.Path)
}

func TestPushFrameGrowsStackWithoutMutatingOriginal(t *testing.T) {
	base := errs.New(errs.UserError, "raised")
	withOneFrame := base.PushFrame("caller1")
	withTwoFrames := withOneFrame.PushFrame("caller2")

	assert.Empty(t, base.Stack)
	assert.Equal(t, []errs.Frame{{Location: "caller1"}}, withOneFrame.Stack)
	assert.Equal(t, []errs.Frame{{Location: "caller1"}, {Location: "caller2"}}, withTwoFrames.Stack)
}

func TestErrorMessageIncludesPathCauseAndStack(t *testing.T) {
	cause := errors.New("root cause")
	e := errs.Wrap(errs.ParseError, cause, "could not parse").WithPath(".x").PushFrame("parseValue")
	msg := e.Error()
	assert.Contains(t, msg, "ParseError")
	assert.Contains(t, msg, "could not parse")
	assert.Contains(t, msg, ".x")
	assert.Contains(t, msg, "root cause")
	assert.Contains(t, msg, "parseValue")
}

func TestIsMatchesOnlyTheGivenKind(t *testing.T) {
	e := errs.New(errs.FrozenMutation, "frozen")
	assert.True(t, errs.Is(e, errs.FrozenMutation))
	assert.False(t, errs.Is(e, errs.ConcurrentMutation))
	assert.False(t, errs.Is(errors.New("not an *errs.Error"), errs.FrozenMutation))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("root cause")
	e := errs.Wrap(errs.InternalError, cause, "wrapped")
	assert.Same(t, cause, errors.Unwrap(e))
}

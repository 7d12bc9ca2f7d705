package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/east-lang/east/errs"
	"github.com/east-lang/east/host"
	"github.com/east-lang/east/value"
)

func TestTableCallDispatchesToRegisteredFunc(t *testing.T) {
	table := host.NewTable()
	table.Register("echo", func(args []value.Value) (value.Value, error) {
		return args[0], nil
	})
	v, err := table.Call("echo", []value.Value{value.Int(7)})
	require.NoError(t, err)
	assert.Equal(t, value.Int(7), v)
}

func TestTableCallUnregisteredNameFails(t *testing.T) {
	table := host.NewTable()
	_, err := table.Call("missing", nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.InternalError))
}

func TestTableIsAsyncDistinguishesRegistries(t *testing.T) {
	table := host.NewTable()
	table.Register("sync-one", func(args []value.Value) (value.Value, error) { return value.Null{}, nil })
	table.RegisterAsync("async-one", func(args []value.Value) (*value.Future, error) {
		future, resolve := value.NewFuture()
		resolve(value.Null{}, nil)
		return future, nil
	})
	assert.False(t, table.IsAsync("sync-one"))
	assert.True(t, table.IsAsync("async-one"))
}

func TestTableCallAsyncAwaitsResolvedFuture(t *testing.T) {
	table := host.NewTable()
	table.RegisterAsync("double", func(args []value.Value) (*value.Future, error) {
		future, resolve := value.NewFuture()
		go resolve(args[0].(value.Int)*2, nil)
		return future, nil
	})
	future, err := table.CallAsync("double", []value.Value{value.Int(21)})
	require.NoError(t, err)
	v, err := future.Await()
	require.NoError(t, err)
	assert.Equal(t, value.Int(42), v)
}

func TestXTextCaseFolderHandlesMultiCodepointExpansion(t *testing.T) {
	var folder host.CaseFolder = host.XTextCaseFolder{}
	assert.Equal(t, "HELLO", folder.Upper("hello"))
	assert.Equal(t, "hello", folder.Lower("HELLO"))
	assert.Equal(t, "STRASSE", folder.Upper("straße"), "German ß expands to SS under full Unicode default case mapping")
}

func TestStdlibRegexCaseInsensitiveFlag(t *testing.T) {
	var re host.Regex = host.StdlibRegex{}
	compiled, err := re.Compile("abc", "i")
	require.NoError(t, err)
	assert.True(t, compiled.Contains("XABCX"))
}

func TestStdlibRegexFindIndexReportsCodeUnitOffsets(t *testing.T) {
	re := host.StdlibRegex{}
	compiled, err := re.Compile(`\d+`, "")
	require.NoError(t, err)
	start, end, ok := compiled.FindIndex("ab123cd")
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestStdlibRegexReplaceAllTranslatesEastTemplateSyntax(t *testing.T) {
	re := host.StdlibRegex{}
	compiled, err := re.Compile(`(\w+)@(\w+)`, "")
	require.NoError(t, err)
	out := compiled.ReplaceAll("user@host", "$2:$1")
	assert.Equal(t, "host:user", out)
}

func TestStdlibRegexCompileRejectsInvalidPattern(t *testing.T) {
	re := host.StdlibRegex{}
	_, err := re.Compile("(unterminated", "")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.DomainError))
}

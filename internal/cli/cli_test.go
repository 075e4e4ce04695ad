package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and stdin, returning stdout,
// stderr and the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "calc", cmd.Use)

	for _, name := range []string{"press", "repl", "eval"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "", "--format", "xml", "press", "1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPress(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "chained", args: []string{"2", "+", "3", "+", "4", "="}, want: "9\n"},
		{name: "pending", args: []string{"1", "2", "x"}, want: "12 ×\n0\n"},
		{name: "percent", args: []string{"5", "0", "%"}, want: "0.5\n"},
		{name: "backspace after equals", args: []string{"9", "+", "1", "=", "bs"}, want: "0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := execute(t, "", append([]string{"press"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestPressDivisionByZeroExitsWithFailure(t *testing.T) {
	out, _, err := execute(t, "", "press", "5", "/", "0", "=")
	require.Error(t, err)
	assert.Equal(t, "Error\n", out)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestPressUnknownKey(t *testing.T) {
	_, _, err := execute(t, "", "press", "1", "sqrt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPressJSONVerbose(t *testing.T) {
	out, errOut, err := execute(t, "", "--format", "json", "-v", "press", "7", "*", "6", "=")
	require.NoError(t, err)

	var final viewOutput
	require.NoError(t, json.Unmarshal([]byte(out), &final))
	assert.Equal(t, "42", final.Display)

	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	require.Len(t, lines, 4)

	var second viewOutput
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "×", second.Key)
	assert.Equal(t, "7 ×", second.Expression)
}

func TestRepl(t *testing.T) {
	input := "2 +\n3\n\nsqrt\n+ 4 =\nq\n9\n"

	out, _, err := execute(t, input, "repl")
	require.NoError(t, err)

	want := strings.Join([]string{
		"2 +", "0",
		"2 +", "3",
		`key 0: unknown key: "sqrt"`,
		"9",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestEval(t *testing.T) {
	out, _, err := execute(t, "", "eval", "0.1", "+", "0.2")
	require.NoError(t, err)
	assert.Equal(t, "0.3\n", out)

	out, _, err = execute(t, "", "--format", "json", "eval", "1", "÷", "3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"0.3333333333"}`, out)

	_, _, err = execute(t, "", "eval", "1", "=", "3")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "", "eval", "1", "/", "0")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args, resetting the flags changed by
// earlier runs
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	parserName = "value-or-expression"
	readStdin = false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{
		"--number-kind", "float64",
		"--value-separator", ",",
		"--decimal-separator", ".",
		"--log-level", "error",
	}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestExpressionCommand(t *testing.T) {
	out, err := run(t, "", "expression", "=SUM(A1:B2, 1+2*3)")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A1:B2,(1+(2*3)))\n", out)
}

func TestExpressionCommandError(t *testing.T) {
	_, err := run(t, "", "expression", "=1+")
	require.Error(t, err)
	assert.Equal(t, "#ERROR! End of text at (4)", err.Error())

	_, err = run(t, "", "expression", "29/2/2001")
	require.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "", "parse", "=1")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "token")
	assert.NotContains(t, doc, "error")

	out, err = run(t, "", "parse", "--parser", "cell", "$B$2")
	require.NoError(t, err)
	assert.Contains(t, out, `"cell"`)

	_, err = run(t, "", "parse", "--parser", "nonsense", "1")
	require.Error(t, err)
}

func TestParseCommandStdin(t *testing.T) {
	out, err := run(t, "=A1+1\n= A1 + 1\n=1+\n", "parse", "--stdin")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A1\t1\t=A1+1", lines[0])
	assert.Equal(t, "A2\t1\t= A1 + 1", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "A3\t2\t=1+\t#ERROR!"), lines[2])
	assert.Equal(t, "2 distinct formulas", lines[3])
}

func TestReferencesCommand(t *testing.T) {
	out, err := run(t, "", "references", "=SUM($A$1:B2, rate) * C3")
	require.NoError(t, err)
	assert.Equal(t, "range\t$A$1:B2\nlabel\trate\ncell\tC3\n", out)
}

func TestInvalidFlags(t *testing.T) {
	_, err := run(t, "", "--number-kind", "decimal128", "expression", "=1")
	require.Error(t, err)

	_, err = run(t, "", "--value-separator", "::", "expression", "=1")
	require.Error(t, err)
}

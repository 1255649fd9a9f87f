package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWcCountsStdin(t *testing.T) {
	out, err := runCmd(t, newWcCmd(), "one two\nthree\n")
	require.NoError(t, err)
	assert.Equal(t, "      2       3      14\n", out)
}

func TestWcLinesOnly(t *testing.T) {
	out, err := runCmd(t, newWcCmd(), "a\nb\nc\n", "-l")
	require.NoError(t, err)
	assert.Equal(t, "      3\n", out)
}

func TestCatNumbersLines(t *testing.T) {
	out, err := runCmd(t, newCatCmd(), "alpha\nbeta\n", "-n")
	require.NoError(t, err)
	assert.Equal(t, "     1\talpha\n     2\tbeta\n", out)
}

func TestOdDefaultFormat(t *testing.T) {
	out, err := runCmd(t, newOdCmd(), "AB")
	require.NoError(t, err)
	assert.Equal(t, "0000000 041101\n0000002\n", out)
}

func TestHeadLimitsLines(t *testing.T) {
	out, err := runCmd(t, newHeadCmd(), "1\n2\n3\n4\n", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestHeadMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("a1\na2\na3\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("b1\n"), 0o644))

	out, err := runCmd(t, newHeadCmd(), "", "-n", "2", a, b)
	require.NoError(t, err)
	want := "==> " + a + " <==\na1\na2\n\n==> " + b + " <==\nb1\n"
	assert.Equal(t, want, out)
}

func TestCatMultipleFilesSharedNumbering(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte("first\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("second\n"), 0o644))

	out, err := runCmd(t, newCatCmd(), "", "-n", a, b)
	require.NoError(t, err)
	assert.Equal(t, "     1\tfirst\n     2\tsecond\n", out)
}

func TestTailStdinLastLines(t *testing.T) {
	out, err := runCmd(t, newTailCmd(), "1\n2\n3\n4\n", "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "3\n4\n", out)
}

func TestFmtReflows(t *testing.T) {
	out, err := runCmd(t, newFmtCmd(), "aa bb cc dd\n", "-w", "5")
	require.NoError(t, err)
	assert.Equal(t, "aa bb\ncc dd\n", out)
}

func TestTestCommandExitCodes(t *testing.T) {
	_, err := runCmd(t, newTestCmd(), "", "hello")
	assert.NoError(t, err)

	_, err = runCmd(t, newTestCmd(), "", "")
	var ee *exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.code)

	_, err = runCmd(t, newTestCmd(), "", "1", "-eq", "notanumber")
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, ee.code)
}

func TestTouchCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new")
	_, err := runCmd(t, newTouchCmd(), "", path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestTouchNoCreateSkipsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent")
	_, err := runCmd(t, newTouchCmd(), "", "-c", path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestTruncateExtendsAndShrinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := runCmd(t, newTruncateCmd(), "", "-s", "10", path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size())

	_, err = runCmd(t, newTruncateCmd(), "", "-s", "-4", path)
	require.NoError(t, err)
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(6), info.Size())
}

func TestMktempCreatesUniquePaths(t *testing.T) {
	dir := t.TempDir()

	first, err := runCmd(t, newMktempCmd(), "", "--tmpdir", dir)
	require.NoError(t, err)
	second, err := runCmd(t, newMktempCmd(), "", "--tmpdir", dir)
	require.NoError(t, err)

	first = strings.TrimSpace(first)
	second = strings.TrimSpace(second)
	assert.NotEqual(t, first, second)

	info, err := os.Stat(first)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestHashsumRoundTrip(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(data, []byte("payload"), 0o644))

	out, err := runCmd(t, newHashsumCmd(), "", "-a", "sha256", data)
	require.NoError(t, err)

	sums := filepath.Join(dir, "sums")
	require.NoError(t, os.WriteFile(sums, []byte(out), 0o644))

	out, err = runCmd(t, newHashsumCmd(), "", "-a", "sha256", "--check", sums)
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}

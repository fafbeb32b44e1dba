package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// runGrep executes modgrep with args and stdin and returns the exit
// status, standard output and standard error.
func runGrep(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
		logger: zaptest.NewLogger(t),
	}
	code := a.execute(context.Background(), args, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLineMode(t *testing.T) {
	input := "Error: disk\nwarning\nERROR: net\nerrors everywhere\n"

	code, out, _ := runGrep(t, input, `^(?i:error):`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "Error: disk\nERROR: net\n", out)

	code, out, _ = runGrep(t, input, "-n", `^(?i:error):`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "1:Error: disk\n3:ERROR: net\n", out)

	code, out, _ = runGrep(t, input, "-c", `(?i:error)`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "3\n", out)

	code, out, _ = runGrep(t, input, "-o", `\w+:`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "Error:\nERROR:\n", out)
}

func TestFlagsOption(t *testing.T) {
	code, out, _ := runGrep(t, "ABC\nabc\n", "--flags", "i", "abc")
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "ABC\nabc\n", out)

	code, out, _ = runGrep(t, "ABC\nabc\n", "--flags", "i", "(?-i:abc)")
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "abc\n", out)
}

func TestWholeMode(t *testing.T) {
	input := "x\na\nb\n"

	code, _, _ := runGrep(t, input, "--whole", "--flags", "m", `^a$`)
	assert.Equal(t, exitMatch, code)

	code, out, _ := runGrep(t, input, "--whole", "--flags", "m", `(?-m:^b$)`)
	assert.Equal(t, exitNoMatch, code)
	assert.Empty(t, out)

	code, out, _ = runGrep(t, input, "--whole", "-c", "--flags", "m", `^\w$`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "3\n", out)

	code, out, _ = runGrep(t, "one two", "--whole", "-o", `\w+`)
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "one\ntwo\n", out)
}

func TestNoMatch(t *testing.T) {
	code, out, _ := runGrep(t, "abc\n", "xyz")
	assert.Equal(t, exitNoMatch, code)
	assert.Empty(t, out)

	code, out, _ = runGrep(t, "abc\n", "-c", "xyz")
	assert.Equal(t, exitNoMatch, code)
	assert.Equal(t, "0\n", out)
}

func TestErrors(t *testing.T) {
	code, _, stderr := runGrep(t, "", `(?m-m:a)`)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "modgrep:")

	code, _, stderr = runGrep(t, "")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "missing pattern")

	code, _, _ = runGrep(t, "", "--flags", "v", "a")
	assert.Equal(t, exitError, code)

	code, _, _ = runGrep(t, "", "--bogus", "a")
	assert.Equal(t, exitError, code)
}

func TestFilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.txt", "a.txt", "b.txt", "d.txt"} {
		paths = append(paths, writeFile(t, dir, name, "hit "+name+"\nmiss\n"))
	}

	code, out, _ := runGrep(t, "", append([]string{"hit"}, paths...)...)
	assert.Equal(t, exitMatch, code)

	var want strings.Builder
	for _, p := range paths {
		want.WriteString(p + ":hit " + filepath.Base(p) + "\n")
	}
	assert.Equal(t, want.String(), out)
}

func TestMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", "needle\n")
	missing := filepath.Join(dir, "missing.txt")

	code, out, stderr := runGrep(t, "", "needle", good, missing)
	assert.Equal(t, exitError, code)
	assert.Equal(t, good+":needle\n", out)
	assert.Contains(t, stderr, "missing.txt")
}

func TestMultiplePatterns(t *testing.T) {
	input := "alpha\nbeta\ngamma\n"
	code, out, _ := runGrep(t, input, "-e", "^a", "-e", "^g", "-e", "^a")
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "alpha\ngamma\n", out)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "modgrep.yaml", "flags: i\nengine:\n  max_steps: 2000\n")

	code, out, _ := runGrep(t, "ABC\n", "--config", path, "abc")
	assert.Equal(t, exitMatch, code)
	assert.Equal(t, "ABC\n", out)

	code, _, _ = runGrep(t, "ABC\n", "--config", path, "--flags", "", "abc")
	assert.Equal(t, exitNoMatch, code)

	code, _, _ = runGrep(t, strings.Repeat("a", 30)+"\n", "--config", path, `(a+)+b`)
	assert.Equal(t, exitNoMatch, code)
}

func TestLoadSettings(t *testing.T) {
	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), s)

	dir := t.TempDir()
	path := writeFile(t, dir, "ok.yaml", `
flags: m
cache_size: 4
engine:
  enable_prefilter: false
  max_depth: 1000
  unset_backref_matches_empty: true
`)
	s, err = loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "m", s.flags)
	assert.Equal(t, 4, s.cacheSize)
	assert.False(t, s.engine.EnablePrefilter)
	assert.Equal(t, 1000, s.engine.MaxDepth)
	assert.True(t, s.engine.UnsetBackrefMatchesEmpty)
	assert.Equal(t, defaultSettings().engine.MaxSteps, s.engine.MaxSteps)

	empty := writeFile(t, dir, "empty.yaml", "")
	s, err = loadSettings(empty)
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), s)

	unknown := writeFile(t, dir, "unknown.yaml", "engine:\n  max_stepz: 1\n")
	_, err = loadSettings(unknown)
	assert.Error(t, err)

	invalid := writeFile(t, dir, "invalid.yaml", "engine:\n  max_steps: -5\n")
	_, err = loadSettings(invalid)
	assert.ErrorContains(t, err, "MaxSteps")

	_, err = loadSettings(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	ethLine    = "eth: 0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae\n"
	fooEthLine = "foo.eth: 0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f\n"
	cryptoLine = "crypto: 0x0f4a10a4f46c288cea365fcf45cccf0e9d901b945b9829ccdb54c10dc3cb7a6f\n"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NAMEHASH_CONFIG", "")
	var buf bytes.Buffer
	err := run(args, &buf)
	return buf.String(), err
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDomain(t *testing.T) {
	out, err := runArgs(t, "domain", "foo.eth")
	require.NoError(t, err)
	require.Equal(t, fooEthLine, out)

	out, err = runArgs(t, "domain", "")
	require.NoError(t, err)
	require.Equal(t, ": 0x"+strings.Repeat("0", 64)+"\n", out)
}

func TestDomain_Usage(t *testing.T) {
	_, err := runArgs(t, "domain")
	var ue *usageError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, 2, ue.ExitCode())

	_, err = runArgs(t, "domain", "a", "b")
	require.ErrorAs(t, err, &ue)
}

func TestFile_Stdout(t *testing.T) {
	in := writeInput(t, "eth\nfoo.eth\ncrypto\n")
	for _, extra := range [][]string{nil, {"--workers", "1"}, {"--cache", "0"}, {"--cache", "8", "--workers", "4"}} {
		args := append([]string{"file", in}, extra...)
		out, err := runArgs(t, args...)
		require.NoError(t, err, extra)
		require.Equal(t, ethLine+fooEthLine+cryptoLine, out, extra)
	}
}

func TestFile_SkipsBadLines(t *testing.T) {
	in := writeInput(t, "eth\n"+string([]byte{0xc3, 0x28})+"\nfoo.eth\n")
	out, err := runArgs(t, "file", in)
	require.NoError(t, err)
	require.Equal(t, ethLine+fooEthLine, out)
}

func TestFile_OutputCreatesDirs(t *testing.T) {
	in := writeInput(t, "eth\nfoo.eth\n")
	outPath := filepath.Join(t.TempDir(), "nested", "dir", "hashes.txt")
	out, err := runArgs(t, "file", in, "-o", outPath)
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, ethLine+fooEthLine, string(data))
}

func TestFile_MissingInput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "hashes.txt")
	_, err := runArgs(t, "file", filepath.Join(t.TempDir(), "nope.txt"), "--output", outPath)
	require.ErrorIs(t, err, os.ErrNotExist)
	_, statErr := os.Stat(outPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestFile_BadFlags(t *testing.T) {
	in := writeInput(t, "eth\n")
	var ue *usageError
	_, err := runArgs(t, "file", in, "--workers", "-3")
	require.ErrorAs(t, err, &ue)
	_, err = runArgs(t, "file", in, "--bogus")
	require.ErrorAs(t, err, &ue)
	_, err = runArgs(t, "file")
	require.ErrorAs(t, err, &ue)
}

func TestFile_Config(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, "eth\n")
	cfgPath := filepath.Join(dir, "namehash.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 2\ncache_size: 16\nlog:\n  level: error\n"), 0o644))
	out, err := runArgs(t, "file", in, "--config", cfgPath)
	require.NoError(t, err)
	require.Equal(t, ethLine, out)

	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: -1\n"), 0o644))
	_, err = runArgs(t, "file", in, "--config", cfgPath)
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	good := writeInput(t, ethLine+fooEthLine+cryptoLine)
	out, err := runArgs(t, "verify", good)
	require.NoError(t, err)
	require.Equal(t, "checked 3 lines: 0 mismatches, 0 unparsable\n", out)

	bad := writeInput(t, ethLine+"foo.eth: 0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae\nnot a result\n")
	out, err = runArgs(t, "verify", bad)
	require.ErrorIs(t, err, errMismatch)
	require.Contains(t, out, "line 2: foo.eth: recorded 0x93cdeb70")
	require.Contains(t, out, "checked 3 lines: 1 mismatches, 1 unparsable\n")
}

func TestIndexAndLookup(t *testing.T) {
	in := writeInput(t, "000.crypto\n001.crypto\nfoo.eth\n")
	idx := filepath.Join(t.TempDir(), "index")

	_, err := runArgs(t, "file", in, "--index", idx, "--cache", "4")
	require.NoError(t, err)

	out, err := runArgs(t, "lookup", "--index", idx, "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f")
	require.NoError(t, err)
	require.Equal(t, fooEthLine, out)

	out, err = runArgs(t, "lookup", "--index", idx, "0x8e5527c046fb77fc87d4a34b52e9f54ba87ec6f79696b03aa1328a3bda394036")
	require.NoError(t, err)
	require.Equal(t, "000.crypto: 0x8e5527c046fb77fc87d4a34b52e9f54ba87ec6f79696b03aa1328a3bda394036\n", out)

	_, err = runArgs(t, "lookup", "--index", idx, "0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae")
	require.Error(t, err)
	require.Contains(t, err.Error(), "digest not in index")

	var ue *usageError
	_, err = runArgs(t, "lookup", "--index", idx, "0x1234")
	require.ErrorAs(t, err, &ue)
	_, err = runArgs(t, "lookup", "0x8e5527c046fb77fc87d4a34b52e9f54ba87ec6f79696b03aa1328a3bda394036")
	require.ErrorAs(t, err, &ue)
}

func TestTopLevel(t *testing.T) {
	var ue *usageError
	_, err := runArgs(t)
	require.ErrorAs(t, err, &ue)
	_, err = runArgs(t, "frobnicate")
	require.ErrorAs(t, err, &ue)

	out, err := runArgs(t, "--help")
	require.NoError(t, err)
	require.Contains(t, out, "domain")
	require.Contains(t, out, "lookup")

	out, err = runArgs(t, "--version")
	require.NoError(t, err)
	require.Contains(t, out, "namehash "+version)

	out, err = runArgs(t, "file", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "--output")
}

func TestLogLevelValidated(t *testing.T) {
	in := writeInput(t, "eth\n")
	var ue *usageError
	for _, cmd := range [][]string{
		{"file", in, "--log-level", "loud"},
		{"domain", "eth", "--log-level", "loud"},
		{"verify", in, "--log-level", "loud"},
	} {
		_, err := runArgs(t, cmd...)
		require.ErrorAsf(t, err, &ue, "args=%q", cmd)
		require.ErrorContains(t, err, "unknown log level")
	}

	out, err := runArgs(t, "file", in, "--log-level", "warn")
	require.NoError(t, err)
	require.Equal(t, ethLine, out)

	// A bad file value can be overridden by a valid flag.
	cfgPath := filepath.Join(t.TempDir(), "namehash.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("workers: 1\n"), 0o644))
	out, err = runArgs(t, "domain", "eth", "--config", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	require.Equal(t, ethLine, out)
}

func TestDomainIndex(t *testing.T) {
	idx := filepath.Join(t.TempDir(), "index")
	out, err := runArgs(t, "domain", "foo.eth", "--index", idx)
	require.NoError(t, err)
	require.Equal(t, fooEthLine, out)

	out, err = runArgs(t, "lookup", "--index", idx, "0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f")
	require.NoError(t, err)
	require.Equal(t, fooEthLine, out)
}

func TestFile_DebugLogging(t *testing.T) {
	in := writeInput(t, "eth\nfoo.eth\n")
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out", "hashes.txt")
	idx := filepath.Join(dir, "index")
	_, err := runArgs(t, "file", in, "-o", outPath, "--index", idx, "--cache", "4", "--log-level", "debug", "--log-json")
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, ethLine+fooEthLine, string(data))
}

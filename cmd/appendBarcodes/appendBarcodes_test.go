package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func copyInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"sample_R1.fq", "sample_R2.fq", "sample_I1.fq"} {
		data, err := os.ReadFile(filepath.Join("..", "..", "label", "testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err = os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func checkNoOutputs(t *testing.T, dir string) {
	t.Helper()
	for _, name := range []string{"sample_R1_bc.fq", "sample_R2_trimmed.fq"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s was created by an incomplete command line", name)
		}
	}
}

func TestParseArgsIncomplete(t *testing.T) {
	dir := copyInputs(t)
	r1 := filepath.Join(dir, "sample_R1.fq")
	bc := filepath.Join(dir, "sample_I1.fq")
	tests := []struct {
		args    []string
		errText string
	}{
		{[]string{"-b", bc}, "-1"},
		{[]string{"-1", r1}, "-b"},
		{[]string{"-1", r1, "-b", bc, "-l", "-1"}, "-l"},
		{[]string{"-1", r1, "-b", bc, "-validate", "sometimes"}, "sometimes"},
	}
	for _, test := range tests {
		var out bytes.Buffer
		s, err := parseArgs(test.args, &out)
		if err == nil || s != nil {
			t.Errorf("%v: expected an error", test.args)
			continue
		}
		if !strings.Contains(err.Error(), test.errText) {
			t.Errorf("%v: error %q does not mention %s", test.args, err, test.errText)
		}
		if !strings.Contains(out.String(), "Usage:") {
			t.Errorf("%v: usage was not printed", test.args)
		}
	}
	checkNoOutputs(t, dir)
}

func TestParseArgsHelp(t *testing.T) {
	var out bytes.Buffer
	if _, err := parseArgs([]string{"-h"}, &out); !errors.Is(err, errHelp) {
		t.Errorf("expected help error, got %v", err)
	}
	if !strings.Contains(out.String(), "appendBarcodes - ") || !strings.Contains(out.String(), "-validate") {
		t.Errorf("help text incomplete:\n%s", out.String())
	}
}

func TestParseArgsDefaults(t *testing.T) {
	var out bytes.Buffer
	s, err := parseArgs([]string{"-1", "r1.fq", "-b", "i1.fq"}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if s.opts.Length != 6 || s.opts.Separator != ":" || s.opts.Reverse != "" || s.opts.Policy.String() != "each" {
		t.Errorf("unexpected defaults %+v", s.opts)
	}
	if out.Len() != 0 {
		t.Errorf("usage printed for a complete command line:\n%s", out.String())
	}
}

func TestRun(t *testing.T) {
	dir := copyInputs(t)
	stats := filepath.Join(dir, "stats.tsv")
	var out bytes.Buffer
	err := run([]string{
		"-1", filepath.Join(dir, "sample_R1.fq"),
		"-2", filepath.Join(dir, "sample_R2.fq"),
		"-b", filepath.Join(dir, "sample_I1.fq"),
		"-stats", stats,
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	fwd, err := os.ReadFile(filepath.Join(dir, "sample_R1_bc.fq"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(fwd), "@read1:ACGTTT 1:N:0:1\n") {
		t.Errorf("unexpected forward output:\n%s", fwd)
	}
	if _, err = os.Stat(filepath.Join(dir, "sample_R2_trimmed.fq")); err != nil {
		t.Error(err)
	}
	report, err := os.ReadFile(stats)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(report), "ACGTTT\t3") {
		t.Errorf("unexpected stats report:\n%s", report)
	}
}

// TestExitStatus runs main in a child process, which it detects by
// APPEND_BARCODES_ARGS being set.
func TestExitStatus(t *testing.T) {
	if args, ok := os.LookupEnv("APPEND_BARCODES_ARGS"); ok {
		os.Args = append([]string{"appendBarcodes"}, strings.Fields(args)...)
		main()
		return
	}

	dir := copyInputs(t)
	r1 := filepath.Join(dir, "sample_R1.fq")
	bc := filepath.Join(dir, "sample_I1.fq")
	for _, args := range []string{"-h", "-1 " + r1, "-b " + bc, ""} {
		cmd := exec.Command(os.Args[0], "-test.run=^TestExitStatus$")
		cmd.Env = append(os.Environ(), "APPEND_BARCODES_ARGS="+args)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		err := cmd.Run()
		var exit *exec.ExitError
		if !errors.As(err, &exit) || exit.ExitCode() != 1 {
			t.Errorf("args %q: expected exit status 1, got %v", args, err)
		}
		if args != "-h" && !strings.Contains(stderr.String(), "ERROR:") {
			t.Errorf("args %q: no error message on stderr: %s", args, stderr.String())
		}
	}
	checkNoOutputs(t, dir)
}

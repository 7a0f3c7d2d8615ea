package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"dmirror/internal/model"
	"dmirror/internal/prompt"
	"dmirror/internal/settings"
)

func init() {
	color.NoColor = true
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "delete as fourth arg",
			args: []string{"src", "replica", "copy.log", "-delete"},
			want: []string{"src", "replica", "copy.log", "--delete"},
		},
		{
			name: "open after flags with values",
			args: []string{"--applog", "app.log", "src", "--exclude", "*.tmp", "replica", "copy.log", "-open"},
			want: []string{"--applog", "app.log", "src", "--exclude", "*.tmp", "replica", "copy.log", "--open"},
		},
		{
			name: "action as third arg is dropped",
			args: []string{"src", "replica", "-delete", "-v"},
			want: []string{"src", "replica", "-v"},
		},
		{
			name: "other fourth arg is dropped",
			args: []string{"src", "replica", "copy.log", "-h"},
			want: []string{"src", "replica", "copy.log"},
		},
		{
			name: "flags keep their form",
			args: []string{"src", "replica", "--open", "--applog=app.log"},
			want: []string{"src", "replica", "--open", "--applog=app.log"},
		},
		{
			name: "after double dash",
			args: []string{"src", "--", "replica", "copy.log", "-delete"},
			want: []string{"src", "--", "replica", "copy.log", "-delete"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeArgs(tt.args))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "success", want: 0},
		{name: "failure", err: errors.New("boom"), want: exitFailure},
		{name: "invalid settings", err: invalidSettings(settings.ErrSameDirs), want: exitInvalidSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestConsoleReporter(t *testing.T) {
	requires := require.New(t)
	var out bytes.Buffer
	r := newConsoleReporter(&out)

	r.Progress(model.Progress{Source: "/src/a/x.txt", Replica: "/replica/a/x.txt", Outcome: model.OutcomeCopied})
	r.Progress(model.Progress{Source: "/src/b/y.txt", Replica: "/replica/b/y.txt", Outcome: model.OutcomeFailed,
		Err: errors.New("denied")})
	r.Completed(model.Stats{Processed: 2, Copied: 1, Failed: 1, BytesCopied: 2048, Duration: time.Second})

	requires.Equal("Progress: /src/a/x.txt -> /replica/a/x.txt\n"+
		"Progress: /src/b/y.txt -> /replica/b/y.txt (failed: denied)\n"+
		"Synchronization completed.\n"+
		"2 files: 1 copied (2.0 kB), 0 up to date, 1 failed in 1s\n", out.String())
}

type dirs struct {
	src, replica, copyLog, appLog string
}

func newDirs(requires *require.Assertions, t *testing.T) dirs {
	base := t.TempDir()
	d := dirs{
		src:     filepath.Join(base, "src"),
		replica: filepath.Join(base, "replica"),
		copyLog: filepath.Join(base, "copy.log"),
		appLog:  filepath.Join(base, "app", "dmirror.log"),
	}
	requires.NoError(os.MkdirAll(filepath.Join(d.src, "a"), 0o755))
	requires.NoError(os.MkdirAll(filepath.Join(d.src, "b"), 0o755))
	requires.NoError(os.WriteFile(filepath.Join(d.src, "a", "x.txt"), []byte("hi"), 0o644))
	requires.NoError(os.WriteFile(filepath.Join(d.src, "b", "y.txt"), []byte("bye"), 0o644))
	return d
}

func execute(args []string, stdin string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(normalizeArgs(args))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	out, err := execute([]string{d.src, d.replica, d.copyLog, "--applog", d.appLog}, "")

	requires.NoError(err)
	requires.Contains(out, "Progress: "+filepath.ToSlash(filepath.Join(d.src, "a", "x.txt")))
	requires.Contains(out, "Synchronization completed.")
	b, err := os.ReadFile(filepath.Join(d.replica, "b", "y.txt"))
	requires.NoError(err)
	requires.Equal("bye", string(b))
	b, err = os.ReadFile(d.copyLog)
	requires.NoError(err)
	requires.Equal(2, strings.Count(string(b), "Copied: "))
	_, err = os.Stat(d.appLog)
	requires.NoError(err, "the application log must be written")
}

func TestRootCmdDeletesReplica(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	out, err := execute([]string{d.src, d.replica, d.copyLog, "-delete", "--applog", d.appLog}, "")

	requires.NoError(err)
	requires.Contains(out, "Replica folder deleted: "+d.replica)
	_, err = os.Stat(d.replica)
	requires.ErrorIs(err, os.ErrNotExist)
	_, err = os.Stat(d.copyLog)
	requires.NoError(err)
}

func TestRootCmdActionOnlyAsFourthArg(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	out, err := execute([]string{d.src, d.replica, "-delete", "--applog", d.appLog}, "")

	requires.NoError(err)
	requires.NotContains(out, "Replica folder")
	_, err = os.Stat(d.replica)
	requires.NoError(err)
}

func TestRootCmdIgnoresHelpAsFourthArg(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	out, err := execute([]string{d.src, d.replica, d.copyLog, "-h", "--applog", d.appLog}, "")

	requires.NoError(err)
	requires.Contains(out, "Synchronization completed.")
	requires.NotContains(out, "Usage:")
}

func TestRootCmdIgnoresUnknownAction(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	out, err := execute([]string{d.src, d.replica, d.copyLog, "-keep", "--applog", d.appLog}, "")

	requires.NoError(err)
	requires.NotContains(out, "Replica folder")
	_, err = os.Stat(d.replica)
	requires.NoError(err)
}

func TestRootCmdInteractive(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)
	requires.NoError(os.Mkdir(d.replica, 0o755))
	stdin := filepath.Join(d.src, "absent") + "\n" + d.src + "\n\n" + d.replica + "\n"

	out, err := execute([]string{"--applog", d.appLog}, stdin)

	requires.NoError(err)
	requires.Equal(2, strings.Count(out, "Invalid path. Please try again."))
	requires.Contains(out, "Enter the path to the replica folder: ")
	requires.Contains(out, "Synchronization completed.")
	_, err = os.Stat(filepath.Join(d.replica, "a", "x.txt"))
	requires.NoError(err)
}

func TestRootCmdInteractiveInputClosed(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)

	_, err := execute([]string{"--applog", d.appLog}, d.src+"\n")

	requires.ErrorIs(err, prompt.ErrNoInput)
	requires.Equal(exitFailure, exitCode(err))
}

func TestRootCmdInvalidSettings(t *testing.T) {
	d := newDirs(require.New(t), t)
	tests := []struct {
		name string
		args []string
	}{
		{name: "same dirs", args: []string{d.src, d.src}},
		{name: "nested dirs", args: []string{d.src, filepath.Join(d.src, "a", "replica")}},
		{name: "source absent", args: []string{filepath.Join(d.src, "absent"), d.replica}},
		{name: "unknown log level", args: []string{d.src, d.replica, "--loglvl", "verbose"}},
		{name: "both actions", args: []string{d.src, d.replica, "--delete", "--open"}},
		{name: "too many args", args: []string{d.src, d.replica, d.copyLog, "keep", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requires := require.New(t)
			_, err := execute(append(tt.args, "--applog", d.appLog), "")
			requires.Error(err)
			requires.Equal(exitInvalidSettings, exitCode(err))
		})
	}
}

func TestRootCmdEnv(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)
	t.Setenv("DMIRROR_EXCLUDE", "b/")
	t.Setenv("DMIRROR_APPLOG", d.appLog)

	_, err := execute([]string{d.src, d.replica}, "")

	requires.NoError(err)
	_, err = os.Stat(filepath.Join(d.replica, "a", "x.txt"))
	requires.NoError(err)
	_, err = os.Stat(filepath.Join(d.replica, "b"))
	requires.ErrorIs(err, os.ErrNotExist)
	_, err = os.Stat(d.appLog)
	requires.NoError(err)
}

func TestRootCmdConfigFile(t *testing.T) {
	requires := require.New(t)
	d := newDirs(requires, t)
	config := filepath.Join(t.TempDir(), "dmirror.yaml")
	requires.NoError(os.WriteFile(config, []byte("exclude:\n  - \"*.txt\"\napplog: "+d.appLog+"\n"), 0o644))

	out, err := execute([]string{d.src, d.replica, "--config", config}, "")

	requires.NoError(err)
	requires.NotContains(out, "Progress: ")
	requires.Contains(out, "0 files")
}

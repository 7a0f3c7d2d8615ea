package replica

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"runtime"
)

//SystemOpener starts the file browser of the current platform.
//The launcher outlives ctx and the program: ctx only prevents starting it.
type SystemOpener struct{}

func (SystemOpener) Open(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args := browserCommand(runtime.GOOS, dir)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("cannot start %s: %w", name, err)
	}
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("cannot release %s: %w", name, err)
	}
	return nil
}

func browserCommand(goos, dir string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{dir}
	case "windows":
		return "explorer", []string{dir}
	default:
		return "xdg-open", []string{dir}
	}
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

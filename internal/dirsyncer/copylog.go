package dirsyncer

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

var errCopyLog = errors.New("cannot append to copy log")

//CopyLog is the optional append-only record of copied files, one line per copy.
//The file is opened and closed for every single record, so a crash loses at most the record in flight.
type CopyLog struct {
	fs   billy.Basic
	path string
}

func NewCopyLog(path string) *CopyLog {
	return &CopyLog{fs: osfs.Default, path: path}
}

func newCopyLogOn(fs billy.Basic, path string) *CopyLog {
	return &CopyLog{fs: fs, path: path}
}

func (l *CopyLog) Path() string {
	return l.path
}

func (l *CopyLog) Append(srcPath, replicaPath string) (err error) {
	f, err := l.fs.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errCopyLog, l.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%w %q: %w", errCopyLog, l.path, cerr))
		}
	}()

	if _, err = fmt.Fprintf(f, "Copied: %s -> %s\n", srcPath, replicaPath); err != nil {
		return fmt.Errorf("%w %q: %w", errCopyLog, l.path, err)
	}
	return nil
}

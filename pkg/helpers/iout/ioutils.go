package iout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5"
)

//TimesChanger is implemented by filesystems able to set file access and modification times.
type TimesChanger interface {
	Chtimes(name string, atime, mtime time.Time) error
}

//ModeChanger is implemented by filesystems able to set file permission bits.
type ModeChanger interface {
	Chmod(name string, mode os.FileMode) error
}

//EnsureDirExists creates the directory with all missing parents. It succeeds silently if it already exists.
func EnsureDirExists(fs billy.Dir, dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("cannot make dir: %w", err)
	}
	return nil
}

//IsErrNotDir tells whether err was caused by a path component which is not a directory.
func IsErrNotDir(err error) bool {
	return errors.Is(err, syscall.ENOTDIR)
}

//CopyFile copies the regular file srcPath of srcFS to dstPath of dstFS, creating the destination dir if needed.
//It sets for the copied file the same permission bits and modTime as srcInfo has,
//as far as dstMeta (if not nil) supports it. Once started, the copy runs to its end.
func CopyFile(srcFS billy.Basic, srcPath string, dstFS billy.Filesystem, dstPath string, srcInfo os.FileInfo, dstMeta any) (int64, error) {
	if err := EnsureDirExists(dstFS, filepath.Dir(dstPath)); err != nil {
		return 0, err
	}
	written, err := copyFileContents(srcFS, srcPath, dstFS, dstPath, srcInfo.Mode().Perm())
	if err != nil {
		return written, fmt.Errorf("cannot copy file: %w", err)
	}
	if mc, ok := dstMeta.(ModeChanger); ok {
		if err := mc.Chmod(dstPath, srcInfo.Mode().Perm()); err != nil {
			return written, fmt.Errorf("cannot set file mode: %w", err)
		}
	}
	if tc, ok := dstMeta.(TimesChanger); ok {
		if err := tc.Chtimes(dstPath, time.Now(), srcInfo.ModTime()); err != nil {
			return written, fmt.Errorf("cannot set file modification time: %w", err)
		}
	}
	return written, nil
}

func copyFileContents(srcFS billy.Basic, src string, dstFS billy.Basic, dst string, perm os.FileMode) (written int64, err error) {
	in, err := srcFS.Open(src)
	if err != nil {
		return 0, fmt.Errorf("cannot open file: %w", err)
	}
	defer in.Close()

	out, err := dstFS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("cannot create file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close file: %w", cerr)
		}
	}()

	if written, err = io.Copy(out, in); err != nil {
		return written, fmt.Errorf("cannot read/write file content: %w", err)
	}
	return written, nil
}

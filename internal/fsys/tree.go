// Package fsys exposes the source and replica directory trees as go-billy filesystems
// rooted at the tree root, so that every path inside a tree is relative to its root.
package fsys

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

//Tree is a directory tree: a billy filesystem chrooted at Root.
type Tree struct {
	FS   billy.Filesystem
	Root string // as displayed to the user, with forward slashes
	os   bool
}

//NewOSTree creates a tree over the OS directory at root.
//A root which is a symlink is resolved, since walking a tree never follows links.
func NewOSTree(root string) *Tree {
	base := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		base = resolved
	}
	return &Tree{FS: osfs.New(base), Root: filepath.ToSlash(root), os: true}
}

//NewMemTree creates an in-memory tree. Its files don't keep modification times.
func NewMemTree(root string) *Tree {
	return &Tree{FS: memfs.New(), Root: filepath.ToSlash(root)}
}

//Path returns the display path of rel within the tree, normalized to forward slashes.
func (t *Tree) Path(rel string) string {
	if rel == "" || rel == "." {
		return t.Root
	}
	return filepath.ToSlash(filepath.Join(filepath.FromSlash(t.Root), rel))
}

//Exists reports whether rel exists in the tree.
func (t *Tree) Exists(rel string) (bool, error) {
	_, err := t.FS.Stat(rel)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("cannot stat %q: %w", t.Path(rel), err)
	}
}

//Chtimes implements iout.TimesChanger. go-billy's chrooted OS filesystem doesn't expose it,
//so it is applied to the underlying OS path; in-memory trees ignore it.
func (t *Tree) Chtimes(rel string, atime, mtime time.Time) error {
	if !t.os {
		return nil
	}
	return os.Chtimes(t.FS.Join(t.FS.Root(), rel), atime, mtime)
}

//Chmod implements iout.ModeChanger the same way as Chtimes.
func (t *Tree) Chmod(rel string, mode os.FileMode) error {
	if !t.os {
		return nil
	}
	return os.Chmod(t.FS.Join(t.FS.Root(), rel), mode)
}

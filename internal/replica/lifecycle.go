// Package replica implements the optional actions taken with the replica root after a completed pass.
package replica

//go:generate mockgen -destination=../../generated/mocks/opener_mock.go -package=mocks dmirror/internal/replica Opener

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"dmirror/internal/log"
	"dmirror/internal/settings"
)

type Result string

const (
	ResultNone     Result = ""
	ResultDeleted  Result = "deleted"
	ResultNotFound Result = "not_found"
	ResultOpened   Result = "opened"
)

//Opener hands a directory to the platform file browser.
type Opener interface {
	Open(ctx context.Context, dir string) error
}

type Lifecycle struct {
	log    log.Logger
	opener Opener
}

//New creates a Lifecycle. A nil opener means SystemOpener.
func New(logger log.Logger, opener Opener) *Lifecycle {
	if opener == nil {
		opener = SystemOpener{}
	}
	return &Lifecycle{log: logger, opener: opener}
}

//Delete removes the replica root with everything in it. A missing root isn't an error.
func (l *Lifecycle) Delete(root string) (Result, error) {
	fs, name := parentFS(root)
	if _, err := fs.Lstat(name); err != nil {
		if isNotExist(err) {
			l.log.Info("replica not found, nothing to delete", log.String("replica", root))
			return ResultNotFound, nil
		}
		return ResultNone, fmt.Errorf("cannot stat replica %q: %w", root, err)
	}
	if err := util.RemoveAll(fs, name); err != nil {
		return ResultNone, fmt.Errorf("cannot delete replica %q: %w", root, err)
	}
	l.log.Info("replica deleted", log.String("replica", root))
	return ResultDeleted, nil
}

//Reveal opens the replica root in the file browser. A missing root isn't an error.
func (l *Lifecycle) Reveal(ctx context.Context, root string) (Result, error) {
	fs, name := parentFS(root)
	if _, err := fs.Stat(name); err != nil {
		if isNotExist(err) {
			l.log.Info("replica not found, nothing to open", log.String("replica", root))
			return ResultNotFound, nil
		}
		return ResultNone, fmt.Errorf("cannot stat replica %q: %w", root, err)
	}
	if err := l.opener.Open(ctx, root); err != nil {
		return ResultNone, fmt.Errorf("cannot open replica %q: %w", root, err)
	}
	l.log.Debug("replica opened", log.String("replica", root))
	return ResultOpened, nil
}

//Apply runs the action chosen in the settings.
func (l *Lifecycle) Apply(ctx context.Context, action settings.Action, root string) (Result, error) {
	switch action {
	case settings.ActionDelete:
		return l.Delete(root)
	case settings.ActionOpen:
		return l.Reveal(ctx, root)
	default:
		return ResultNone, nil
	}
}

//parentFS returns the filesystem of the directory containing root and the name of root in it.
func parentFS(root string) (billy.Filesystem, string) {
	root = filepath.Clean(root)
	return osfs.New(filepath.Dir(root)), filepath.Base(root)
}

package dirsyncer

import (
	"fmt"
	"path/filepath"

	"dmirror/internal/fsys"
	"dmirror/internal/log"
	"dmirror/internal/model"
	"dmirror/pkg/helpers/iout"
)

//Copier copies one source file into the replica if the Comparator says so,
//and records every actual copy in the copy log (if there is one).
type Copier struct {
	log          log.Logger
	src, replica *fsys.Tree
	cmp          *Comparator
	copyLog      *CopyLog
}

func NewCopier(logger log.Logger, src, replica *fsys.Tree, cmp *Comparator, copyLog *CopyLog) *Copier {
	return &Copier{log: logger, src: src, replica: replica, cmp: cmp, copyLog: copyLog}
}

//Copy returns the decision it acted upon and the number of bytes written.
//If the file was copied but the copy log could not be appended, the returned decision still says Copy.
func (c *Copier) Copy(srcPath, replicaPath string) (model.Decision, int64, error) {
	if err := iout.EnsureDirExists(c.replica.FS, filepath.Dir(replicaPath)); err != nil {
		if iout.IsErrNotDir(err) {
			return model.Decision{}, 0, fmt.Errorf("%w: %q", ErrReplicaNotDir, c.replica.Path(filepath.Dir(replicaPath)))
		}
		return model.Decision{}, 0, fmt.Errorf("cannot prepare replica dir for %q: %w", c.replica.Path(replicaPath), err)
	}

	decision, err := c.cmp.NeedsCopy(srcPath, replicaPath)
	if err != nil {
		return model.Decision{}, 0, err
	}
	if !decision.Copy {
		return decision, 0, nil
	}

	srcInfo, err := c.src.FS.Stat(srcPath)
	if err != nil {
		return model.Decision{}, 0, fmt.Errorf("cannot stat %q: %w", c.src.Path(srcPath), err)
	}
	written, err := iout.CopyFile(c.src.FS, srcPath, c.replica.FS, replicaPath, srcInfo, c.replica)
	if err != nil {
		return model.Decision{}, written, fmt.Errorf("%q -> %q: %w", c.src.Path(srcPath), c.replica.Path(replicaPath), err)
	}
	c.log.Debug("file copied", log.String("src", c.src.Path(srcPath)), log.String("replica", c.replica.Path(replicaPath)),
		log.String("reason", string(decision.Reason)), log.Int64("bytes", written))

	if c.copyLog != nil {
		if err := c.copyLog.Append(c.src.Path(srcPath), c.replica.Path(replicaPath)); err != nil {
			return decision, written, err
		}
	}
	return decision, written, nil
}

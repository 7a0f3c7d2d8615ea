package dirsyncer

import (
	"errors"
	"fmt"
	"io/fs"

	"dmirror/internal/digest"
	"dmirror/internal/fsys"
	"dmirror/internal/model"
)

var (
	ErrSourceMissing = errors.New("source file does not exist")
	ErrReplicaIsDir  = errors.New("replica path is a directory")
	ErrReplicaNotDir = errors.New("replica parent path is not a directory")
)

//Comparator decides whether a source file must be (re-)copied into the replica.
//It compares sizes first and digests the contents only when the sizes match.
type Comparator struct {
	src, replica *fsys.Tree
	hasher       digest.Hasher
}

func NewComparator(src, replica *fsys.Tree, hasher digest.Hasher) *Comparator {
	if hasher == nil {
		hasher = digest.XXHash{}
	}
	return &Comparator{src: src, replica: replica, hasher: hasher}
}

//NeedsCopy takes paths relative to the source and replica roots respectively.
func (c *Comparator) NeedsCopy(srcPath, replicaPath string) (model.Decision, error) {
	entry, err := c.entryInfo(srcPath, replicaPath)
	if err != nil {
		return model.Decision{}, err
	}
	if d, ok := entry.Precheck(); ok {
		return d, nil
	}

	srcDigest, err := c.hasher.Digest(c.src.FS, srcPath)
	if err != nil {
		return model.Decision{}, err
	}
	replicaDigest, err := c.hasher.Digest(c.replica.FS, replicaPath)
	if err != nil {
		return model.Decision{}, err
	}
	return model.ByDigest(srcDigest, replicaDigest), nil
}

func (c *Comparator) entryInfo(srcPath, replicaPath string) (*model.EntryInfo, error) {
	srcInfo, err := pathInfo(c.src, srcPath)
	if err != nil {
		return nil, err
	}
	if !srcInfo.Exists {
		return nil, fmt.Errorf("%w: %q", ErrSourceMissing, srcInfo.FullPath)
	}

	replicaInfo, err := pathInfo(c.replica, replicaPath)
	if err != nil {
		return nil, err
	}
	if replicaInfo.IsDir {
		return nil, fmt.Errorf("%w: %q", ErrReplicaIsDir, replicaInfo.FullPath)
	}

	return &model.EntryInfo{SrcPathInfo: srcInfo, ReplicaPathInfo: replicaInfo}, nil
}

func pathInfo(tree *fsys.Tree, rel string) (model.PathInfo, error) {
	pi := model.PathInfo{FullPath: tree.Path(rel)}
	info, err := tree.FS.Stat(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pi, nil
		}
		return pi, fmt.Errorf("cannot stat %q: %w", pi.FullPath, err)
	}
	pi.Exists = true
	pi.IsDir = info.IsDir()
	pi.Size = info.Size()
	pi.ModTime = info.ModTime()
	return pi, nil
}

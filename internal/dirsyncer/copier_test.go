package dirsyncer

import (
	"os"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"dmirror/internal/model"
)

func TestCopier_Copy(t *testing.T) {
	requires := require.New(t)
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	src, replica := memTrees()
	writeFiles(requires, src, map[string]string{"a/b/x.txt": "hi"})
	logFS := memfs.New()
	copier := NewCopier(getMockLogger(mockCtrl), src, replica, NewComparator(src, replica, nil),
		newCopyLogOn(logFS, "copy.log"))

	decision, written, err := copier.Copy("a/b/x.txt", "a/b/x.txt")
	requires.NoError(err)
	requires.Equal(model.CopyMissing, decision)
	requires.EqualValues(2, written)
	requires.Equal("hi", readFile(requires, replica, "a/b/x.txt"))

	decision, written, err = copier.Copy("a/b/x.txt", "a/b/x.txt")
	requires.NoError(err)
	requires.Equal(model.SkipIdentical, decision)
	requires.Zero(written)

	log, err := util.ReadFile(logFS, "copy.log")
	requires.NoError(err)
	requires.Equal("Copied: /src/a/b/x.txt -> /replica/a/b/x.txt\n", string(log))
}

func TestCopier_CopyOverwritesStaleReplica(t *testing.T) {
	requires := require.New(t)
	src, replica := osTrees(t)
	writeFiles(requires, src, map[string]string{"x.txt": "new content"})
	writeFiles(requires, replica, map[string]string{"x.txt": "old content, longer"})
	srcTime := time.Now().Add(-72 * time.Hour).Truncate(time.Second)
	requires.NoError(os.Chtimes(src.FS.Join(src.FS.Root(), "x.txt"), srcTime, srcTime))

	decision, _, err := NewCopier(getMockLogger(gomock.NewController(t)), src, replica,
		NewComparator(src, replica, nil), nil).Copy("x.txt", "x.txt")

	requires.NoError(err)
	requires.Equal(model.CopySize, decision)
	requires.Equal("new content", readFile(requires, replica, "x.txt"))
	info, err := replica.FS.Stat("x.txt")
	requires.NoError(err)
	requires.True(srcTime.Equal(info.ModTime()), "modification time must be copied")
}

func TestCopier_CopyRecordFailure(t *testing.T) {
	requires := require.New(t)
	src, replica := memTrees()
	writeFiles(requires, src, map[string]string{"x.txt": "hi"})
	logFS := memfs.New()
	requires.NoError(logFS.MkdirAll("copy.log", 0o755))

	decision, written, err := NewCopier(getMockLogger(gomock.NewController(t)), src, replica,
		NewComparator(src, replica, nil), newCopyLogOn(logFS, "copy.log")).Copy("x.txt", "x.txt")

	requires.ErrorIs(err, errCopyLog)
	requires.True(decision.Copy)
	requires.EqualValues(2, written)
	requires.Equal("hi", readFile(requires, replica, "x.txt"))
}

func TestCopier_CopyBlockedByReplicaFile(t *testing.T) {
	requires := require.New(t)
	src, replica := osTrees(t)
	writeFiles(requires, src, map[string]string{"a/x.txt": "hi"})
	writeFiles(requires, replica, map[string]string{"a": "a file in place of the dir"})

	_, _, err := NewCopier(getMockLogger(gomock.NewController(t)), src, replica,
		NewComparator(src, replica, nil), nil).Copy("a/x.txt", "a/x.txt")

	requires.ErrorIs(err, ErrReplicaNotDir)
	requires.Equal("a file in place of the dir", readFile(requires, replica, "a"))
}

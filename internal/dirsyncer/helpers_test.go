package dirsyncer

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"dmirror/generated/mocks"
	"dmirror/internal/digest"
	"dmirror/internal/fsys"
)

//countingHasher counts the files it digests.
type countingHasher struct {
	calls atomic.Int32
}

func (h *countingHasher) Digest(fs billy.Basic, name string) (uint64, error) {
	h.calls.Add(1)
	return digest.XXHash{}.Digest(fs, name)
}

type panickingHasher struct{}

func (panickingHasher) Digest(billy.Basic, string) (uint64, error) {
	panic("digest must not be called")
}

func memTrees() (src, replica *fsys.Tree) {
	return fsys.NewMemTree("/src"), fsys.NewMemTree("/replica")
}

func osTrees(t *testing.T) (src, replica *fsys.Tree) {
	base := t.TempDir()
	srcDir, replicaDir := filepath.Join(base, "src"), filepath.Join(base, "replica")
	require.NoError(t, os.Mkdir(srcDir, 0o755))
	return fsys.NewOSTree(srcDir), fsys.NewOSTree(replicaDir)
}

func writeFiles(req *require.Assertions, tree *fsys.Tree, files map[string]string) {
	for name, content := range files {
		req.NoError(tree.FS.MkdirAll(filepath.Dir(name), os.ModePerm))
		req.NoError(util.WriteFile(tree.FS, name, []byte(content), 0o644))
	}
}

func readFile(req *require.Assertions, tree *fsys.Tree, name string) string {
	b, err := util.ReadFile(tree.FS, name)
	req.NoError(err)
	return string(b)
}

func getMockLogger(mockCtrl *gomock.Controller) *mocks.MockLogger {
	loggerMock := mocks.NewMockLogger(mockCtrl)
	loggerMock.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	loggerMock.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	loggerMock.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	loggerMock.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return loggerMock
}

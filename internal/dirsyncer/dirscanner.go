package dirsyncer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/util"
	ignore "github.com/sabhiram/go-gitignore"

	"dmirror/internal/fsys"
	"dmirror/internal/log"
)

const rootPath = "."

//dirScanner walks the source tree and yields its regular files, skipping the excluded ones.
type dirScanner struct {
	log      log.Logger
	src      *fsys.Tree
	excludes *ignore.GitIgnore
}

func newDirScanner(logger log.Logger, src *fsys.Tree, excludes []string) *dirScanner {
	d := &dirScanner{log: logger, src: src}
	if len(excludes) > 0 {
		d.excludes = ignore.CompileIgnoreLines(excludes...)
	}
	return d
}

//countFiles pre-counts the files which walk would visit. The result is only advisory.
func (d *dirScanner) countFiles(ctx context.Context) (int, error) {
	count := 0
	err := d.walk(ctx, func(string, os.FileInfo) error {
		count++
		return nil
	})
	return count, err
}

//walk calls fn for every regular file of the source tree (with its path relative to the root),
//directory by directory in lexical order. Unreadable subdirectories and entries are logged and skipped;
//only an unreadable root, a canceled ctx or an error from fn stop the walk.
func (d *dirScanner) walk(ctx context.Context, fn func(rel string, info os.FileInfo) error) error {
	return util.Walk(d.src.FS, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == rootPath {
				return err
			}
			d.log.Warn("cannot read source entry, it is skipped", log.String("path", d.src.Path(path)), log.Cause(err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == rootPath {
			return nil
		}

		if info.IsDir() {
			if d.isExcluded(path + "/") {
				d.log.Debug("excluded dir is skipped", log.String("path", d.src.Path(path)))
				return filepath.SkipDir
			}
			return nil
		}
		if d.isExcluded(path) {
			d.log.Debug("excluded file is skipped", log.String("path", d.src.Path(path)))
			return nil
		}
		if !info.Mode().IsRegular() {
			d.log.Debug("not a regular file, it is skipped", log.String("path", d.src.Path(path)),
				log.String("mode", info.Mode().String()))
			return nil
		}
		return fn(path, info)
	})
}

func (d *dirScanner) isExcluded(rel string) bool {
	return d.excludes != nil && d.excludes.MatchesPath(filepath.ToSlash(rel))
}

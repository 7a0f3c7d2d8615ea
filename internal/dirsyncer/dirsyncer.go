package dirsyncer

//go:generate mockgen -destination=../../generated/mocks/reporter_mock.go -package=mocks dmirror/internal/dirsyncer Reporter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"dmirror/internal/digest"
	"dmirror/internal/fsys"
	"dmirror/internal/log"
	"dmirror/internal/model"
	"dmirror/internal/settings"
	"dmirror/pkg/helpers/run"
)

//Reporter receives the notifications of a synchronization pass. Notifications are fire-and-forget.
type Reporter interface {
	//Progress is called after every processed (copied, skipped or failed) file, in traversal order.
	Progress(p model.Progress)
	//Completed is called once the whole source tree has been walked.
	Completed(stats model.Stats)
}

type Options struct {
	CopyLog  *CopyLog // nil means no copy log
	Excludes []string // gitignore-style patterns matched against relative paths
	Hasher   digest.Hasher
}

//DirSyncer mirrors the source tree into the replica tree, one file at a time.
type DirSyncer struct {
	log          log.Logger
	src, replica *fsys.Tree
	scanner      *dirScanner
	copier       *Copier
	reporter     Reporter
}

//New creates a DirSyncer for the OS directories of the settings.
func New(logger log.Logger, stg settings.Settings, reporter Reporter) *DirSyncer {
	opts := Options{Excludes: stg.Excludes}
	if stg.CopyLogPath != "" {
		opts.CopyLog = NewCopyLog(stg.CopyLogPath)
	}
	return NewForTrees(logger, fsys.NewOSTree(stg.SrcDir), fsys.NewOSTree(stg.ReplicaDir), opts, reporter)
}

func NewForTrees(logger log.Logger, src, replica *fsys.Tree, opts Options, reporter Reporter) *DirSyncer {
	if reporter == nil {
		reporter = nopReporter{}
	}
	if opts.CopyLog != nil {
		logger.Debug("copied files are recorded", log.String("copyLog", opts.CopyLog.Path()))
	}
	cmp := NewComparator(src, replica, opts.Hasher)
	return &DirSyncer{
		log:      logger,
		src:      src,
		replica:  replica,
		scanner:  newDirScanner(logger, src, opts.Excludes),
		copier:   NewCopier(logger, src, replica, cmp, opts.CopyLog),
		reporter: reporter,
	}
}

//Sync runs one full pass. Failures of single files are reported and counted, but never abort the pass:
//Sync returns an error only if the source root can't be walked or ctx is canceled (between files).
func (d *DirSyncer) Sync(ctx context.Context) (stats model.Stats, err error) {
	defer func() {
		if p := recover(); p != nil {
			if perr, ok := p.(error); ok {
				err = perr
			} else {
				err = fmt.Errorf("panic! %v", p)
			}
		}
	}()

	stats.StartedAt = time.Now()
	d.log.Debug("counting source files", log.String("src", d.src.Root))
	total, err := d.scanner.countFiles(ctx)
	if err != nil {
		return stats, fmt.Errorf("cannot scan source dir %q: %w", d.src.Root, err)
	}
	stats.Total = total
	replicaExists, err := d.replica.Exists(rootPath)
	if err != nil {
		return stats, fmt.Errorf("cannot check replica dir %q: %w", d.replica.Root, err)
	}
	d.log.Info("synchronization started", log.String("src", d.src.Root), log.String("replica", d.replica.Root),
		log.Bool("replicaExists", replicaExists), log.Int("files", total))

	var seq uint64
	err = d.scanner.walk(ctx, func(rel string, _ os.FileInfo) error {
		seq++
		p, written := d.processFile(rel)
		p.Seq, p.Total = seq, total
		stats.Add(p.Outcome, written)
		d.log.Debug("file processed", log.Uint64("seq", p.Seq), log.String("src", p.Source),
			log.String("outcome", string(p.Outcome)), log.String("progress", fmt.Sprintf("%.1f%%", p.Percent())))
		d.reporter.Progress(p)
		return nil
	})
	stats.Duration = time.Since(stats.StartedAt)
	if err != nil {
		d.log.Warn("synchronization aborted", log.Cause(err), log.Int("processed", stats.Processed))
		return stats, fmt.Errorf("synchronization aborted: %w", err)
	}

	d.log.Info("synchronization completed", log.Int("processed", stats.Processed), log.Int("copied", stats.Copied),
		log.Int("skipped", stats.Skipped), log.Int("failed", stats.Failed),
		log.String("bytes", humanize.Bytes(uint64(stats.BytesCopied))), log.Duration("took", stats.Duration))
	d.reporter.Completed(stats)
	return stats, nil
}

func (d *DirSyncer) processFile(rel string) (model.Progress, int64) {
	var (
		decision model.Decision
		written  int64
	)
	err := run.WithError(func() error {
		var err error
		decision, written, err = d.copier.Copy(rel, rel)
		return err
	})

	p := model.Progress{Source: d.src.Path(rel), Replica: d.replica.Path(rel), Reason: decision.Reason, Err: err}
	switch {
	case err == nil && decision.Copy:
		p.Outcome = model.OutcomeCopied
	case err == nil:
		p.Outcome = model.OutcomeSkipped
	case errors.Is(err, errCopyLog) && decision.Copy:
		p.Outcome = model.OutcomeCopied
		d.log.Error("file copied, but not recorded", log.String("src", p.Source), log.Cause(err))
	default:
		p.Outcome = model.OutcomeFailed
		d.log.Error("cannot synchronize file", log.String("src", p.Source), log.String("replica", p.Replica),
			log.Cause(err))
	}
	return p, written
}

type nopReporter struct{}

func (nopReporter) Progress(model.Progress) {}

func (nopReporter) Completed(model.Stats) {}

// Package importer bulk-loads Alpha Progression CSV exports from disk.
package importer

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesErrored   int

	Sessions        int
	SetsReceived    int
	SetsInserted    int64
	SetsReplaced    int64
	TrainingSeconds int
}

// Ingester stores one export. *alpha.Provider satisfies it.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

// LogStore records import outcomes. *storage.DB satisfies it.
type LogStore interface {
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
}

// Importer reads export files and inserts their sets into the DB.
type Importer struct {
	ingester Ingester
	logs     LogStore
	userID   int
	log      *slog.Logger
	dryRun   bool
	stats    Stats
}

// New creates a new Importer. In dry-run mode ingester and logs are unused.
func New(ingester Ingester, logs LogStore, userID int, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{ingester: ingester, logs: logs, userID: userID, log: log, dryRun: dryRun}
}

// Import processes every export under path, which may also be a single
// file. A file that fails is logged and counted; the rest still run.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	files, err := FindExports(path)
	if err != nil {
		return &imp.stats, err
	}
	imp.log.Info("found exports", "files", len(files))

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if err := imp.importFile(ctx, f); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("import failed", "file", f, "error", err)
			continue
		}
		imp.stats.FilesProcessed++
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	r, err := openExport(path)
	if err != nil {
		return err
	}
	defer r.Close()

	start := time.Now()
	var res *ingest.Result
	if imp.dryRun {
		res, err = alpha.Preview(r)
	} else {
		res, err = imp.ingester.Ingest(ctx, r, imp.userID)
		imp.record(ctx, path, res, err, time.Since(start))
	}
	if err != nil {
		return err
	}

	imp.stats.Sessions += res.SessionsReceived
	imp.stats.SetsReceived += res.SetsReceived
	imp.stats.SetsInserted += res.SetsInserted
	imp.stats.SetsReplaced += res.SetsReplaced
	imp.stats.TrainingSeconds += res.TrainingSeconds

	imp.log.Info("imported export",
		"file", filepath.Base(path),
		"sessions", res.SessionsReceived,
		"sets", res.SetsReceived,
		"training", duration.Of(res.TrainingSeconds).String(),
	)
	return nil
}

// record writes the outcome of one file to import_logs, tagged with the file name.
func (imp *Importer) record(ctx context.Context, path string, res *ingest.Result, importErr error, took time.Duration) {
	meta := map[string]string{"file": filepath.Base(path)}
	entry := storage.NewImportLog(imp.userID, models.SourceAlpha, res, importErr, took, meta)
	if _, err := imp.logs.InsertImportLog(ctx, entry); err != nil {
		imp.log.Error("failed to log import", "file", path, "error", err)
	}
}

// isExport reports whether name looks like a CSV export, optionally gzipped.
func isExport(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".csv.gz")
}

// FindExports returns the export files under root in lexical order. A root
// that is itself a file is returned as is.
func FindExports(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isExport(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}

// openExport opens path, decompressing .gz files.
func openExport(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip %s: %w", path, err)
	}
	return gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g gzipFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

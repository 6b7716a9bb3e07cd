// Package export streams virtual files into real storage.
package export

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/log"
)

// Exporter writes the content of a virtual file under key.
type Exporter interface {
	// Name identifies the exporter in logs.
	Name() string

	// Open verifies that the destination is usable.
	Open(ctx context.Context) error

	// Export consumes r, which yields exactly info.Length() bytes.
	Export(ctx context.Context, key string, info *data.FileInfo, r io.Reader) error
}

// Job exports the virtual file at Path under Key.
type Job struct {
	Path string
	Key  string
}

// Jobs builds a job per path with keys relative to prefix.
func Jobs(prefix string, paths ...string) []Job {
	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, Job{
			Path: p,
			Key:  strings.TrimPrefix(path.Join(prefix, path.Clean("/"+p)), "/"),
		})
	}
	return jobs
}

// Result summarizes a Run.
type Result struct {
	Files    int
	Bytes    int64
	Duration time.Duration
}

// Run exports all jobs with at most limit exports in flight. The first
// failure cancels the remaining jobs.
func Run(ctx context.Context, fs sizefs.FileSystem, exp Exporter, jobs []Job, limit int, logger *log.Logger) (Result, error) {
	started := time.Now()
	logger = logger.Named("export")

	if err := exp.Open(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to open exporter '%s': %w", exp.Name(), err)
	}

	var files, written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, job := range jobs {
		g.Go(func() error {
			n, err := export(gctx, fs, exp, job)
			if err != nil {
				logger.Error("Failed to export '%s' to '%s': %v", job.Path, job.Key, err)
				return err
			}

			files.Add(1)
			written.Add(n)
			logger.Debug("Exported '%s' to '%s' (%d bytes)", job.Path, job.Key, n)
			return nil
		})
	}

	err := g.Wait()
	result := Result{
		Files:    int(files.Load()),
		Bytes:    written.Load(),
		Duration: time.Since(started),
	}
	if err != nil {
		return result, err
	}

	logger.Info("Exported %d files (%d bytes) with '%s' in %s", result.Files, result.Bytes, exp.Name(), result.Duration)
	return result, nil
}

func export(ctx context.Context, fs sizefs.FileSystem, exp Exporter, job Job) (int64, error) {
	if job.Key == "" {
		return 0, fmt.Errorf("failed to export '%s': empty key", job.Path)
	}

	stream, err := fs.Open(ctx, job.Path)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	counter := &countingReader{r: stream}
	if err := exp.Export(ctx, job.Key, stream.Stat(), counter); err != nil {
		return counter.n, fmt.Errorf("failed to export '%s': %w", job.Path, err)
	}

	return counter.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Package pipeline orchestrates log discovery, parsing, and the merge into
// a single flat entry collection.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"convoscope/internal/entry"
	"convoscope/internal/source"
)

// Operation-level failures. Anything below this level (a line, a file, a
// subdirectory) is swallowed into diagnostics instead.
var (
	// ErrUnsupported means the caller has no directory-access capability
	// at all. Fatal, no retry path.
	ErrUnsupported = errors.New("directory access is not available")
	// ErrNoDirectory means no readable root directory was selected.
	ErrNoDirectory = errors.New("no log directory selected")
	// ErrNoData means the tree was scanned but yielded zero valid records.
	// The returned result still carries diagnostics explaining why.
	ErrNoData = errors.New("no usable records found")
)

// Diagnostics collects everything that was excluded from analytics.
type Diagnostics struct {
	Invalid    []source.InvalidLine
	Failures   []source.ParseFailure
	FileErrors int
}

// LoadResult is the output of one full load pass.
type LoadResult struct {
	// ScanID identifies this load. Callers juggling overlapping loads
	// (watch mode, a re-selected directory) discard results whose ScanID
	// is no longer current.
	ScanID       uuid.UUID
	Entries      []entry.Entry
	Files        int
	ParsedFiles  int
	ProjectCount int
	Diagnostics  Diagnostics
}

// ProgressFunc reports parsing progress: files processed so far vs total.
type ProgressFunc func(current, total int)

// Load walks fsys for log files, parses them on a bounded worker pool, and
// merges the per-file results into one flat entry collection. Sibling files
// parse in parallel; no aggregation step depends on visitation order.
func Load(ctx context.Context, fsys fs.FS, progressFn ProgressFunc) (*LoadResult, error) {
	if fsys == nil {
		return nil, ErrUnsupported
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDirectory, err)
	}

	files, err := source.Walk(ctx, fsys)
	if err != nil {
		return nil, fmt.Errorf("scanning logs: %w", err)
	}

	result := &LoadResult{
		ScanID: uuid.New(),
		Files:  len(files),
	}
	if len(files) == 0 {
		return result, ErrNoData
	}

	type fileOutcome struct {
		res     source.FileResult
		readErr error
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	outcomes := make([]fileOutcome, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				path := files[idx]
				data, err := fs.ReadFile(fsys, path)
				if err != nil {
					outcomes[idx] = fileOutcome{readErr: err}
				} else {
					outcomes[idx] = fileOutcome{res: source.ParseContent(path, data)}
				}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	projects := make(map[string]struct{})
	for _, o := range outcomes {
		if o.readErr != nil {
			slog.Warn("skipping unreadable log file", "error", o.readErr)
			result.Diagnostics.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.Entries = append(result.Entries, o.res.Entries...)
		result.Diagnostics.Invalid = append(result.Diagnostics.Invalid, o.res.Invalid...)
		result.Diagnostics.Failures = append(result.Diagnostics.Failures, o.res.Failures...)
		for _, e := range o.res.Entries {
			projects[e.Project()] = struct{}{}
		}
	}
	result.ProjectCount = len(projects)

	if len(result.Entries) == 0 {
		return result, ErrNoData
	}

	return result, nil
}

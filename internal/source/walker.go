// Package source discovers conversation-log files and parses their lines
// into entries, keeping file/line provenance for every outcome.
package source

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
)

// LogExt identifies log files. Nothing else about file naming or directory
// layout is assumed.
const LogExt = ".jsonl"

// Walk recursively enumerates every log file under fsys. Visitation order
// is unspecified; callers must not depend on it. A failure to read one
// entry is logged as a warning and traversal continues with its siblings —
// one bad subdirectory never aborts the scan.
func Walk(ctx context.Context, fsys fs.FS) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			slog.Warn("skipping unreadable entry", "path", p, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if path.Ext(p) != LogExt {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

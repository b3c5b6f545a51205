// Package mirror walks a remote folder tree and reproduces it on the local
// filesystem. Failures of individual items are logged and counted, never
// fatal: one unreadable file must not stop the rest of the tree.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"drive-mirror/internal/drive"
	"drive-mirror/internal/logger"
)

// Source lists and fetches the remote side of a mirror run. *drive.Client
// satisfies it; tests substitute an in-memory fake.
type Source interface {
	ListChildren(ctx context.Context, folderID string) ([]drive.Entry, error)
	DownloadTo(ctx context.Context, fileID string, w io.Writer) (int64, error)
}

// Item kinds and statuses carried by Result.
const (
	KindFolder = "folder"
	KindFile   = "file"

	StatusMirrored = "mirrored"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Result describes the outcome of one item encountered during the walk.
type Result struct {
	Name   string
	Path   string // forward-slash path relative to the destination root
	Kind   string
	Status string
	Size   int64
	Err    error
}

// Stats aggregates a completed walk.
type Stats struct {
	Folders int64
	Files   int64
	Bytes   int64
	Skipped int64
	Failed  int64
}

// Summary renders the stats as a single log-friendly line.
func (s *Stats) Summary() string {
	return fmt.Sprintf("%d folders, %d files (%d bytes), %d skipped, %d failed",
		s.Folders, s.Files, s.Bytes, s.Skipped, s.Failed)
}

// Walker mirrors a remote folder tree onto the local filesystem.
type Walker struct {
	source Source

	// OnResult, when set, receives the outcome of every item. The run
	// journal and the interactive form hook in here.
	OnResult func(Result)
}

// NewWalker creates a walker reading from the given source.
func NewWalker(source Source) *Walker {
	return &Walker{source: source}
}

// pending is one remote folder waiting to be mirrored.
type pending struct {
	folderID string
	dir      string // absolute local directory
	rel      string // path relative to the destination root, "" for the root
}

// ref names the folder in logs; the root has no relative path yet.
func (p pending) ref() string {
	if p.rel == "" {
		return p.folderID
	}
	return p.rel
}

// Walk mirrors the remote tree rooted at folderID into destPath, which must
// already exist. The walk is sequential and depth-first over an explicit
// stack. Per-item failures are logged, reported and counted; the returned
// Stats always describe a completed walk.
func (w *Walker) Walk(ctx context.Context, folderID, destPath string) (*Stats, error) {
	if w.source == nil {
		return nil, errors.New("walker has no source")
	}

	stats := &Stats{}
	stack := []pending{{folderID: folderID, dir: destPath}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := w.source.ListChildren(ctx, p.folderID)
		if err != nil {
			itemErr := &ListError{Folder: p.ref(), Err: err}
			if code := drive.APIErrorCode(err); code == 403 || code == 404 {
				logger.Error("%v (folder missing or not shared with this identity)", itemErr)
			} else {
				logger.Error("%v", itemErr)
			}
			stats.Failed++
			w.report(Result{Name: p.ref(), Path: p.rel, Kind: KindFolder, Status: StatusFailed, Err: itemErr})
			continue
		}

		if len(entries) == 0 {
			logger.Info("Folder %s is empty", p.ref())
			continue
		}

		for _, entry := range entries {
			switch {
			case entry.IsFolder():
				if sub, ok := w.mirrorFolder(entry, p, stats); ok {
					stack = append(stack, sub)
				}
			case entry.IsNativeDoc():
				rel := joinRel(p.rel, sanitizeName(entry.Name))
				logger.Warning("Skipping %s: provider-native documents have no binary content", rel)
				stats.Skipped++
				w.report(Result{Name: entry.Name, Path: rel, Kind: KindFile, Status: StatusSkipped})
			default:
				w.mirrorFile(ctx, entry, p, stats)
			}
		}
	}

	return stats, nil
}

// mirrorFolder ensures the local directory for a subfolder exists and
// returns it as the next pending walk entry.
func (w *Walker) mirrorFolder(entry drive.Entry, parent pending, stats *Stats) (pending, bool) {
	name := sanitizeName(entry.Name)
	rel := joinRel(parent.rel, name)
	dir := filepath.Join(parent.dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		// Don't try to download into a folder we couldn't create.
		itemErr := &FilesystemError{Path: rel, Op: "create directory", Err: err}
		logger.Error("%v, skipping subtree", itemErr)
		stats.Failed++
		w.report(Result{Name: entry.Name, Path: rel, Kind: KindFolder, Status: StatusFailed, Err: itemErr})
		return pending{}, false
	}

	logger.Debug("Mirroring folder %s", rel)
	stats.Folders++
	w.report(Result{Name: entry.Name, Path: rel, Kind: KindFolder, Status: StatusMirrored})
	return pending{folderID: entry.ID, dir: dir, rel: rel}, true
}

// mirrorFile downloads one file into the parent's local directory.
func (w *Walker) mirrorFile(ctx context.Context, entry drive.Entry, parent pending, stats *Stats) {
	name := sanitizeName(entry.Name)
	rel := joinRel(parent.rel, name)
	path := filepath.Join(parent.dir, name)

	if _, err := os.Stat(path); err == nil {
		logger.Warning("File %s already exists, overwriting", rel)
	}

	n, err := w.downloadFile(ctx, entry.ID, path, rel)
	if err != nil {
		logger.Error("%v", err)
		stats.Failed++
		w.report(Result{Name: entry.Name, Path: rel, Kind: KindFile, Status: StatusFailed, Size: entry.Size, Err: err})
		return
	}

	logger.Info("Downloaded %s (%d bytes)", rel, n)
	stats.Files++
	stats.Bytes += n
	w.report(Result{Name: entry.Name, Path: rel, Kind: KindFile, Status: StatusMirrored, Size: n})
}

// downloadFile streams one file to path. A failed transfer removes the
// partial file so the destination never holds truncated content.
func (w *Walker) downloadFile(ctx context.Context, fileID, path, rel string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, &FilesystemError{Path: rel, Op: "create file", Err: err}
	}

	n, err := w.source.DownloadTo(ctx, fileID, f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return 0, &DownloadError{Name: rel, Err: err}
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return 0, &FilesystemError{Path: rel, Op: "close file", Err: err}
	}

	return n, nil
}

func (w *Walker) report(r Result) {
	if w.OnResult != nil {
		w.OnResult(r)
	}
}

// sanitizeName makes a remote name safe to use as a single local path
// element. Remote names may legally contain separators.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, "\x00", "")
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

func joinRel(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

package mirror

import "fmt"

// ListError reports a folder whose contents could not be listed. The walk
// skips that subtree and continues.
type ListError struct {
	Folder string
	Err    error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("failed to list folder %s: %v", e.Folder, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// DownloadError reports a file whose content transfer failed. The partial
// local copy has been removed.
type DownloadError struct {
	Name string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.Name, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// FilesystemError reports a local directory or file operation that failed.
type FilesystemError struct {
	Path string
	Op   string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

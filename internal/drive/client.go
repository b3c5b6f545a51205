package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// FolderMimeType marks an entry as a folder rather than a file.
	FolderMimeType = "application/vnd.google-apps.folder"

	// nativePrefix marks provider-native documents (Docs, Sheets,
	// shortcuts, ...) that expose no binary content to download.
	nativePrefix = "application/vnd.google-apps."

	defaultPageSize = 1000
)

// Entry is one child of a remote folder.
type Entry struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
}

// IsFolder reports whether the entry is a subfolder.
func (e Entry) IsFolder() bool {
	return e.MimeType == FolderMimeType
}

// IsNativeDoc reports whether the entry is a provider-native document that
// cannot be downloaded as-is.
func (e Entry) IsNativeDoc() bool {
	return !e.IsFolder() && strings.HasPrefix(e.MimeType, nativePrefix)
}

// Client represents an authenticated Google Drive session.
type Client struct {
	service  *drive.Service
	pageSize int64
}

// NewClient creates a new Google Drive client from session credentials.
func NewClient(ctx context.Context, ts oauth2.TokenSource) (*Client, error) {
	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{service: service, pageSize: defaultPageSize}, nil
}

// NewClientWithService wraps an existing Drive service. Tests use this to
// point the client at a fake endpoint.
func NewClientWithService(service *drive.Service) *Client {
	return &Client{service: service, pageSize: defaultPageSize}
}

// SetPageSize overrides the listing page size. The API accepts 1 to 1000.
func (c *Client) SetPageSize(n int64) {
	if n < 1 {
		n = 1
	}
	if n > 1000 {
		n = 1000
	}
	c.pageSize = n
}

// ListChildren returns every non-trashed child of a folder, consuming all
// listing pages before returning.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]Entry, error) {
	if folderID == "" {
		return nil, errors.New("folder ID is required")
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var entries []Entry
	pageToken := ""

	for {
		call := c.service.Files.List().Q(query).
			Fields("nextPageToken, files(id, name, mimeType, size)").
			PageSize(c.pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		fileList, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}

		for _, f := range fileList.Files {
			entries = append(entries, Entry{
				ID:       f.Id,
				Name:     f.Name,
				MimeType: f.MimeType,
				Size:     f.Size,
			})
		}

		if fileList.NextPageToken == "" {
			break
		}
		pageToken = fileList.NextPageToken
	}

	return entries, nil
}

// DownloadTo streams a file's content into w and returns the byte count.
func (c *Client) DownloadTo(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	resp, err := c.service.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return 0, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	return io.Copy(w, resp.Body)
}

// APIErrorCode returns the HTTP status carried by an API error, or 0 when
// err did not come from the remote API.
func APIErrorCode(err error) int {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return 0
}

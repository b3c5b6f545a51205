package driveurl

import (
	"errors"
	"testing"
)

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "plain folder link",
			url:  "https://drive.google.com/drive/folders/1A2b3C4d5E6f7G8h9I0j",
			want: "1A2b3C4d5E6f7G8h9I0j",
		},
		{
			name: "sharing suffix",
			url:  "https://drive.google.com/drive/folders/1A2b3C4d5E6f7G8h9I0j?usp=sharing",
			want: "1A2b3C4d5E6f7G8h9I0j",
		},
		{
			name: "account switch segment",
			url:  "https://drive.google.com/drive/u/0/folders/0B_underscore-dash123?usp=drive_link",
			want: "0B_underscore-dash123",
		},
		{
			name: "legacy folderview link",
			url:  "https://drive.google.com/folderview?id=1LegacyFolderId&usp=sharing",
			want: "1LegacyFolderId",
		},
		{
			name: "trailing path segment",
			url:  "https://drive.google.com/drive/folders/1A2b3C4d5E6f/view",
			want: "1A2b3C4d5E6f",
		},
		{
			name: "fragment suffix",
			url:  "https://drive.google.com/drive/folders/1A2b3C4d5E6f#section",
			want: "1A2b3C4d5E6f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractFolderID(tt.url)
			if err != nil {
				t.Fatalf("ExtractFolderID(%q) returned error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractFolderID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractFolderIDRejectsMalformed(t *testing.T) {
	urls := []string{
		"",
		"not a url",
		"https://drive.google.com/file/d/1SomeFileId/view",
		"https://drive.google.com/drive/folders/",
		"https://drive.google.com/drive/folders/?usp=sharing",
		"https://example.com/completely/unrelated",
	}

	for _, url := range urls {
		_, err := ExtractFolderID(url)
		if err == nil {
			t.Errorf("ExtractFolderID(%q) succeeded, want ParseError", url)
			continue
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("ExtractFolderID(%q) error = %T, want *ParseError", url, err)
		}
	}
}

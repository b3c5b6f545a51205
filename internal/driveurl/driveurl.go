// Package driveurl extracts folder identifiers from shared Google Drive links.
package driveurl

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports a link that does not look like a shared folder URL.
type ParseError struct {
	URL string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not a recognizable shared folder link: %q", e.URL)
}

// idPattern matches the leading identifier after a folder marker. Drive IDs
// are URL-safe base64, so the match stops at any query, fragment or path
// separator that follows.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+`)

// ExtractFolderID returns the folder identifier embedded in a shared link.
//
// Two link families are recognized: the current form
// https://drive.google.com/drive/folders/{id} (with or without an /u/<n>/
// account segment or a ?usp=sharing suffix) and the legacy form
// https://drive.google.com/folderview?id={id}. Anything else yields a
// *ParseError.
func ExtractFolderID(rawURL string) (string, error) {
	var rest string
	if _, after, found := strings.Cut(rawURL, "folders/"); found {
		rest = after
	} else if _, after, found := strings.Cut(rawURL, "folderview?id="); found {
		rest = after
	} else {
		return "", &ParseError{URL: rawURL}
	}

	id := idPattern.FindString(rest)
	if id == "" {
		return "", &ParseError{URL: rawURL}
	}
	return id, nil
}

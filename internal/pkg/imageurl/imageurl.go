// internal/pkg/imageurl/imageurl.go
package imageurl

import (
	"regexp"
	"strings"
)

var (
	drivePathID  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveQueryID = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// Normalize rewrites Google Drive share links into direct image URLs.
//
// Accepted forms:
//
//	https://drive.google.com/file/d/<ID>/view?usp=sharing
//	https://drive.google.com/open?id=<ID>
//
// Anything that is not a Drive URL is returned trimmed but otherwise
// unchanged. Empty input stays empty.
func Normalize(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "drive.google.com") {
		return trimmed
	}

	id := ""
	if m := drivePathID.FindStringSubmatch(trimmed); m != nil {
		id = m[1]
	} else if m := driveQueryID.FindStringSubmatch(trimmed); m != nil {
		id = m[1]
	}

	if id == "" {
		return trimmed
	}

	return "https://drive.google.com/uc?export=view&id=" + id
}

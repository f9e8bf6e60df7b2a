package media

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object is an uploaded file in the object store
type Object struct {
	Name        string `json:"name"`
	Bucket      string `json:"bucket"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

// ProgressFunc receives the bytes sent so far and the total size.
type ProgressFunc func(sent, total int64)

// UploadPrefix is the folder every upload lands in.
const UploadPrefix = "uploads"

// ObjectName returns a unique object path for an uploaded file.
func ObjectName(filename string) string {
	return UploadPrefix + "/" + uuid.New().String() + "-" + SanitizeFilename(filename)
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with "_".
func SanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// IsAllowedContentType accepts images and videos.
func IsAllowedContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")
}

package utils

import (
	"mime"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// allowedExtensions is the fixed set of file extensions the server will accept
// for uploads and serve as downloads: documents, images, video, audio,
// archives and web assets. Keys are lowercase without the dot; values are the
// MIME types registered for derivation, so the lookup does not depend on the
// host's /etc/mime.types.
var allowedExtensions = map[string]string{
	// Documents
	"txt":  "text/plain; charset=utf-8",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	// Images
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"svg":  "image/svg+xml",
	// Video
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"wmv":  "video/x-ms-wmv",
	"flv":  "video/x-flv",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	// Audio
	"mp3": "audio/mpeg",
	"wav": "audio/wav",
	"ogg": "audio/ogg",
	"aac": "audio/aac",
	// Archives
	"zip": "application/zip",
	"rar": "application/vnd.rar",
	"7z":  "application/x-7z-compressed",
	"tar": "application/x-tar",
	"gz":  "application/gzip",
	// Web assets
	"css":  "text/css; charset=utf-8",
	"js":   "text/javascript; charset=utf-8",
	"html": "text/html; charset=utf-8",
	"json": "application/json",
}

func init() {
	for ext, mimeType := range allowedExtensions {
		_ = mime.AddExtensionType("."+ext, mimeType)
	}
}

// SanitizeFilename strips every character that is not alphanumeric, space,
// dot, underscore or hyphen, and trims surrounding whitespace. The result
// contains no path separators, so it can never escape the uploads directory.
func SanitizeFilename(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsAllowedExtension reports whether the filename carries a dot-delimited
// suffix present in the allow-list. The check is case-insensitive. Names
// without any extension are rejected.
func IsAllowedExtension(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// MimeTypeByName derives a MIME type from the filename's extension.
// Falls back to application/octet-stream when nothing is registered.
func MimeTypeByName(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// IsAllowedMimeType reports whether the filename's extension resolves to a
// well-formed, non-empty type/subtype string. Together with the extension
// allow-list this is a defense-in-depth pair: the allow-list blocks unknown
// binary types, the MIME lookup blocks extension mismatches the list alone
// would miss.
func IsAllowedMimeType(name string) bool {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return false
	}
	slash := strings.Index(mediaType, "/")
	return slash > 0 && slash < len(mediaType)-1
}

// CheckDiskSpace reports whether the filesystem holding path has strictly
// more free bytes available than needed.
func CheckDiskSpace(path string, needed int64) (bool, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return false, err
	}
	free := int64(stat.Bavail) * int64(stat.Bsize)
	return free > needed, nil
}

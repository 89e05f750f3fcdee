package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize is the declared-size ceiling for a single attachment.
const MaxAttachmentSize = 50 * 1024 * 1024

var imageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
}

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".3gp":  "video/3gpp",
}

// AttachmentCatalog is the validated, addressable view over one
// submission's descriptors, independent of how the bytes arrived.
type AttachmentCatalog struct {
	descriptors []*AttachmentDescriptor
}

func NewAttachmentCatalog(descriptors []*AttachmentDescriptor) *AttachmentCatalog {
	return &AttachmentCatalog{descriptors: descriptors}
}

// Descriptors returns the catalog in stable decode order.
func (c *AttachmentCatalog) Descriptors() []*AttachmentDescriptor {
	return c.descriptors
}

// ByContentID returns the first descriptor carrying the given content-id.
func (c *AttachmentCatalog) ByContentID(contentID string) *AttachmentDescriptor {
	if contentID == "" {
		return nil
	}
	for _, descriptor := range c.descriptors {
		if descriptor.ContentID == contentID {
			return descriptor
		}
	}
	return nil
}

// Validate reports whether the descriptor is safe to upload. Failures are
// reasons, not errors: a rejected attachment is skipped, never fatal.
func Validate(descriptor *AttachmentDescriptor) (bool, string) {
	filename := descriptor.Filename
	if filename == "" {
		return false, "missing filename"
	}
	if strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		return false, "unsafe filename"
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageExtensions[ext]; !ok {
		if _, ok := videoExtensions[ext]; !ok {
			return false, fmt.Sprintf("unsupported file type %q", ext)
		}
	}

	if descriptor.Size > MaxAttachmentSize {
		return false, fmt.Sprintf("declared size %d exceeds limit", descriptor.Size)
	}

	return true, ""
}

// MIMETypeFor maps a filename extension to its MIME type; unknown
// extensions map to the generic binary type.
func MIMETypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if mimeType, ok := imageExtensions[ext]; ok {
		return mimeType
	}
	if mimeType, ok := videoExtensions[ext]; ok {
		return mimeType
	}
	return "application/octet-stream"
}

func IsImage(filename string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

func IsVideo(filename string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		descriptor *AttachmentDescriptor
		want       bool
		reason     string
	}{
		{"valid jpeg", &AttachmentDescriptor{Filename: "photo.jpg", Size: 1024}, true, ""},
		{"valid video", &AttachmentDescriptor{Filename: "clip.MOV", Size: 1024}, true, ""},
		{"missing filename", &AttachmentDescriptor{}, false, "missing filename"},
		{"path traversal", &AttachmentDescriptor{Filename: "../../etc/passwd.png"}, false, "unsafe filename"},
		{"path separator", &AttachmentDescriptor{Filename: `photos\vacation.jpg`}, false, "unsafe filename"},
		{"unsupported type", &AttachmentDescriptor{Filename: "malware.exe"}, false, `unsupported file type ".exe"`},
		{"no extension", &AttachmentDescriptor{Filename: "README"}, false, `unsupported file type ""`},
		{"oversize", &AttachmentDescriptor{Filename: "huge.mp4", Size: MaxAttachmentSize + 1}, false, "declared size 52428801 exceeds limit"},
		{"exactly at limit", &AttachmentDescriptor{Filename: "big.mp4", Size: MaxAttachmentSize}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Validate(tt.descriptor)

			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestMIMETypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", MIMETypeFor("photo.JPG"))
	assert.Equal(t, "video/quicktime", MIMETypeFor("clip.mov"))
	assert.Equal(t, "application/octet-stream", MIMETypeFor("notes.txt"))
}

func TestByContentID(t *testing.T) {
	first := &AttachmentDescriptor{FieldName: "attachment1", ContentID: "img1"}
	duplicate := &AttachmentDescriptor{FieldName: "attachment2", ContentID: "img1"}
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{first, duplicate})

	assert.Same(t, first, catalog.ByContentID("img1"))
	assert.Nil(t, catalog.ByContentID("missing"))
	assert.Nil(t, catalog.ByContentID(""))
}

func TestDescriptorData_PrefersRawOverBase64(t *testing.T) {
	d := &AttachmentDescriptor{Filename: "photo.jpg"}
	d.SetBase64("aGVsbG8=")
	d.SetRaw([]byte("rawbytes"))

	data, err := d.Data()

	assert.NoError(t, err)
	assert.Equal(t, []byte("rawbytes"), data)
}

func TestDescriptorData_DecodesBase64(t *testing.T) {
	d := &AttachmentDescriptor{Filename: "photo.jpg"}
	d.SetBase64("aGVsbG8=")

	data, err := d.Data()

	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDescriptorData_Errors(t *testing.T) {
	empty := &AttachmentDescriptor{Filename: "photo.jpg"}
	_, err := empty.Data()
	assert.Error(t, err)

	bad := &AttachmentDescriptor{Filename: "photo.jpg"}
	bad.SetBase64("not base64 !!!")
	_, err = bad.Data()
	assert.Error(t, err)
}

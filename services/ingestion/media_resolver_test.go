package ingestion

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/mailroom/internal/logger"
)

type fakeStorage struct {
	uploads map[string][]byte
	failAll bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if f.failAll {
		return errors.New("storage unavailable")
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) ([]byte, error) {
	return f.uploads[key], nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeStorage) GetPublicURL(key string) string {
	return "https://media.test/" + key
}

func testLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{DevMode: true})
	appLogger.InitLogger()
	return appLogger
}

func imageDescriptor(fieldName, filename, contentID string) *AttachmentDescriptor {
	d := &AttachmentDescriptor{
		FieldName:   fieldName,
		Filename:    filename,
		ContentType: "image/jpeg",
		ContentID:   contentID,
	}
	d.SetRaw([]byte("jpegdata"))
	return d
}

func TestResolve_InlineAndAttachmentPartition(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	inline := imageDescriptor("attachment1", "inline.jpg", "img1")
	standalone := imageDescriptor("attachment2", "extra.jpg", "")
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{inline, standalone})

	htmlBody := `<p>Look!</p><img src="cid:img1">`
	resolution := resolver.Resolve(context.Background(), "prof_abc", htmlBody, catalog)

	require.Len(t, resolution.MediaURLs, 2)
	assert.NotContains(t, resolution.HTML, "cid:img1")
	assert.Contains(t, resolution.HTML, resolution.MediaURLs[0])
	// the inline descriptor uploads exactly once
	assert.Len(t, storage.uploads, 2)
}

func TestResolve_InlineOrderBeforeRemaining(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	first := imageDescriptor("attachment1", "first.jpg", "aaa")
	second := imageDescriptor("attachment2", "second.jpg", "bbb")
	plain := imageDescriptor("attachment3", "plain.jpg", "")
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{plain, second, first})

	htmlBody := `<img src="cid:aaa"><img src='cid:bbb'>`
	resolution := resolver.Resolve(context.Background(), "prof_abc", htmlBody, catalog)

	require.Len(t, resolution.MediaURLs, 3)
	// inline urls come first, in document order
	assert.Contains(t, resolution.HTML, resolution.MediaURLs[0])
	assert.Contains(t, resolution.HTML, resolution.MediaURLs[1])
}

func TestResolve_AngleBracketContentID(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	inline := imageDescriptor("attachment1", "photo.jpg", "img1")
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{inline})

	resolution := resolver.Resolve(context.Background(), "prof_abc", `<img src="cid:<img1>">`, catalog)

	require.Len(t, resolution.MediaURLs, 1)
	assert.NotContains(t, resolution.HTML, "cid:")
}

func TestResolve_PrefixContentIDsStayDistinct(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	short := imageDescriptor("attachment1", "short.jpg", "img1")
	long := imageDescriptor("attachment2", "long.jpg", "img10")
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{short, long})

	htmlBody := `<img src="cid:img1"><img src="cid:img10">`
	resolution := resolver.Resolve(context.Background(), "prof_abc", htmlBody, catalog)

	require.Len(t, resolution.MediaURLs, 2)
	assert.NotContains(t, resolution.HTML, "cid:")
	// rewriting cid:img1 must not eat into the cid:img10 reference
	assert.Contains(t, resolution.HTML, `src="`+resolution.MediaURLs[0]+`"`)
	assert.Contains(t, resolution.HTML, `src="`+resolution.MediaURLs[1]+`"`)
}

func TestResolve_PayloadlessAttachmentSkipped(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	empty := &AttachmentDescriptor{FieldName: "attachment1", Filename: "photo.jpg", ContentType: "image/jpeg"}
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{empty})

	resolution := resolver.Resolve(context.Background(), "prof_abc", "", catalog)

	assert.Empty(t, resolution.MediaURLs)
	assert.Empty(t, storage.uploads)
}

func TestResolve_UnmatchedCidLeftAlone(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	catalog := NewAttachmentCatalog(nil)

	htmlBody := `<img src="cid:ghost">`
	resolution := resolver.Resolve(context.Background(), "prof_abc", htmlBody, catalog)

	assert.Empty(t, resolution.MediaURLs)
	assert.Equal(t, htmlBody, resolution.HTML)
}

func TestResolve_SkipsNonMediaAttachments(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	doc := &AttachmentDescriptor{FieldName: "attachment1", Filename: "taxes.pdf", ContentType: "application/pdf"}
	doc.SetRaw([]byte("pdfdata"))
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{doc})

	resolution := resolver.Resolve(context.Background(), "prof_abc", "", catalog)

	assert.Empty(t, resolution.MediaURLs)
	assert.Empty(t, storage.uploads)
}

func TestResolve_UploadFailureIsPartial(t *testing.T) {
	storage := newFakeStorage()
	storage.failAll = true
	resolver := NewMediaResolver(storage, testLogger())

	inline := imageDescriptor("attachment1", "photo.jpg", "img1")
	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{inline})

	htmlBody := `<img src="cid:img1">`
	resolution := resolver.Resolve(context.Background(), "prof_abc", htmlBody, catalog)

	assert.Empty(t, resolution.MediaURLs)
	// failed upload leaves the reference untouched
	assert.Contains(t, resolution.HTML, "cid:img1")
}

func TestResolve_KeyScopedToOwner(t *testing.T) {
	storage := newFakeStorage()
	resolver := NewMediaResolver(storage, testLogger())

	catalog := NewAttachmentCatalog([]*AttachmentDescriptor{imageDescriptor("attachment1", "photo.jpg", "")})

	resolution := resolver.Resolve(context.Background(), "prof_xyz", "", catalog)

	require.Len(t, resolution.MediaURLs, 1)
	for key := range storage.uploads {
		assert.True(t, strings.HasPrefix(key, "prof_xyz/email-attachments/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	}
}

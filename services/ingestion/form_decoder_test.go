package ingestion

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildForm(t *testing.T, fields map[string]string, files map[string][]byte) *multipart.Form {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for fieldName, content := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fieldName+`.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func TestDecode_BasicFields(t *testing.T) {
	decoder := NewFormDecoder(testLogger())
	form := buildForm(t, map[string]string{
		"to":         " memory@example.com ",
		"from":       "Jane Doe <JANE@Example.com>",
		"subject":    "Memory for Alice: park day",
		"text":       "We went to the park.",
		"html":       "<p>We went to the park.</p>",
		"SPF":        "pass",
		"message-id": "<abc123@mail.example.com>",
	}, nil)

	submission := decoder.Decode(context.Background(), form)

	msg := submission.Message
	assert.Equal(t, "memory@example.com", msg.To)
	assert.Equal(t, "jane@example.com", msg.From)
	assert.Equal(t, "Memory for Alice: park day", msg.Subject)
	assert.Equal(t, "We went to the park.", msg.Text)
	assert.Equal(t, "abc123@mail.example.com", msg.MessageID)
	assert.Empty(t, submission.Attachments)
}

func TestDecode_AttachmentInfoMergedWithFileParts(t *testing.T) {
	decoder := NewFormDecoder(testLogger())
	form := buildForm(t, map[string]string{
		"to":              "memory@example.com",
		"from":            "jane@example.com",
		"attachments":     "1",
		"attachment-info": `{"attachment1":{"filename":"original.jpg","type":"image/jpeg","content-id":"img1"}}`,
	}, map[string][]byte{
		"attachment1": []byte("jpegbytes"),
	})

	submission := decoder.Decode(context.Background(), form)

	require.Len(t, submission.Attachments, 1)
	descriptor := submission.Attachments[0]
	// the binary part's filename wins over the metadata blob's
	assert.Equal(t, "attachment1.jpg", descriptor.Filename)
	assert.Equal(t, "image/jpeg", descriptor.ContentType)
	assert.Equal(t, "img1", descriptor.ContentID)

	data, err := descriptor.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), data)
}

func TestDecode_MalformedAttachmentInfoDegrades(t *testing.T) {
	decoder := NewFormDecoder(testLogger())
	form := buildForm(t, map[string]string{
		"to":              "memory@example.com",
		"from":            "jane@example.com",
		"attachment-info": `{not json`,
	}, nil)

	submission := decoder.Decode(context.Background(), form)

	assert.Empty(t, submission.Attachments)
}

func TestDecode_FilePartWithoutMetadata(t *testing.T) {
	decoder := NewFormDecoder(testLogger())
	form := buildForm(t, map[string]string{
		"to":   "memory@example.com",
		"from": "jane@example.com",
	}, map[string][]byte{
		"attachment1": []byte("one"),
		"attachment2": []byte("two"),
	})

	submission := decoder.Decode(context.Background(), form)

	require.Len(t, submission.Attachments, 2)
	assert.Equal(t, "attachment1", submission.Attachments[0].FieldName)
	assert.Equal(t, "attachment2", submission.Attachments[1].FieldName)
}

func TestDecode_RawMimeMode(t *testing.T) {
	raw := strings.Join([]string{
		"From: Jane Doe <jane@example.com>",
		"To: memory@example.com",
		"Subject: Memory for Alice: beach trip",
		"Message-Id: <raw42@mail.example.com>",
		"Content-Type: text/plain",
		"",
		"Sandcastles all afternoon.",
	}, "\r\n")

	decoder := NewFormDecoder(testLogger())
	form := buildForm(t, map[string]string{"email": raw}, nil)

	submission := decoder.Decode(context.Background(), form)

	msg := submission.Message
	assert.Equal(t, "jane@example.com", msg.From)
	assert.Equal(t, "memory@example.com", msg.To)
	assert.Equal(t, "Memory for Alice: beach trip", msg.Subject)
	assert.Equal(t, "raw42@mail.example.com", msg.MessageID)
	assert.Contains(t, msg.Text, "Sandcastles all afternoon.")
}

func TestParseAttachmentCount(t *testing.T) {
	assert.Equal(t, 3, parseAttachmentCount("3"))
	assert.Equal(t, 0, parseAttachmentCount(""))
	assert.Equal(t, 0, parseAttachmentCount("many"))
	assert.Equal(t, 0, parseAttachmentCount("-2"))
}

func TestSortAttachmentFields(t *testing.T) {
	fields := []string{"attachment10", "attachment2", "attachment1"}

	sortAttachmentFields(fields)

	assert.Equal(t, []string{"attachment1", "attachment2", "attachment10"}, fields)
}

package ingestion

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/opentracing/opentracing-go"

	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/internal/utils"
)

const (
	attachmentFieldPrefix = "attachment"
	rawMimeField          = "email"
)

// attachmentInfo mirrors the relay's attachment-info JSON: a map of form
// field name to descriptor, bytes excluded.
type attachmentInfo struct {
	Filename  string `json:"filename"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	ContentID string `json:"content-id"`
	Size      int64  `json:"size"`
	Content   string `json:"content"` // base64, present in some relay configs
}

// DecodedSubmission is the output of one decode: the normalized message
// plus the attachment descriptors in stable field-name order.
type DecodedSubmission struct {
	Message     InboundEmailMessage
	Attachments []*AttachmentDescriptor
}

// FormDecoder turns the relay's multipart form into a normalized message.
// Decoding never fails on malformed optional fields; they degrade to
// empty values with a logged warning.
type FormDecoder struct {
	log logger.Logger
}

func NewFormDecoder(log logger.Logger) *FormDecoder {
	return &FormDecoder{log: log}
}

func (d *FormDecoder) Decode(ctx context.Context, form *multipart.Form) *DecodedSubmission {
	span, ctx := opentracing.StartSpanFromContext(ctx, "FormDecoder.Decode")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	value := func(key string) string {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return values[0]
		}
		return ""
	}

	msg := InboundEmailMessage{
		To:         strings.TrimSpace(value("to")),
		From:       utils.ExtractEmailAddress(value("from")),
		Subject:    value("subject"),
		Text:       value("text"),
		HTML:       value("html"),
		Envelope:   value("envelope"),
		Charsets:   value("charsets"),
		SPF:        value("SPF"),
		DKIM:       value("dkim"),
		MessageID:  utils.NormalizeMessageID(value("message-id")),
		InReplyTo:  utils.NormalizeMessageID(value("in-reply-to")),
		References: value("references"),
	}

	submission := &DecodedSubmission{Message: msg}

	if raw := value(rawMimeField); raw != "" {
		d.decodeRawMime(ctx, raw, submission)
		return submission
	}

	declaredCount := parseAttachmentCount(value("attachments"))
	span.LogKV("attachments.declared", declaredCount)

	descriptors := d.seedFromMetadata(value("attachment-info"))
	descriptors = d.mergeFileParts(form, descriptors)
	submission.Attachments = descriptors

	return submission
}

// parseAttachmentCount treats anything that is not a non-negative integer
// as zero.
func parseAttachmentCount(raw string) int {
	count, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || count < 0 {
		return 0
	}
	return count
}

// seedFromMetadata builds initial descriptors from the attachment-info
// JSON blob. Malformed JSON degrades to an empty set.
func (d *FormDecoder) seedFromMetadata(metadata string) []*AttachmentDescriptor {
	if metadata == "" {
		return nil
	}

	var info map[string]attachmentInfo
	if err := json.Unmarshal([]byte(metadata), &info); err != nil {
		d.log.Warnf("Ignoring malformed attachment-info metadata: %v", err)
		return nil
	}

	// Stable order: the relay names fields attachment1..attachmentN, so a
	// plain sort keeps catalog order deterministic.
	fieldNames := make([]string, 0, len(info))
	for fieldName := range info {
		fieldNames = append(fieldNames, fieldName)
	}
	sortAttachmentFields(fieldNames)

	descriptors := make([]*AttachmentDescriptor, 0, len(info))
	for _, fieldName := range fieldNames {
		meta := info[fieldName]
		filename := meta.Filename
		if filename == "" {
			filename = meta.Name
		}
		descriptor := &AttachmentDescriptor{
			FieldName:   fieldName,
			Filename:    filename,
			ContentType: meta.Type,
			Size:        meta.Size,
			ContentID:   meta.ContentID,
		}
		if meta.Content != "" {
			descriptor.SetBase64(meta.Content)
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors
}

// mergeFileParts folds binary file parts into the seeded descriptors,
// keyed by field name. The binary part's filename, type and size win over
// the metadata blob's.
func (d *FormDecoder) mergeFileParts(form *multipart.Form, descriptors []*AttachmentDescriptor) []*AttachmentDescriptor {
	byField := make(map[string]*AttachmentDescriptor, len(descriptors))
	for _, descriptor := range descriptors {
		byField[descriptor.FieldName] = descriptor
	}

	fieldNames := make([]string, 0, len(form.File))
	for fieldName := range form.File {
		if strings.HasPrefix(fieldName, attachmentFieldPrefix) {
			fieldNames = append(fieldNames, fieldName)
		}
	}
	sortAttachmentFields(fieldNames)

	for _, fieldName := range fieldNames {
		headers := form.File[fieldName]
		if len(headers) == 0 {
			continue
		}
		header := headers[0]

		data, err := readFilePart(header)
		if err != nil {
			d.log.Warnf("Failed to read attachment part %s: %v", fieldName, err)
			continue
		}

		descriptor, exists := byField[fieldName]
		if !exists {
			descriptor = &AttachmentDescriptor{FieldName: fieldName}
			byField[fieldName] = descriptor
			descriptors = append(descriptors, descriptor)
		}

		if header.Filename != "" {
			descriptor.Filename = header.Filename
		}
		if contentType := header.Header.Get("Content-Type"); contentType != "" {
			descriptor.ContentType = contentType
		}
		descriptor.Size = header.Size
		descriptor.SetRaw(data)
	}

	return descriptors
}

// decodeRawMime handles the relay's raw mode, where the whole unparsed
// MIME message is posted as a single form field.
func (d *FormDecoder) decodeRawMime(ctx context.Context, raw string, submission *DecodedSubmission) {
	span, _ := opentracing.StartSpanFromContext(ctx, "FormDecoder.decodeRawMime")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	envelope, err := enmime.ReadEnvelope(strings.NewReader(raw))
	if err != nil {
		d.log.Warnf("Failed to parse raw MIME submission: %v", err)
		tracing.TraceErr(span, err)
		return
	}

	msg := &submission.Message
	if msg.Subject == "" {
		msg.Subject = envelope.GetHeader("Subject")
	}
	if msg.From == "" {
		msg.From = utils.ExtractEmailAddress(envelope.GetHeader("From"))
	}
	if msg.To == "" {
		msg.To = strings.TrimSpace(envelope.GetHeader("To"))
	}
	if msg.MessageID == "" {
		msg.MessageID = utils.NormalizeMessageID(envelope.GetHeader("Message-Id"))
	}
	if msg.InReplyTo == "" {
		msg.InReplyTo = utils.NormalizeMessageID(envelope.GetHeader("In-Reply-To"))
	}
	if msg.References == "" {
		msg.References = envelope.GetHeader("References")
	}
	msg.Text = envelope.Text
	msg.HTML = envelope.HTML

	index := 0
	appendPart := func(part *enmime.Part) {
		if part == nil || len(part.Content) == 0 {
			return
		}
		index++
		descriptor := &AttachmentDescriptor{
			FieldName:   attachmentFieldPrefix + strconv.Itoa(index),
			Filename:    part.FileName,
			ContentType: part.ContentType,
			Size:        int64(len(part.Content)),
			ContentID:   strings.Trim(part.ContentID, "<>"),
		}
		descriptor.SetRaw(part.Content)
		submission.Attachments = append(submission.Attachments, descriptor)
	}

	// Inline parts first so the catalog order matches HTML appearance.
	for _, part := range envelope.Inlines {
		appendPart(part)
	}
	for _, part := range envelope.Attachments {
		appendPart(part)
	}
	for _, part := range envelope.OtherParts {
		appendPart(part)
	}
}

func readFilePart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// sortAttachmentFields orders attachment field names numerically
// (attachment2 before attachment10), falling back to lexicographic order
// for anything that does not follow the relay's naming.
func sortAttachmentFields(fields []string) {
	numeric := func(field string) (int, bool) {
		suffix := strings.TrimPrefix(field, attachmentFieldPrefix)
		n, err := strconv.Atoi(suffix)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	sort.Slice(fields, func(i, j int) bool {
		a, aOK := numeric(fields[i])
		b, bOK := numeric(fields[j])
		if aOK && bOK {
			return a < b
		}
		return fields[i] < fields[j]
	})
}

package ingestion

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/opentracing/opentracing-go"

	"github.com/hearthside/mailroom/interfaces"
	"github.com/hearthside/mailroom/internal/logger"
	"github.com/hearthside/mailroom/internal/tracing"
	"github.com/hearthside/mailroom/internal/utils"
)

// cidRefRe matches cid references in HTML: src="cid:xxx", src='cid:xxx',
// src=cid:xxx and src="cid:<xxx>". The content-id runs to the closing
// quote, bracket or whitespace, so one id never matches inside another.
var cidRefRe = regexp.MustCompile(`(src=["']?)cid:<?([^"'>\s]+)>?(["']?)`)

// MediaResolver turns a submission's attachments into durable URLs in two
// fixed phases: inline cid references in HTML-appearance order first,
// then the remaining image/video attachments in catalog order. The order
// and the consumed-set are a contract, not an optimization: a content-id
// placed inline must never upload a second time as a standalone file.
type MediaResolver struct {
	storage interfaces.StorageService
	log     logger.Logger
}

func NewMediaResolver(storage interfaces.StorageService, log logger.Logger) *MediaResolver {
	return &MediaResolver{storage: storage, log: log}
}

func (r *MediaResolver) Resolve(ctx context.Context, ownerID string, htmlBody string, catalog *AttachmentCatalog) MediaResolution {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MediaResolver.Resolve")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	tracing.TagEntity(span, ownerID)

	resolution := MediaResolution{HTML: htmlBody}
	consumed := make(map[*AttachmentDescriptor]bool)

	r.resolveInline(ctx, ownerID, catalog, &resolution, consumed)
	r.resolveRemaining(ctx, ownerID, catalog, &resolution, consumed)

	span.LogKV("media.count", len(resolution.MediaURLs))
	return resolution
}

// resolveInline uploads every referenced attachment and rewrites its cid
// reference to the durable URL. Unmatched content-ids stay untouched; the
// image simply fails to render downstream.
func (r *MediaResolver) resolveInline(ctx context.Context, ownerID string, catalog *AttachmentCatalog, resolution *MediaResolution, consumed map[*AttachmentDescriptor]bool) {
	matches := cidRefRe.FindAllStringSubmatch(resolution.HTML, -1)
	seen := make(map[string]bool, len(matches))

	for _, match := range matches {
		contentID := match[2]
		if seen[contentID] {
			continue
		}
		seen[contentID] = true

		descriptor := catalog.ByContentID(contentID)
		if descriptor == nil {
			continue
		}

		url := r.upload(ctx, ownerID, descriptor)
		if url == "" {
			continue
		}

		resolution.MediaURLs = append(resolution.MediaURLs, url)
		resolution.HTML = rewriteCidReferences(resolution.HTML, contentID, url)
		consumed[descriptor] = true
	}
}

// resolveRemaining uploads attachments that were not placed inline.
// Non-media descriptors are skipped without comment.
func (r *MediaResolver) resolveRemaining(ctx context.Context, ownerID string, catalog *AttachmentCatalog, resolution *MediaResolution, consumed map[*AttachmentDescriptor]bool) {
	for _, descriptor := range catalog.Descriptors() {
		if consumed[descriptor] {
			continue
		}
		if !IsImage(descriptor.Filename) && !IsVideo(descriptor.Filename) {
			continue
		}

		url := r.upload(ctx, ownerID, descriptor)
		if url == "" {
			continue
		}
		resolution.MediaURLs = append(resolution.MediaURLs, url)
	}
}

// upload pushes one attachment to storage and returns its durable URL,
// or "" when the attachment is invalid, payload-less or the transfer
// failed. A single failure never aborts the batch.
func (r *MediaResolver) upload(ctx context.Context, ownerID string, descriptor *AttachmentDescriptor) string {
	span, ctx := opentracing.StartSpanFromContext(ctx, "MediaResolver.upload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	if ok, reason := Validate(descriptor); !ok {
		r.log.Warnf("Skipping attachment %q: %s", descriptor.Filename, reason)
		span.LogKV("skipped", reason)
		return ""
	}

	if !descriptor.HasPayload() {
		r.log.Warnf("Skipping attachment %q: no payload", descriptor.Filename)
		span.LogKV("skipped", "no payload")
		return ""
	}

	data, err := descriptor.Data()
	if err != nil {
		r.log.Warnf("Skipping attachment %q: %v", descriptor.Filename, err)
		tracing.TraceErr(span, err)
		return ""
	}

	key := storageKey(ownerID, descriptor.Filename)
	contentType := descriptor.ContentType
	if contentType == "" {
		contentType = MIMETypeFor(descriptor.Filename)
	}

	if err := r.storage.Upload(ctx, key, data, contentType); err != nil {
		r.log.Errorf("Failed to upload attachment %q: %v", descriptor.Filename, err)
		tracing.TraceErr(span, err)
		return ""
	}

	return r.storage.GetPublicURL(key)
}

// storageKey builds a collision-free destination path scoped to the
// owning entity.
func storageKey(ownerID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/email-attachments/%d-%s%s",
		ownerID, utils.Now().UnixMilli(), utils.GenerateNanoID(10), ext)
}

// rewriteCidReferences replaces every reference to the given content-id,
// covering the quoted, unquoted and angle-bracketed spellings. Only whole
// references are rewritten: a content-id that is a prefix of another one
// must leave the longer reference intact.
func rewriteCidReferences(htmlBody, contentID, url string) string {
	return cidRefRe.ReplaceAllStringFunc(htmlBody, func(ref string) string {
		parts := cidRefRe.FindStringSubmatch(ref)
		if parts[2] != contentID {
			return ref
		}
		return parts[1] + url + parts[3]
	})
}

// Package infographics locates slide-deck attachments for taxonomy paths and
// serves their downloads, page counts and extracted slides.
package infographics

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/jobarch/pkg/storage"
)

// Namespace seeds attachment IDs. IDs are stable for a given storage key.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:jobarch:attachments"))

// Attachment is one deck file found in an attachment directory.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Stem        string    `json:"stem"`
	Source      string    `json:"source"`
	Ext         string    `json:"ext"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	ModifiedAt  time.Time `json:"modified_at"`
	PageCount   *int      `json:"page_count,omitempty"`
	SlideCount  *int      `json:"slide_count,omitempty"`
}

// Title returns the filename stem with its original casing.
func (a Attachment) Title() string {
	return strings.TrimSuffix(a.Name, path.Ext(a.Name))
}

// IsDeck reports whether the attachment is a slide deck that slides can be extracted from.
func (a Attachment) IsDeck() bool {
	return a.Ext == ".pptx"
}

// IsPDF reports whether the attachment is a PDF document.
func (a Attachment) IsPDF() bool {
	return a.Ext == ".pdf"
}

// NewAttachment builds an Attachment from storage metadata found under source.
func NewAttachment(source string, meta storage.BlobMeta) Attachment {
	name := path.Base(meta.Key)
	ext := strings.ToLower(path.Ext(name))
	return Attachment{
		ID:          uuid.NewSHA1(Namespace, []byte(meta.Key)),
		Key:         meta.Key,
		Name:        name,
		Stem:        strings.ToLower(strings.TrimSuffix(name, path.Ext(name))),
		Source:      source,
		Ext:         ext,
		ContentType: meta.ContentType,
		SizeBytes:   meta.ContentLength,
		ModifiedAt:  meta.LastModified,
	}
}

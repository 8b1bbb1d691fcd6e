package infographics

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/slides"
	"github.com/JaimeStill/jobarch/pkg/storage"
)

// System defines the public contract for attachment operations.
type System interface {
	Handler() *Handler

	Index(ctx context.Context) ([]Attachment, error)
	ForPath(ctx context.Context, path profiles.Path) ([]Attachment, error)
	Find(ctx context.Context, id uuid.UUID) (*Attachment, error)
	Open(ctx context.Context, id uuid.UUID) (*Attachment, *storage.BlobResult, error)
	Describe(ctx context.Context, id uuid.UUID) (*Attachment, error)
	Slides(ctx context.Context, id uuid.UUID) (*Attachment, []slides.Slide, error)
}

// Observer receives download and extraction outcomes.
type Observer interface {
	ObserveDownload(ext string)
	ObserveExtraction(err error)
}

type nopObserver struct{}

func (nopObserver) ObserveDownload(string)  {}
func (nopObserver) ObserveExtraction(error) {}

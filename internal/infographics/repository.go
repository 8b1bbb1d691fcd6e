package infographics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/jobarch/internal/profiles"
	"github.com/JaimeStill/jobarch/pkg/cache"
	"github.com/JaimeStill/jobarch/pkg/slides"
	"github.com/JaimeStill/jobarch/pkg/storage"
)

// Config selects the directories and file types indexed.
type Config struct {
	Dirs            []string
	Extensions      []string
	MaxPreviewBytes int64
}

type repo struct {
	storage  storage.System
	listings *cache.Cache[[]storage.BlobMeta]
	cfg      Config
	observer Observer
	logger   *slog.Logger
}

// New creates an attachment system. Directory listings are memoized in listings
// keyed by the storage URI of each directory. A nil observer discards outcomes.
func New(
	store storage.System,
	listings *cache.Cache[[]storage.BlobMeta],
	cfg Config,
	observer Observer,
	logger *slog.Logger,
) System {
	if observer == nil {
		observer = nopObserver{}
	}
	return &repo{
		storage:  store,
		listings: listings,
		cfg:      cfg,
		observer: observer,
		logger:   logger.With("system", "infographics"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.observer, r.logger)
}

// Index lists every attachment with a configured extension, sorted by key.
// Missing directories contribute nothing.
func (r *repo) Index(ctx context.Context) ([]Attachment, error) {
	seen := make(map[string]bool)
	files := []Attachment{}

	for _, dir := range r.cfg.Dirs {
		metas, err := r.listing(ctx, dir)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				r.logger.Warn("attachment directory not found", "dir", dir)
				continue
			}
			return nil, err
		}

		for _, m := range metas {
			if seen[m.Key] || !r.indexed(m.Key) {
				continue
			}
			seen[m.Key] = true
			files = append(files, NewAttachment(dir, m))
		}
	}

	slices.SortFunc(files, func(a, b Attachment) int {
		return strings.Compare(a.Key, b.Key)
	})
	return files, nil
}

func (r *repo) ForPath(ctx context.Context, path profiles.Path) ([]Attachment, error) {
	files, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	return Match(files, path.Segments()...), nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	files, err := r.Index(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Open returns the attachment and an open stream of its content. The caller closes Body.
func (r *repo) Open(ctx context.Context, id uuid.UUID) (*Attachment, *storage.BlobResult, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	res, err := r.storage.Download(ctx, a.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", a.Key, err)
	}
	return a, res, nil
}

// Describe adds the page count of a PDF or the slide count of a deck.
// Counting failures leave the counts unset.
func (r *repo) Describe(ctx context.Context, id uuid.UUID) (*Attachment, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsPDF() && !a.IsDeck() {
		return a, nil
	}

	data, err := r.read(ctx, a)
	if err != nil {
		r.logger.Warn("attachment unreadable", "key", a.Key, "error", err)
		return a, nil
	}

	switch {
	case a.IsPDF():
		count, err := api.PageCount(bytes.NewReader(data), nil)
		if err != nil {
			r.logger.Warn("pdf page count failed", "key", a.Key, "error", err)
			return a, nil
		}
		a.PageCount = &count
	case a.IsDeck():
		s, err := slides.Extract(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			r.logger.Warn("slide count failed", "key", a.Key, "error", err)
			return a, nil
		}
		count := len(s)
		a.SlideCount = &count
	}
	return a, nil
}

// Slides extracts the slides of a deck. Any read or parse failure yields an empty
// slice; only an unknown id is an error.
func (r *repo) Slides(ctx context.Context, id uuid.UUID) (*Attachment, []slides.Slide, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !a.IsDeck() {
		return a, []slides.Slide{}, nil
	}

	data, err := r.read(ctx, a)
	if err == nil {
		var s []slides.Slide
		s, err = slides.Extract(bytes.NewReader(data), int64(len(data)))
		if err == nil {
			r.observer.ObserveExtraction(nil)
			return a, s, nil
		}
	}

	r.observer.ObserveExtraction(err)
	r.logger.Warn("slide extraction failed", "key", a.Key, "error", err)
	return a, []slides.Slide{}, nil
}

// listing loads detached from ctx; the result is shared with concurrent waiters.
func (r *repo) listing(ctx context.Context, dir string) ([]storage.BlobMeta, error) {
	return r.listings.Get(r.storage.URI(dir), func(string) ([]storage.BlobMeta, error) {
		return r.storage.List(context.WithoutCancel(ctx), dir)
	})
}

func (r *repo) indexed(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range r.cfg.Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (r *repo) read(ctx context.Context, a *Attachment) ([]byte, error) {
	if r.cfg.MaxPreviewBytes > 0 && a.SizeBytes > r.cfg.MaxPreviewBytes {
		return nil, fmt.Errorf("%s exceeds preview limit of %d bytes", a.Name, r.cfg.MaxPreviewBytes)
	}

	res, err := r.storage.Download(ctx, a.Key)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return io.ReadAll(res.Body)
}

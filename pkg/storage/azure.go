package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/jobarch/pkg/lifecycle"
)

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// newAzure creates the Azure client without contacting the service.
// The container is verified when Start runs.
func newAzure(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azureClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage", "provider", ProviderAzure),
	}, nil
}

func azureClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	var cred azcore.TokenCredential
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default azure credential: %w", err)
	}
	return azblob.NewClient(cfg.AccountURL, cred, nil)
}

func (a *azure) Provider() string {
	return ProviderAzure
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")

	lc.OnStartup(func() {
		container := a.client.ServiceClient().NewContainerClient(a.container)
		if _, err := container.GetProperties(lc.Context(), nil); err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				a.logger.Warn("storage container missing", "container", a.container)
				return
			}
			a.logger.Error("storage container check failed", "error", err)
			return
		}

		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) URI(key string) string {
	cleaned, err := CleanKey(key)
	if err != nil {
		cleaned = ""
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(a.client.URL(), "/"), a.container, cleaned)
}

func (a *azure) List(ctx context.Context, prefix string) ([]BlobMeta, error) {
	p, err := CleanPrefix(prefix)
	if err != nil {
		return nil, err
	}

	opts := &azblob.ListBlobsFlatOptions{}
	if p != "" {
		opts.Prefix = &p
	}

	var metas []BlobMeta
	pager := a.client.NewListBlobsFlatPager(a.container, opts)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			if bloberror.HasCode(err, bloberror.ContainerNotFound) {
				return nil, fmt.Errorf("list %s: %w", prefix, ErrNotFound)
			}
			return nil, fmt.Errorf("list %s: %w: %w", prefix, ErrUnavailable, err)
		}
		if resp.Segment == nil {
			continue
		}

		for _, item := range resp.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			meta := BlobMeta{Key: *item.Name}
			if props := item.Properties; props != nil {
				meta.ContentType = deref(props.ContentType)
				meta.ContentLength = deref(props.ContentLength)
				meta.LastModified = deref(props.LastModified)
			}
			metas = append(metas, meta)
		}
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Key < metas[j].Key
	})
	return metas, nil
}

func (a *azure) Find(ctx context.Context, key string) (*BlobMeta, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(cleaned)

	props, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blob properties %s: %w: %w", cleaned, ErrUnavailable, err)
	}

	return &BlobMeta{
		Key:           cleaned,
		ContentType:   deref(props.ContentType),
		ContentLength: deref(props.ContentLength),
		LastModified:  deref(props.LastModified),
	}, nil
}

func (a *azure) Download(ctx context.Context, key string) (*BlobResult, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, cleaned, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w: %w", cleaned, ErrUnavailable, err)
	}

	return &BlobResult{
		Body:          resp.Body,
		ContentType:   deref(resp.ContentType),
		ContentLength: deref(resp.ContentLength),
	}, nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := a.Find(ctx, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func deref[T string | int64 | time.Time](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

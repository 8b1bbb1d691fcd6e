package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/jobarch/pkg/formatting"
)

const (
	EnvAttachmentsDirs           = "JOBARCH_ATTACHMENTS_DIRS"
	EnvAttachmentsExtensions     = "JOBARCH_ATTACHMENTS_EXTENSIONS"
	EnvAttachmentsMaxPreviewSize = "JOBARCH_ATTACHMENTS_MAX_PREVIEW_SIZE"
)

// AttachmentsConfig lists the storage prefixes scanned for infographic decks.
type AttachmentsConfig struct {
	Dirs           []string `toml:"dirs"`
	Extensions     []string `toml:"extensions"`
	MaxPreviewSize string   `toml:"max_preview_size"`
}

// MaxPreviewBytes returns MaxPreviewSize in bytes. Larger decks are not extracted.
func (c *AttachmentsConfig) MaxPreviewBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxPreviewSize)
	if err != nil {
		return 50 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AttachmentsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AttachmentsConfig) Merge(overlay *AttachmentsConfig) {
	if overlay.Dirs != nil {
		c.Dirs = overlay.Dirs
	}
	if overlay.Extensions != nil {
		c.Extensions = overlay.Extensions
	}
	if overlay.MaxPreviewSize != "" {
		c.MaxPreviewSize = overlay.MaxPreviewSize
	}
}

func (c *AttachmentsConfig) loadDefaults() {
	if len(c.Dirs) == 0 {
		c.Dirs = []string{"ppts"}
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".pptx", ".pdf"}
	}
	if c.MaxPreviewSize == "" {
		c.MaxPreviewSize = "50MB"
	}
}

func (c *AttachmentsConfig) loadEnv() {
	if v := os.Getenv(EnvAttachmentsDirs); v != "" {
		c.Dirs = splitList(v)
	}
	if v := os.Getenv(EnvAttachmentsExtensions); v != "" {
		c.Extensions = splitList(v)
	}
	if v := os.Getenv(EnvAttachmentsMaxPreviewSize); v != "" {
		c.MaxPreviewSize = v
	}
}

func (c *AttachmentsConfig) validate() error {
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if _, err := formatting.ParseBytes(c.MaxPreviewSize); err != nil {
		return fmt.Errorf("invalid max_preview_size: %w", err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package rendering

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/specterworks/storefront/internal/application/storefront"
	"go.uber.org/zap"
)

var _ storefront.TemplateSource = (*TemplateStore)(nil)

// DefaultBaseTemplatePath is where the storefront base template is looked
// up in the asset source.
const DefaultBaseTemplatePath = "/templates/game.html"

// maxTemplateSize bounds how much of an asset is read as a template.
const maxTemplateSize = 2 << 20

// TemplateStore resolves the base template. It fetches from the asset
// source on every call and falls back to the embedded compact page.
type TemplateStore struct {
	assets storefront.AssetSource
	path   string
	logger *zap.Logger
}

// NewTemplateStore creates a TemplateStore. assets may be nil.
func NewTemplateStore(assets storefront.AssetSource, path string, logger *zap.Logger) *TemplateStore {
	if path == "" {
		path = DefaultBaseTemplatePath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateStore{
		assets: assets,
		path:   path,
		logger: logger,
	}
}

// Base returns the asset template when it is available and valid,
// otherwise the built-in one.
func (s *TemplateStore) Base(ctx context.Context) *storefront.Template {
	if s.assets == nil {
		return BuiltinTemplate()
	}

	tmpl, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, storefront.ErrAssetNotFound) {
			s.logger.Debug("Base template not found, using built-in", zap.String("path", s.path))
		} else {
			s.logger.Warn("Base template unavailable, using built-in",
				zap.String("path", s.path),
				zap.String("source", s.assets.Name()),
				zap.Error(err),
			)
		}
		return BuiltinTemplate()
	}
	return tmpl
}

func (s *TemplateStore) load(ctx context.Context) (*storefront.Template, error) {
	asset, err := s.assets.Open(ctx, s.path)
	if err != nil {
		return nil, err
	}
	defer asset.Body.Close()

	data, err := io.ReadAll(io.LimitReader(asset.Body, maxTemplateSize+1))
	if err != nil {
		return nil, NewTemplateError(ErrCodeTemplateUnavailable, "failed to read base template", err)
	}
	if len(data) > maxTemplateSize {
		return nil, NewTemplateError(ErrCodeTemplateTooLarge,
			fmt.Sprintf("base template exceeds %d bytes", maxTemplateSize), nil)
	}

	content := string(data)
	if err := ValidateTemplate(content); err != nil {
		return nil, err
	}

	return &storefront.Template{
		ID:      generateTemplateID(storefront.TemplateOriginAssets, s.path),
		Origin:  storefront.TemplateOriginAssets,
		Path:    s.path,
		Content: content,
	}, nil
}

// ValidateTemplate checks that content is a complete document carrying
// every required slot.
func ValidateTemplate(content string) error {
	head := strings.ToLower(strings.TrimSpace(content))
	if !strings.HasPrefix(head, "<!doctype html") || !strings.Contains(head, "</html>") {
		return NewTemplateError(ErrCodeTemplateIncomplete, "base template is not a complete HTML document", nil)
	}
	for _, slot := range RequiredSlots {
		if !strings.Contains(content, slot) {
			return NewTemplateError(ErrCodeTemplateMissingSlot, "base template is missing slot "+slot, nil)
		}
	}
	return nil
}

// generateTemplateID derives a stable UUID v5 from origin and path.
func generateTemplateID(origin storefront.TemplateOrigin, path string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // URL namespace
	return uuid.NewSHA1(namespace, []byte("storefront-template:"+string(origin)+":"+path)).String()
}

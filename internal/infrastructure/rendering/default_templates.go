package rendering

import (
	"embed"
	"fmt"

	"github.com/specterworks/storefront/internal/application/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

const builtinTemplatePath = "templates/compact_page.html"

var builtinContent = mustLoadTemplateContent(builtinTemplatePath)

// LoadTemplateContent reads an embedded template.
func LoadTemplateContent(path string) (string, error) {
	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded template %s: %w", path, err)
	}
	return string(data), nil
}

func mustLoadTemplateContent(path string) string {
	content, err := LoadTemplateContent(path)
	if err != nil {
		panic(err)
	}
	return content
}

// BuiltinTemplate returns the embedded compact page.
func BuiltinTemplate() *storefront.Template {
	return &storefront.Template{
		ID:      generateTemplateID(storefront.TemplateOriginBuiltin, builtinTemplatePath),
		Origin:  storefront.TemplateOriginBuiltin,
		Path:    builtinTemplatePath,
		Content: builtinContent,
	}
}

// Package views holds the console's page templates.
package views

import (
	"embed"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/spec-kit/ticket-console/internal/domain"
	"github.com/spec-kit/ticket-console/internal/render"
)

//go:embed *.html
var files embed.FS

const timeLayout = "02/01/2006 15:04"

// NewEngine loads the embedded templates. Descriptions and comments go
// through md before they reach a page.
func NewEngine(md *render.Markdown) *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.AddFunc("markdown", md.Safe)
	engine.AddFunc("formatTime", formatTime)
	engine.AddFunc("categoryNames", categoryNames)
	engine.AddFunc("subcategoryNames", subcategoryNames)
	return engine
}

func formatTime(v any) string {
	var t time.Time
	switch value := v.(type) {
	case domain.Timestamp:
		t = value.Time
	case time.Time:
		t = value
	default:
		return ""
	}
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func categoryNames(categories []domain.Category) string {
	names := make([]string, 0, len(categories))
	for _, category := range categories {
		names = append(names, category.Name)
	}
	return strings.Join(names, ", ")
}

func subcategoryNames(subcategories []domain.Subcategory) string {
	names := make([]string, 0, len(subcategories))
	for _, sub := range subcategories {
		names = append(names, sub.Name)
	}
	return strings.Join(names, ", ")
}

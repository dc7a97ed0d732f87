// Package web serves the single-page upload form.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
)

//go:embed static/index.html
var staticFiles embed.FS

// PageOptions are the server settings the page script needs.
type PageOptions struct {
	ReviewRoute    string
	RevealInterval time.Duration
	MaxFileSize    int64
}

type pageData struct {
	ReviewRoute      string
	RevealIntervalMs int64
	MaxFileSizeMB    int64
}

// RenderIndex renders the form page once; the result is served as-is for
// every request.
func RenderIndex(opts PageOptions) ([]byte, error) {
	tmpl, err := template.ParseFS(staticFiles, "static/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, pageData{
		ReviewRoute:      opts.ReviewRoute,
		RevealIntervalMs: opts.RevealInterval.Milliseconds(),
		MaxFileSizeMB:    opts.MaxFileSize / (1024 * 1024),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render index page: %w", err)
	}

	return buf.Bytes(), nil
}

// RegisterRoutes serves the form page at "/".
func RegisterRoutes(app *fiber.App, opts PageOptions) error {
	page, err := RenderIndex(opts)
	if err != nil {
		return err
	}

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(page)
	})

	return nil
}

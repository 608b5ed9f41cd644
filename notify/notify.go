// Package notify holds the Notifier implementations. The capture
// variant writes rendered messages to disk for local runs and tests,
// the SMTP variant delivers real email. Both render the same set of
// embedded templates so switching transports never changes content.
package notify

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"

	userrequests "github.com/factscub/user-requests-api"
)

//go:embed templates/*.django
var templateFS embed.FS

// NewTemplateEngine loads the embedded notification templates
func NewTemplateEngine() (*django.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open embedded templates")
	}

	engine := django.NewFileSystem(http.FS(sub), ".django")
	if err := engine.Load(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load notification templates")
	}

	return engine, nil
}

func render(engine *django.Engine, msg userrequests.Notification) (string, error) {
	if !msg.Template.IsValid() {
		return "", errors.New("unknown notification template", errors.CategoryInternal).
			WithMetadata(map[string]any{"template": msg.Template.String()})
	}

	var buf bytes.Buffer
	err := engine.Render(&buf, msg.Template.String(), binding(msg.Data))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to render notification template")
	}

	return buf.String(), nil
}

func binding(data userrequests.NotificationContext) map[string]any {
	return map[string]any{
		"name":       data.Name,
		"message":    data.Message,
		"comment":    data.Comment,
		"created_at": formatTime(data.CreatedAt),
		"updated_at": formatTime(data.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC1123)
}

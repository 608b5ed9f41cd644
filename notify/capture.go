package notify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/template/django/v3"
	"github.com/goliatone/go-errors"

	userrequests "github.com/factscub/user-requests-api"
)

// CaptureNotifier writes every message to disk instead of sending it.
// One file per send, grouped by template kind, named after the send
// time and recipient so runs are easy to inspect.
type CaptureNotifier struct {
	dir    string
	engine *django.Engine
	now    func() time.Time
}

var _ userrequests.Notifier = (*CaptureNotifier)(nil)

// NewCaptureNotifier creates a capture notifier rooted at dir
func NewCaptureNotifier(dir string) (*CaptureNotifier, error) {
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	return &CaptureNotifier{
		dir:    dir,
		engine: engine,
		now:    time.Now,
	}, nil
}

// WithClock overrides the timestamp source, mostly for tests
func (n *CaptureNotifier) WithClock(now func() time.Time) *CaptureNotifier {
	if now != nil {
		n.now = now
	}
	return n
}

// Send renders the message and writes it under <dir>/<kind>/<ts>_<to>.txt
func (n *CaptureNotifier) Send(ctx context.Context, msg userrequests.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := render(n.engine, msg)
	if err != nil {
		return err
	}

	dir := filepath.Join(n.dir, msg.Template.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create capture directory")
	}

	name := fmt.Sprintf("%s_%s.txt", n.now().UTC().Format("2006-01-02T15-04-05.000Z"), msg.To)
	path := filepath.Join(dir, name)

	content := fmt.Sprintf("To: %s\nSubject: %s\n\n%s", msg.To, msg.Subject, body)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write captured notification")
	}

	return nil
}

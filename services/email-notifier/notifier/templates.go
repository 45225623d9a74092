package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yashrajoria/shopping-backend/services/email-notifier/models"
)

const DefaultTemplate = "order_created.html"

var statusTemplates = map[string]string{
	"created":   "order_created.html",
	"pending":   "order_pending.html",
	"paid":      "order_paid.html",
	"shipped":   "order_shipped.html",
	"completed": "order_completed.html",
}

// TemplateFor maps a status, case-insensitively, to its template. Unknown and
// empty statuses get the created template.
func TemplateFor(status string) string {
	if name, ok := statusTemplates[strings.ToLower(status)]; ok {
		return name
	}
	return DefaultTemplate
}

// Renderer holds the parsed templates, one set per page so the shared layout
// blocks resolve per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(statusTemplates))}
	for _, name := range statusTemplates {
		t, err := template.New(name).Option("missingkey=zero").ParseFS(fsys, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(name string, evt *models.OrderEvent) (string, error) {
	t, ok := r.pages[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, evt); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

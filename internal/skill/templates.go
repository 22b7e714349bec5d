package skill

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplates []byte

const NumFacts = 10

// requiredTemplates lists every name the router renders.
var requiredTemplates = []string{
	"welcome", "welcome_re", "welcome_card", "card_title", "about",
	"gst_rate", "gst_news", "gst_news_re", "no_gst_news",
	"unknown_item_reprompt", "error_prompt", "help_text",
	"stop_bye", "cancel_bye", "no_bye",
}

type Templates struct {
	byName map[string]*template.Template
}

func DefaultTemplates() (*Templates, error) {
	return ParseTemplates(defaultTemplates)
}

// ParseTemplates reads a YAML mapping of template name to text/template body.
func ParseTemplates(data []byte) (*Templates, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("templates decode: %w", err)
	}

	t := &Templates{byName: make(map[string]*template.Template, len(raw))}
	for name, body := range raw {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		t.byName[name] = tmpl
	}

	var missing []string
	for _, name := range append(requiredTemplates, factNames()...) {
		if _, ok := t.byName[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("templates missing: %s", strings.Join(missing, ", "))
	}

	return t, nil
}

// Render executes the named template. Failures are logged and yield "".
func (t *Templates) Render(name string, data any) string {
	tmpl, ok := t.byName[name]
	if !ok {
		slog.Error("unknown template", "template", name)
		return ""
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("error rendering template", "template", name, "error", err)
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func (t *Templates) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func factName(i int) string {
	return fmt.Sprintf("gst_fact_%d", i)
}

func factNames() []string {
	names := make([]string, NumFacts)
	for i := range names {
		names[i] = factName(i)
	}
	return names
}

package style

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
)

// TemplateInfo is the displayable view of a template
type TemplateInfo struct {
	Name           string   `json:"name"`
	Path           string   `json:"path"`
	ConfigStatus   string   `json:"config_status"`
	ConfigPath     string   `json:"config_path,omitempty"`
	ConfigError    string   `json:"config_error,omitempty"`
	Prompt         string   `json:"prompt"`
	DefaultPath    string   `json:"default_path"`
	Main           string   `json:"main,omitempty"`
	IgnorePatterns []string `json:"ignore_patterns"`
}

// InstanceSummary is the displayable view of an instantiation
type InstanceSummary struct {
	Template string   `json:"template"`
	Root     string   `json:"root"`
	Files    int      `json:"files"`
	Dirs     int      `json:"dirs"`
	Renamed  int      `json:"renamed"`
	Skipped  []string `json:"skipped,omitempty"`
	Failures []string `json:"failures,omitempty"`
	Main     string   `json:"main,omitempty"`
}

// Renderer turns command results into printable text
type Renderer interface {
	RenderTemplateList(root string, templates []TemplateInfo) string
	RenderTemplate(t TemplateInfo) string
	RenderSummary(s InstanceSummary) string
	RenderError(err error) string
}

// NewRenderer returns the renderer for format. FormatAuto must be resolved
// by the caller; it renders as plain text.
func NewRenderer(format Format) Renderer {
	switch format {
	case FormatTerminal:
		return &TerminalRenderer{}
	case FormatJSON:
		return &JSONRenderer{}
	default:
		return &PlainRenderer{}
	}
}

// TerminalRenderer renders styled output
type TerminalRenderer struct{}

func (r *TerminalRenderer) RenderTemplateList(root string, templates []TemplateInfo) string {
	if len(templates) == 0 {
		return MutedStyle.Render(fmt.Sprintf("No templates found in %s", root))
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Templates") + " " + PathStyle.Render(root) + "\n\n")
	for _, t := range templates {
		indicator := InfoIndicator
		if t.ConfigError != "" {
			indicator = WarningIndicator
		}
		line := fmt.Sprintf("%s %s", indicator, TemplateStyle.Render(t.Name))
		if t.Main != "" {
			line += " " + MutedStyle.Render("main: ") + HighlightToken(t.Main, "__name__")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderTemplate(t TemplateInfo) string {
	var b strings.Builder
	b.WriteString(TemplateStyle.Render(t.Name) + " " + PathStyle.Render(t.Path) + "\n")

	field := func(label, value string) {
		b.WriteString(Indent(MutedStyle.Render(label+":")+" "+value, 1) + "\n")
	}

	status := t.ConfigStatus
	if t.ConfigPath != "" {
		status += " " + PathStyle.Render(t.ConfigPath)
	}
	field("descriptor", status)
	if t.ConfigError != "" {
		field("problem", ErrorStyle.Render(t.ConfigError))
	}
	field("prompt", NormalStyle.Render(t.Prompt))
	field("default path", CodeStyle.Render(t.DefaultPath))
	if t.Main != "" {
		field("main", HighlightToken(t.Main, "__name__"))
	}
	field("ignore", CodeStyle.Render(strings.Join(t.IgnorePatterns, " ")))
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderSummary(s InstanceSummary) string {
	var b strings.Builder
	indicator := SuccessIndicator
	if len(s.Failures) > 0 {
		indicator = WarningIndicator
	}
	b.WriteString(fmt.Sprintf("%s Created %s from %s\n",
		indicator, PathStyle.Render(s.Root), TemplateStyle.Render(s.Template)))
	b.WriteString(Indent(MutedStyle.Render(fmt.Sprintf("%d files, %d directories, %d renamed, %d skipped",
		s.Files, s.Dirs, s.Renamed, len(s.Skipped))), 1) + "\n")
	for _, f := range s.Failures {
		b.WriteString(Indent(ErrorIndicator+" "+f, 1) + "\n")
	}
	if s.Main != "" {
		b.WriteString(Indent(MutedStyle.Render("main: ")+PathStyle.Render(s.Main), 1) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		return fmt.Sprintf("%s Error [%s]: %s", ErrorIndicator, ErrorStyle.Render(string(code)), stripCode(err.Error(), code))
	}
	return fmt.Sprintf("%s %s", ErrorIndicator, ErrorStyle.Render(err.Error()))
}

// stripCode drops the "[CODE] " marker from msg since the code is shown apart
func stripCode(msg string, code errors.ErrorCode) string {
	return strings.Replace(msg, "["+string(code)+"] ", "", 1)
}

// PlainRenderer renders unstyled text, one record per line where possible
type PlainRenderer struct{}

func (r *PlainRenderer) RenderTemplateList(root string, templates []TemplateInfo) string {
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	return strings.Join(names, "\n")
}

func (r *PlainRenderer) RenderTemplate(t TemplateInfo) string {
	lines := []string{
		"name: " + t.Name,
		"path: " + t.Path,
		"descriptor: " + t.ConfigStatus,
	}
	if t.ConfigPath != "" {
		lines = append(lines, "descriptor path: "+t.ConfigPath)
	}
	if t.ConfigError != "" {
		lines = append(lines, "problem: "+t.ConfigError)
	}
	lines = append(lines,
		"prompt: "+t.Prompt,
		"default path: "+t.DefaultPath,
	)
	if t.Main != "" {
		lines = append(lines, "main: "+t.Main)
	}
	lines = append(lines, "ignore: "+strings.Join(t.IgnorePatterns, " "))
	return strings.Join(lines, "\n")
}

func (r *PlainRenderer) RenderSummary(s InstanceSummary) string {
	lines := []string{fmt.Sprintf("created %s (%d files, %d directories, %d renamed, %d skipped)",
		s.Root, s.Files, s.Dirs, s.Renamed, len(s.Skipped))}
	for _, f := range s.Failures {
		lines = append(lines, "failed: "+f)
	}
	return strings.Join(lines, "\n")
}

func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}

// JSONRenderer renders indented JSON documents
type JSONRenderer struct{}

func (r *JSONRenderer) RenderTemplateList(root string, templates []TemplateInfo) string {
	if templates == nil {
		templates = []TemplateInfo{}
	}
	return r.encode(map[string]interface{}{
		"root":      root,
		"templates": templates,
	})
}

func (r *JSONRenderer) RenderTemplate(t TemplateInfo) string {
	return r.encode(t)
}

func (r *JSONRenderer) RenderSummary(s InstanceSummary) string {
	return r.encode(s)
}

func (r *JSONRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return r.encode(map[string]interface{}{
		"error":   err.Error(),
		"code":    string(errors.GetErrorCode(err)),
		"details": errors.GetErrorDetails(err),
	})
}

func (r *JSONRenderer) encode(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

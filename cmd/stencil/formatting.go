package stencil

import (
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/stencil/pkg/style"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !stdoutIsTerminal() {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     strings.ToUpper,
		"boldUpper": formatBoldUpper,
	})
}

// ErrorRenderer returns the renderer for an error returned by rootCmd's
// Execute, written to w. It honours --format and the settings file the same
// way command output does; an invalid value falls back to auto.
func ErrorRenderer(rootCmd *cobra.Command, w *os.File) style.Renderer {
	value, err := rootCmd.PersistentFlags().GetString("format")
	if err != nil {
		value = "auto"
	}
	format, err := style.ParseFormat(value)
	if err != nil {
		format = style.FormatAuto
	}
	return style.NewRenderer(format.Resolve(w))
}

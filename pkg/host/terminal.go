package host

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/pterm/pterm"
)

// Editor environment variables, in lookup order
var EditorEnvVars = []string{"VISUAL", "EDITOR"}

// TerminalPresenter asks questions with pterm interactive printers and opens
// files in the user's editor
type TerminalPresenter struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// NewTerminalPresenter returns a presenter bound to the process streams
func NewTerminalPresenter() *TerminalPresenter {
	return &TerminalPresenter{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Choose shows options in an interactive select list titled title and
// returns the picked index. It returns -1 when options is empty. Aborting
// the list yields an ErrCancelled error.
func (p *TerminalPresenter) Choose(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, nil
	}

	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText(title).
		WithMaxHeight(15).
		Show()
	if err != nil {
		return -1, errors.Wrap(err, errors.ErrCancelled, "selection aborted")
	}

	for i, option := range options {
		if option == selected {
			return i, nil
		}
	}
	return -1, nil
}

// Prompt asks for a line of text, prefilled with defaultValue when it is not
// empty. Aborting the input yields an ErrCancelled error.
func (p *TerminalPresenter) Prompt(text, defaultValue string) (string, error) {
	printer := pterm.DefaultInteractiveTextInput.WithDefaultText(text)
	if defaultValue != "" {
		printer = printer.WithDefaultValue(defaultValue)
	}

	answer, err := printer.Show()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCancelled, "input aborted")
	}
	return answer, nil
}

// OpenAndEdit runs $VISUAL or $EDITOR on path and waits for it to exit.
// Without an editor the path is printed instead.
func (p *TerminalPresenter) OpenAndEdit(path, _ string) error {
	editor := EditorCommand()
	if len(editor) == 0 {
		_, err := fmt.Fprintln(p.Out, path)
		return err
	}

	cmd := exec.Command(editor[0], append(editor[1:], path)...)
	cmd.Stdin = p.In
	cmd.Stdout = p.Out
	cmd.Stderr = p.Err
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", editor[0], err)
	}
	return nil
}

// EditorCommand returns the configured editor split into program and
// arguments, or nil when none is set
func EditorCommand() []string {
	for _, name := range EditorEnvVars {
		if fields := strings.Fields(os.Getenv(name)); len(fields) > 0 {
			return fields
		}
	}
	return nil
}

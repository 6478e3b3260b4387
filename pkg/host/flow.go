package host

import (
	"os"
	"strings"

	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/instantiate"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/spf13/afero"
)

// Prompt titles used by Flow
const (
	ChooseTemplateTitle = "Select template"
	DestinationPrompt   = "Destination path"
)

// Presenter is the user facing side of a Flow
type Presenter interface {
	// Choose returns the index of the selected option, or -1 when the user
	// made no choice
	Choose(title string, options []string) (int, error)

	// Prompt asks for a line of text, offering defaultValue
	Prompt(text, defaultValue string) (string, error)

	// OpenAndEdit shows the file at path to the user. snippet is its
	// current content.
	OpenAndEdit(path, snippet string) error
}

// TemplateSource lists and resolves templates
type TemplateSource interface {
	List() ([]string, error)
	Resolve(name string) *types.Template
}

// Materializer creates instances from templates
type Materializer interface {
	Instantiate(tmpl *types.Template, newName, destRoot string) (*instantiate.Result, error)
}

// RunOptions pre-answers the questions Flow would otherwise ask
type RunOptions struct {
	Template string
	Name     string

	// Dest is the directory the instance is created in. When set the
	// destination prompt is skipped.
	Dest string

	// SkipEdit disables opening the main file
	SkipEdit bool
}

// Outcome describes a completed (or partially completed) run
type Outcome struct {
	Template *types.Template
	Name     string
	Result   *instantiate.Result

	// MainPath is the main file handed to the presenter, empty when none was
	MainPath string
}

// Flow wires the catalog and instantiator to a presenter
type Flow struct {
	Fs           afero.Fs
	Catalog      TemplateSource
	Instantiator Materializer
	Presenter    Presenter
	ProjectPath  string
}

// Run performs one instantiation. When instantiation fails after creating
// the instance (rename failures), the outcome is returned along with the
// error.
func (f *Flow) Run(opts RunOptions) (*Outcome, error) {
	logger := logging.GetLogger("host")

	tmpl, err := f.selectTemplate(opts.Template)
	if err != nil {
		return nil, err
	}
	if tmpl.ConfigErr != nil {
		logger.Warn().
			Err(tmpl.ConfigErr).
			Str("template", tmpl.Name).
			Msg("Template descriptor ignored, using defaults")
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		answer, err := f.Presenter.Prompt(tmpl.Config.Prompt, "")
		if err != nil {
			return nil, err
		}
		name = strings.TrimSpace(answer)
		if name == "" {
			return nil, errors.New(errors.ErrCancelled, "no name given")
		}
	}

	dest := strings.TrimSpace(opts.Dest)
	if dest == "" {
		answer, err := f.Presenter.Prompt(DestinationPrompt, tmpl.Config.ResolveDefaultPath(f.ProjectPath))
		if err != nil {
			return nil, err
		}
		dest = strings.TrimSpace(answer)
		if dest == "" {
			return nil, errors.New(errors.ErrCancelled, "no destination given")
		}
	}
	dest = paths.ExpandHome(dest)

	logger.Debug().
		Str("template", tmpl.Name).
		Str("name", name).
		Str("dest", dest).
		Msg("Instantiating template")

	result, err := f.Instantiator.Instantiate(tmpl, name, dest)
	if result == nil {
		return nil, err
	}
	outcome := &Outcome{Template: tmpl, Name: name, Result: result}
	if err != nil {
		return outcome, err
	}

	if !opts.SkipEdit {
		if err := f.openMain(outcome); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (f *Flow) selectTemplate(name string) (*types.Template, error) {
	names, err := f.Catalog.List()
	if err != nil {
		return nil, err
	}

	if name == "" {
		if len(names) == 0 {
			return nil, errors.New(errors.ErrTemplateNotFound, "no templates available")
		}
		idx, err := f.Presenter.Choose(ChooseTemplateTitle, names)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(names) {
			return nil, errors.New(errors.ErrCancelled, "no template selected")
		}
		name = names[idx]
	}

	tmpl := f.Catalog.Resolve(name)
	if tmpl == nil {
		return nil, errors.Newf(errors.ErrTemplateNotFound, "template %q not found", name).
			WithDetail("template", name).
			WithDetail("available", names)
	}
	return tmpl, nil
}

// openMain hands the instance's main file to the presenter. A main file
// that does not exist in the instance is not an error.
func (f *Flow) openMain(outcome *Outcome) error {
	mainPath, ok := outcome.Template.Config.MainPath(outcome.Result.Root, outcome.Name)
	if !ok {
		return nil
	}

	data, err := afero.ReadFile(f.Fs, mainPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger := logging.GetLogger("host")
			logger.Warn().
				Str("main", mainPath).
				Msg("Main file not present in instance")
			return nil
		}
		return errors.Wrap(err, errors.ErrFileAccess, "cannot read main file").
			WithDetail("path", mainPath)
	}

	outcome.MainPath = mainPath
	if err := f.Presenter.OpenAndEdit(mainPath, string(data)); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot open main file").
			WithDetail("path", mainPath)
	}
	return nil
}

package stencil

import (
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/stencil/internal/version"
	"github.com/arthur-debert/stencil/pkg/catalog"
	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/arthur-debert/stencil/pkg/host"
	"github.com/arthur-debert/stencil/pkg/instantiate"
	"github.com/arthur-debert/stencil/pkg/logging"
	"github.com/arthur-debert/stencil/pkg/paths"
	"github.com/arthur-debert/stencil/pkg/style"
	"github.com/arthur-debert/stencil/pkg/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by all commands
type globalOptions struct {
	verbosity int
	templates string
	project   string
	format    string

	// settings are loaded before any command runs
	settings *config.Settings

	// fs is the filesystem commands operate on
	fs afero.Fs
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{fs: afero.NewOsFs()}

	rootCmd := &cobra.Command{
		Use:     "stencil",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return opts.loadSettings(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.templates, "templates", "", MsgFlagTemplates)
	rootCmd.PersistentFlags().StringVar(&opts.project, "project", "", MsgFlagProject)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newNewCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	installHelpTopics(rootCmd)

	return rootCmd
}

// loadSettings reads the user settings and applies them to every global
// flag not given on the command line
func (o *globalOptions) loadSettings(cmd *cobra.Command) error {
	path := paths.SettingsFile()
	s, err := config.LoadSettings(path)
	if err != nil {
		return fmt.Errorf(MsgErrLoadSettings, err)
	}
	o.settings = s

	flags := cmd.Flags()
	if !flags.Changed("templates") && s.Templates != "" {
		o.templates = s.Templates
	}
	if !flags.Changed("format") && s.Format != "" {
		o.format = s.Format
	}

	log.Debug().
		Str("settings", path).
		Str("templates", o.templates).
		Str("format", o.format).
		Msg("Settings applied")
	return nil
}

// initPaths resolves the templates root and project path from the flags
func (o *globalOptions) initPaths() (*paths.Paths, error) {
	p, err := paths.New(paths.Options{
		TemplatesRoot: o.templates,
		ProjectPath:   o.project,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	if p.UsedFallback() {
		log.Debug().Str("project", p.ProjectPath()).Msg(MsgDebugFallback)
	}
	return p, nil
}

// openCatalog resolves paths and lists the templates root
func (o *globalOptions) openCatalog() (*paths.Paths, *catalog.Catalog, error) {
	p, err := o.initPaths()
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Open(o.fs, p.TemplatesRoot())
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrOpenCatalog, err)
	}
	return p, cat, nil
}

// renderer picks the output renderer for the command's output stream
func (o *globalOptions) renderer(cmd *cobra.Command) (style.Renderer, error) {
	format, err := style.ParseFormat(o.format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid --format")
	}

	if format == style.FormatAuto {
		format = style.FormatText
		if f, ok := cmd.OutOrStdout().(*os.File); ok {
			format = style.DetectFormat(f)
		}
	}
	return style.NewRenderer(format), nil
}

// templateNamesCompletion completes the first argument with template names
func (o *globalOptions) templateNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	_, cat, err := o.openCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range cat.Names() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func templateInfo(tmpl *types.Template) style.TemplateInfo {
	info := style.TemplateInfo{
		Name:           tmpl.Name,
		Path:           tmpl.Path,
		ConfigStatus:   tmpl.ConfigStatus.String(),
		ConfigPath:     tmpl.ConfigPath,
		Prompt:         tmpl.Config.Prompt,
		DefaultPath:    tmpl.Config.DefaultPath,
		Main:           tmpl.Config.Main,
		IgnorePatterns: tmpl.Config.IgnorePatterns,
	}
	if tmpl.ConfigErr != nil {
		info.ConfigError = tmpl.ConfigErr.Error()
	}
	return info
}

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			_, cat, err := opts.openCatalog()
			if err != nil {
				return err
			}

			var infos []style.TemplateInfo
			for _, name := range cat.Names() {
				if tmpl := cat.Resolve(name); tmpl != nil {
					infos = append(infos, templateInfo(tmpl))
				}
			}

			log.Info().Int("templates", len(infos)).Str("root", cat.Root()).Msg("Listed templates")
			if out := renderer.RenderTemplateList(cat.Root(), infos); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}
}

func newShowCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "show <template>",
		Short:             MsgShowShort,
		Long:              MsgShowLong,
		GroupID:           "core",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: opts.templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := opts.openCatalog()
			if err != nil {
				return err
			}

			tmpl := cat.Resolve(args[0])
			if tmpl == nil {
				return fmt.Errorf(MsgErrShowTemplate,
					errors.Newf(errors.ErrTemplateNotFound, "template %q not found", args[0]).
						WithDetail("root", cat.Root()))
			}

			if output != "" {
				format := config.Format(strings.ToLower(output))
				if _, ok := config.FileForFormat(format); !ok {
					return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownFormat, output)
				}
				data, err := config.Encode(tmpl.Config, format)
				if err != nil {
					return fmt.Errorf(MsgErrShowTemplate, err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderTemplate(templateInfo(tmpl)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"json", "toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newNewCmd(opts *globalOptions) *cobra.Command {
	var (
		dest string
		edit bool
	)

	cmd := &cobra.Command{
		Use:               "new [template] [name]",
		Short:             MsgNewShort,
		Long:              MsgNewLong,
		Example:           MsgNewExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(2),
		ValidArgsFunction: opts.templateNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			p, cat, err := opts.openCatalog()
			if err != nil {
				return err
			}

			presenter := host.NewTerminalPresenter()
			presenter.Out = cmd.OutOrStdout()
			presenter.Err = cmd.ErrOrStderr()

			flow := &host.Flow{
				Fs:           opts.fs,
				Catalog:      cat,
				Instantiator: instantiate.New(opts.fs),
				Presenter:    presenter,
				ProjectPath:  p.ProjectPath(),
			}

			if !cmd.Flags().Changed("edit") && opts.settings != nil {
				edit = opts.settings.Edit
			}

			runOpts := host.RunOptions{Dest: dest, SkipEdit: !edit}
			if len(args) > 0 {
				runOpts.Template = args[0]
			}
			if len(args) > 1 {
				runOpts.Name = args[1]
			}

			outcome, err := flow.Run(runOpts)
			if outcome != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSummary(summary(outcome, err)))
			}
			if err != nil {
				return fmt.Errorf(MsgErrNewInstance, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", MsgFlagDest)
	cmd.Flags().BoolVarP(&edit, "edit", "e", true, MsgFlagEdit)
	_ = cmd.MarkFlagDirname("dest")

	return cmd
}

func summary(outcome *host.Outcome, err error) style.InstanceSummary {
	s := style.InstanceSummary{
		Template: outcome.Template.Name,
		Root:     outcome.Result.Root,
		Files:    outcome.Result.Files,
		Dirs:     outcome.Result.Dirs,
		Renamed:  len(outcome.Result.Renamed),
		Skipped:  outcome.Result.Skipped,
		Main:     outcome.MainPath,
	}
	for _, f := range instantiate.RenameFailures(err) {
		s.Failures = append(s.Failures, f.Error())
	}
	return s
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	var descriptor string

	cmd := &cobra.Command{
		Use:     "init <template>",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !cmd.Flags().Changed("descriptor") && opts.settings != nil && opts.settings.DescriptorFormat != "" {
				descriptor = opts.settings.DescriptorFormat
			}
			if err := paths.ValidateTemplateName(name); err != nil {
				return fmt.Errorf(MsgErrInitTemplate, err)
			}

			format := config.Format(strings.ToLower(descriptor))
			if _, ok := config.FileForFormat(format); !ok {
				return errors.Newf(errors.ErrInvalidInput, MsgErrUnknownFormat, descriptor)
			}

			p, err := opts.initPaths()
			if err != nil {
				return err
			}

			dir, err := catalog.Create(p.TemplatesRoot(), name, format)
			if err != nil {
				return fmt.Errorf(MsgErrInitTemplate, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgTemplateCreated, name, dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&descriptor, "descriptor", string(config.FormatTOML), MsgFlagDescriptor)
	_ = cmd.RegisterFlagCompletionFunc("descriptor", cobra.FixedCompletions(
		[]string{"json", "toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return GenCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

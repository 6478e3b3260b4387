package stencil

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Create files and directories from templates"
	MsgListShort       = "List available templates"
	MsgListLong        = "List displays the templates found in the templates root, sorted by name."
	MsgShowShort       = "Show a template's settings"
	MsgNewShort        = "Create a new instance of a template"
	MsgInitShort       = "Create a new empty template"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgTemplateCreated = "Created template '%s' in %s\n"
	MsgVersionFormat   = "stencil version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLoadSettings   = "failed to load settings: %w"
	MsgErrInitPaths      = "failed to initialize paths: %w"
	MsgErrOpenCatalog    = "failed to open templates: %w"
	MsgErrListTemplates  = "failed to list templates: %w"
	MsgErrShowTemplate   = "failed to show template: %w"
	MsgErrNewInstance    = "failed to create instance: %w"
	MsgErrInitTemplate   = "failed to create template: %w"
	MsgErrUnknownFormat  = "unknown format %q"
	MsgErrNoCommand      = "no command specified"
	MsgErrUnknownShell   = "unsupported shell %q"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagTemplates  = "Templates root directory (default $STENCIL_TEMPLATES or $XDG_CONFIG_HOME/stencil/templates)"
	MsgFlagProject    = "Project path substituted for $project_path (default git top level or working directory)"
	MsgFlagFormat     = "Output format: auto, term, text or json"
	MsgFlagDest       = "Directory to create the instance in (skips the destination prompt)"
	MsgFlagEdit       = "Open the template's main file after creating the instance (default from settings)"
	MsgFlagOutput     = "Print the resolved descriptor as json, toml or yaml"
	MsgFlagDescriptor = "Descriptor syntax for the new template: json, toml or yaml (default from settings)"

	// Debug messages
	MsgDebugFallback = "No git repository found, using working directory as project path"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/new-long.txt
	msgNewLongRaw string
	MsgNewLong    = strings.TrimSpace(msgNewLongRaw)

	//go:embed msgs/new-example.txt
	msgNewExampleRaw string
	MsgNewExample    = strings.TrimRight(msgNewExampleRaw, "\n")

	//go:embed msgs/show-long.txt
	msgShowLongRaw string
	MsgShowLong    = strings.TrimSpace(msgShowLongRaw)

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)

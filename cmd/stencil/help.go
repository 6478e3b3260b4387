package stencil

import (
	"embed"

	"github.com/arthur-debert/stencil/pkg/cobrax/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var helpTopics embed.FS

// installHelpTopics makes the embedded guides available as "stencil help <topic>"
func installHelpTopics(rootCmd *cobra.Command) {
	opts := topics.Options{Renderer: &topics.PlainRenderer{}}
	if stdoutIsTerminal() {
		opts.Renderer = topics.NewGlamourRenderer()
	}

	if _, err := topics.InitializeWithOptions(rootCmd, helpTopics, "topics", opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
}

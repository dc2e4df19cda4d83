package main

import (
	"github.com/spf13/cobra"

	"github.com/five82/vapor/internal/app"
)

type globalFlags struct {
	configPath string
	apiURL     string
	verbose    bool
}

func (g *globalFlags) options() app.Options {
	return app.Options{ConfigPath: g.configPath, APIURL: g.apiURL, Verbose: g.verbose}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "vapor",
		Short:         "Browse the Vapor game catalog and manage your lists from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default ~/.config/vapor/config.toml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "override the API base URL")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "mirror log output to stderr (CLI commands only)")

	root.AddCommand(
		newGamesCmd(flags),
		newListsCmd(flags),
		newLoginCmd(flags),
		newLogoutCmd(flags),
		newWhoamiCmd(flags),
		newRegisterCmd(flags),
		newProfileCmd(flags),
		newAvatarsCmd(flags),
	)
	return root
}

// bootstrap opens the runtime for a one-shot command.
func bootstrap(flags *globalFlags) (*app.Runtime, error) {
	return app.Bootstrap(flags.options())
}

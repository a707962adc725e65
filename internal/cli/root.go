// Package cli provides the command-line interface for colorthief.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/colorthief/internal/config"
	"github.com/ironsheep/colorthief/internal/imaging"
	"github.com/ironsheep/colorthief/internal/version"
)

// app carries the configuration shared by every subcommand.
type app struct {
	cfg    config.Config
	envErr error
	logger hclog.Logger
}

// NewRootCmd builds the colorthief command tree. Environment variables are
// read once here; flags override them when the command runs.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: hclog.NewNullLogger()}
	a.envErr = a.cfg.ApplyEnv(os.LookupEnv)

	root := &cobra.Command{
		Use:   "colorthief",
		Short: "Extract dominant colors and palettes from images",
		Long: `colorthief samples the pixels of an image and groups them with modified
median cut quantization to find its most representative colors.

Images can be local files, http(s) URLs, data URLs, or "-" for standard input.
Transparent and near-white pixels are ignored.

Environment variables:
  COLORTHIEF_LOG_LEVEL      log level (trace, debug, info, warn, error, off)
  COLORTHIEF_FETCH_TIMEOUT  timeout for fetching URLs (e.g. 5s)
  COLORTHIEF_USER_AGENT     User-Agent header for URLs
  COLORTHIEF_QUALITY        default sampling quality
  COLORTHIEF_COLOR_COUNT    default palette size
  COLORTHIEF_COLOR_TYPE     default color type for JSON output (hex, array)`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.envErr != nil {
				return fmt.Errorf("invalid environment: %w", a.envErr)
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			// Logs go to stderr; stdout carries results.
			a.logger = a.cfg.NewLogger(cmd.ErrOrStderr())
			return nil
		},
	}

	root.SetVersionTemplate(version.String() + "\n")
	a.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(a.newPaletteCmd())
	root.AddCommand(a.newColorCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// checkDefaults validates the configured extraction defaults. Only commands
// that extract colors call it, so a bad default never blocks "version".
func (a *app) checkDefaults() error {
	if err := a.cfg.ValidateDefaults(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// loader builds an image loader from the resolved configuration.
func (a *app) loader() *imaging.Loader {
	return imaging.NewLoader(imaging.LoaderOptions{
		Fetch:  a.cfg.Fetch(),
		Logger: a.logger,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

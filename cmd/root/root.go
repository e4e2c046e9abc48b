// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/config"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/container"
	"github.com/Fabio-ink/sistema-financeiro-pessoal/internal/logging"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	UserID     int64
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewDiscardLogger()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies for the running command.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "financeiro",
		Short: "Import and export personal-finance workbooks.",
		Long: `financeiro moves transactions and monthly budget plans between
spreadsheet workbooks and the personal-finance store.

Workbooks are recognised by their header row, so sheets may be named and
ordered freely and columns may appear in any order.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to financeiro!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

func init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.financeiro, .financeiro or .)")
	Cmd.PersistentFlags().Int64VarP(&SharedFlags.UserID, "user", "u", 0, "Id of the user owning the data")
}

func setup(cmd *cobra.Command, args []string) error {
	config.LoadEnv(nil)

	// A failed command skips teardown.
	if err := teardown(cmd, args); err != nil {
		return err
	}

	var (
		cfg *config.Config
		err error
	)
	if SharedFlags.ConfigFile != "" {
		cfg, err = config.LoadFile(SharedFlags.ConfigFile)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}

	AppConfig = cfg
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if AppContainer == nil {
		return nil
	}
	err := AppContainer.Close()
	AppContainer = nil
	return err
}

// GetContainer returns the container built for the running command, or nil
// before setup.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before setup.
func GetConfig() *config.Config {
	return AppConfig
}

// RequireUser returns the --user value, failing when it was not given.
func RequireUser() (int64, error) {
	if SharedFlags.UserID <= 0 {
		return 0, fmt.Errorf("a positive --user id is required")
	}
	return SharedFlags.UserID, nil
}

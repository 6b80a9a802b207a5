package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/webitel/wlog"

	"github.com/kirychukyurii/checknotifier/config"
)

var (

	// version is the App's semantic version.
	version = "0.0.0"

	// commit is the git commit used to build the App.
	commit     = "hash"
	commitDate = "date"

	configPath = "config.yaml"
)

func Execute() {
	if err := command().Execute(); err != nil {
		os.Exit(-1)
	}
}

func command() *cobra.Command {
	log := wlog.NewLogger(&wlog.LoggerConfiguration{
		EnableConsole: true,
		ConsoleLevel:  "debug",
	})

	c := &cobra.Command{
		Use:          "checknotifier",
		Short:        "Checknotifier - delivers check notifications to chat rooms",
		SilenceUsage: true,
		Version:      fmt.Sprintf("%s, commit %s, date %s", version, commit, commitDate),
	}

	flagSet(c.PersistentFlags())
	c.AddCommand(listenCommand(log), sendCommand(log))

	return c
}

func flagSet(fs *pflag.FlagSet) {
	fs.StringVarP(&configPath, "config", "c", configPath, "config file path")
}

// loadConfig reads the config after flags are parsed and applies its log level.
func loadConfig(log *wlog.Logger) (*config.Config, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	log.SetConsoleLevel(cfg.Logger.Level)

	return cfg, nil
}

// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

// Package commands implements the stordctl command line interface on
// top of the client access layer.
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/config"
)

var configPath string

func Execute() error {
	root := &cobra.Command{
		Use:           "stordctl",
		Short:         "Client for the stord storage-management daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Configure(configPath); err != nil {
				return err
			}
			loggerSetup(config.Cfg.Log.Pretty, config.Cfg.Log.Level)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		fmt.Sprintf("path to configuration file (default %s)", config.DefaultConfig))

	root.AddCommand(checkCmd(), versionCmd(), objectsCmd(), getCmd(), setCmd(), poolCmd())

	err := root.Execute()
	if err != nil {
		log.Error().Err(err).Send()
	}

	return err
}

func loggerSetup(pretty bool, level int) {
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	zerolog.SetGlobalLevel(zerolog.Level(level))
}

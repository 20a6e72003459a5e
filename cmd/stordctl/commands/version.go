// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/client"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the daemon version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			version, err := c.Version()
			if err != nil {
				return err
			}
			fmt.Println(version)
			return nil
		},
	}
}

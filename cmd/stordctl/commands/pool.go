// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/client"
	"github.com/asch/stordctl/internal/client/objpath"
)

func poolCmd() *cobra.Command {
	pool := &cobra.Command{
		Use:   "pool",
		Short: "Manage storage pools",
	}

	pool.AddCommand(poolCreateCmd(), poolDestroyCmd())

	return pool
}

func poolCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <device>...",
		Short: "Create a pool over the given block devices",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			path, err := c.CreatePool(args[0], args[1:])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func poolDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <path>",
		Short: "Destroy the pool at the given object path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			path, err := objpath.Validate(args[0])
			if err != nil {
				return err
			}

			destroyed, err := c.DestroyPool(path)
			if err != nil {
				return err
			}
			if !destroyed {
				fmt.Printf("no pool at %s\n", path)
				return nil
			}
			fmt.Printf("destroyed %s\n", path)
			return nil
		},
	}
}

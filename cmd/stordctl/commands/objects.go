// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package commands

import (
	"fmt"
	"sort"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/client"
)

func objectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "objects",
		Short: "List all objects managed by the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			objects, err := c.ManagedObjects()
			if err != nil {
				return err
			}

			paths := make([]string, 0, len(objects))
			for path := range objects {
				paths = append(paths, string(path))
			}
			sort.Strings(paths)

			for _, path := range paths {
				fmt.Println(path)
				for iface, props := range objects[dbus.ObjectPath(path)] {
					fmt.Printf("  %s (%d properties)\n", iface, len(props))
				}
			}
			return nil
		},
	}
}

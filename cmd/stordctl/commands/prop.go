// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/client"
	"github.com/asch/stordctl/internal/client/iface"
	"github.com/asch/stordctl/internal/client/invoke"
)

// Interfaces with declared descriptors, addressable from the command
// line by name.
var descriptors = map[string]iface.Interface{
	iface.Manager.Name:       iface.Manager,
	iface.ObjectManager.Name: iface.ObjectManager,
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path> <interface> <property>",
		Short: "Read a property of a remote object",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			proxy, err := c.ProxyFor(args[0])
			if err != nil {
				return err
			}

			desc, err := descriptor(args[1])
			if err != nil {
				return err
			}

			var value interface{}
			if err := invoke.GetProperty(proxy, desc, args[2], &value); err != nil {
				return err
			}
			fmt.Printf("%v\n", value)
			return nil
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <interface> <property> <value>",
		Short: "Write a string property of a remote object",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewWithDefaults()
			if err != nil {
				return err
			}
			defer c.Close()

			proxy, err := c.ProxyFor(args[0])
			if err != nil {
				return err
			}

			desc, err := descriptor(args[1])
			if err != nil {
				return err
			}

			return invoke.SetProperty(proxy, desc, args[2], args[3])
		},
	}
}

func descriptor(name string) (iface.Interface, error) {
	desc, ok := descriptors[name]
	if !ok {
		return iface.Interface{}, fmt.Errorf("no descriptor for interface %q", name)
	}

	return desc, nil
}

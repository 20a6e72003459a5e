// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asch/stordctl/internal/client/objpath"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check whether a string is a legal object path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := objpath.Validate(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s is a legal object path\n", path)
			return nil
		},
	}
}

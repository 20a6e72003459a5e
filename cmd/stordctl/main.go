// Copyright (C) 2021 Vojtech Aschenbrenner <v@asch.cz>

package main

import (
	"os"

	"github.com/asch/stordctl/cmd/stordctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

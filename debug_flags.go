//go:build linux

package main

import "github.com/spf13/cobra"

func addDebugFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&FlagDebug, "debug", false, "Enable debug mode (forces DEBUG logging)")

	cmd.PersistentFlags().BoolVar(&FlagNoSymbols, "no-symbols", false, "Print raw return addresses instead of function names")
}

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var (
	subtle = color.New(color.FgHiBlack)
	info   = color.New(color.FgCyan)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	warn   = color.New(color.FgYellow)
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:     "osintctl",
	Short:   "osintctl — drive a graphkit server from the command line",
	Version: version,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8088", "graphkit server URL")

	rootCmd.AddCommand(
		transformsCmd(),
		nodesCmd(),
		expandCmd(),
		exportCmd(),
		importCmd(),
		statsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		bad.Fprintf(os.Stderr, "osintctl: %v\n", err)
		os.Exit(1)
	}
}

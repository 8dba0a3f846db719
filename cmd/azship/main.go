// Package main is the entry point for the azship CLI.
//
// azship deploys container images to Azure Container Apps. It converges
// the target environment onto the desired state: resource group and
// registry access, a healthy Container Apps environment (recreating it
// when Azure reports it broken), and the app itself running the
// requested image.
//
// Commands: init, deploy, status, logs.
//
// For detailed usage information, run:
//
//	azship --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/azship/cmd/azship/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

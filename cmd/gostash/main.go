package main

import (
	"fmt"
	"os"

	"github.com/mwantia/gostash/cmd/gostash/cli"
	"github.com/mwantia/gostash/cmd/gostash/cli/client"
	"github.com/mwantia/gostash/cmd/gostash/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{
		Version: version,
		Commit:  commit,
	})

	root.AddCommand(cli.NewVersionCommand())

	root.AddCommand(server.NewAgentCommand())
	root.AddCommand(server.NewConfigCommand())

	root.AddCommand(client.NewAddCommand())
	root.AddCommand(client.NewListCommand())
	root.AddCommand(client.NewRenameCommand())
	root.AddCommand(client.NewTagCommand())
	root.AddCommand(client.NewTagsCommand())
	root.AddCommand(client.NewNearCommand())

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

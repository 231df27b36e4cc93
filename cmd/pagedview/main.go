// Command pagedview browses a paged remote collection from the terminal.
package main

import (
	"context"
	"os"

	"github.com/rshade/pagedview/internal/cli"
	"github.com/rshade/pagedview/pkg/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run executes the root command. Cobra has already printed the error when one is returned.
func run(ctx context.Context, args []string) error {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/htmltags/cmd/htmltags/commands"
	ferrors "git.home.luguber.info/inful/htmltags/internal/foundation/errors"
	"git.home.luguber.info/inful/htmltags/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("htmltags"),
		kong.Description("Add script, link and meta tags to generated HTML documents"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	global := &commands.Global{Context: ctx, Stdout: os.Stdout}
	err := parser.Run(global, cli)
	stop()

	adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger())
	os.Exit(adapter.Report(os.Stderr, err))
}

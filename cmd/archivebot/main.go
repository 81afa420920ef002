package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/qepting91/reddit-archivebot/cmd/archivebot/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := commands.ExecuteContext(ctx)
	stop()
	os.Exit(code)
}

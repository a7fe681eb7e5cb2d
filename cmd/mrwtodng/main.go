package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cmd "github.com/bruceg/dngutils/cmd/mrwtodng/cmd"
	"github.com/bruceg/dngutils/pkg/logging"
)

func main() {
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc()
		<-ctx.Done()
	}()

	slog.SetDefault(logging.Logger(os.Stderr, false, slog.LevelInfo))

	if err := cmd.NewRoot(ctx).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "mrwtodng:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if cmd.IsIOError(err) {
		return 2
	}
	return 1
}

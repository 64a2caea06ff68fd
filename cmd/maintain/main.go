// Command maintain runs the news table repair jobs.
//
//	maintain normalize
//	maintain dedupe-slugs --reset
//	maintain all --output json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openService).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

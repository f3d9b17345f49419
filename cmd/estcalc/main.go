// Command estcalc prioritizes features by Cost of Delay, counts function points,
// and produces PERT three-point estimates from session files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Build variables - set by ldflags.
var (
	GitCommit = "unknown"
	BuildTime = "unknown"
	Version   = "dev"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: "+err.Error()))
		return 1
	}
	return 0
}

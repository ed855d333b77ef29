package main

import (
	"context"
	"flag"
	. "github.com/hive-kernel/hive/internal/state"
	"github.com/hive-kernel/hive/internal/ui/cli"
	"github.com/hive-kernel/hive/internal/ui/spinning"
	"k8s.io/klog/v2"
	"time"
)

var (
	flagMaxMoves = flag.Int(
		"max_moves", DefaultMaxMoves, "Max moves before game is considered a draw.")
	flagColor       = flag.Bool("color", true, "Use ANSI colors to tell the players' pieces apart.")
	flagClearScreen = flag.Bool("clear_screen", false, "Clear the screen before printing each board.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagMaxMoves <= 0 {
		klog.Fatalf("Invalid --max_moves=%d", *flagMaxMoves)
	}

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	// Create board and UI: a hotseat match, both players human.
	board := NewBoard()
	board.MaxMoves = *flagMaxMoves
	ui := cli.New(*flagColor, *flagClearScreen)

	if _, err := ui.Run(board); err != nil {
		klog.Exitf("Failed to run match: %+v", err)
	}
}

// Command probe is a headless check against a running board server:
// it fetches the grid dimensions and the aggregate counters and prints
// a short report, optionally repeating on an interval.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/GuyGinat/MassiveSweeperFront/internal/config"
	"github.com/GuyGinat/MassiveSweeperFront/internal/net"
)

func main() {
	var server string
	var watch bool
	var interval time.Duration
	flag.StringVar(&server, "server", config.Default().ServerURL, "server base URL")
	flag.BoolVar(&watch, "watch", false, "keep polling and reprinting the aggregates")
	flag.DurationVar(&interval, "interval", 5*time.Second, "poll interval with -watch")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Default()
	cfg.ServerURL = server
	client := net.NewClient(cfg.WebSocketURL(), cfg.ServerURL)

	info, err := client.FetchGridInfo(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("=== Massive Sweeper Board ===\n")
	fmt.Printf("server:     %s\n", server)
	fmt.Printf("grid:       %dx%d cells\n", info.Width, info.Height)
	fmt.Printf("chunk size: %d\n", info.ChunkSize)
	fmt.Printf("chunks:     %dx%d\n",
		(info.Width+info.ChunkSize-1)/info.ChunkSize,
		(info.Height+info.ChunkSize-1)/info.ChunkSize)

	for {
		stats, err := client.FetchStats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nloaded chunks:  %d\n", stats.LoadedChunks)
		fmt.Printf("revealed cells: %d\n", stats.RevealedCells)
		fmt.Printf("flagged cells:  %d\n", stats.FlaggedCells)
		fmt.Printf("players:        %d active / %d lifetime\n",
			stats.ActiveUsers, stats.LifetimeUsers)

		if !watch {
			return
		}
		time.Sleep(interval)
	}
}

package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/GuyGinat/MassiveSweeperFront/internal/config"
	"github.com/GuyGinat/MassiveSweeperFront/internal/engine"
	"github.com/GuyGinat/MassiveSweeperFront/internal/logs"
	"github.com/GuyGinat/MassiveSweeperFront/internal/net"
)

func main() {
	var cfgPath string
	var server string
	var verbose bool
	flag.StringVar(&cfgPath, "config", "", "config file path (default: XDG location)")
	flag.StringVar(&server, "server", "", "server base URL, overrides config")
	flag.BoolVar(&verbose, "verbose", false, "verbose logging")
	flag.Parse()

	if cfgPath == "" {
		p, err := config.Path()
		if err != nil {
			log.Fatal(err)
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if server != "" {
		cfg.ServerURL = server
	}
	logs.Verbose = cfg.Verbose || verbose

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := net.NewClient(cfg.WebSocketURL(), cfg.ServerURL)
	if err := client.Run(ctx); err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	ebiten.SetWindowTitle("Massive Sweeper")
	ebiten.SetWindowSize(cfg.WindowW, cfg.WindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(engine.New(cfg, client, client.Events())); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/nicebartender/bothost/bot"
	"github.com/nicebartender/bothost/platform"
	"github.com/nicebartender/bothost/server"
	"github.com/nicebartender/bothost/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg := LoadConfig()

	var st *store.Store
	if cfg.DBPath != "" {
		var err error
		st, err = store.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open request log", "err", err)
			os.Exit(1)
		}
		defer st.Close()
	}

	pool := platform.NewPool()
	defer pool.Close()

	registry, err := server.NewRegistry(
		server.Entry{
			Name:        "echo",
			Description: "Echoes back whatever it receives",
			New:         func() bot.Bot { return bot.NewEcho() },
		},
		server.Entry{
			Name:        "prompt",
			Description: "Wraps messages in a helpful-assistant prompt template",
			New:         func() bot.Bot { return bot.NewPrompt() },
		},
		server.Entry{
			Name:        "cat",
			Description: "Replies with cat facts and cat noises",
			New:         func() bot.Bot { return bot.NewCat() },
		},
		server.Entry{
			Name:        "log",
			Description: "Echoes messages and records both sides in the server log",
			New:         func() bot.Bot { return bot.NewLog() },
		},
		server.Entry{
			Name:        "app-creator",
			Description: "Forwards messages to the hosted App-Creator bot",
			New:         func() bot.Bot { return bot.NewAppCreator(pool, cfg.PlatformURL, cfg.PlatformKey) },
		},
		server.Entry{
			Name:        "enterprise",
			Description: "Proxies requests to high-end models through the Poe API",
			New:         func() bot.Bot { return bot.NewEnterprise(cfg.PoeTokenB, cfg.PoeTokenLat) },
		},
	)
	if err != nil {
		slog.Error("failed to build registry", "err", err)
		os.Exit(1)
	}

	srv := server.New(registry, st, cfg.PublicDir)

	slog.Info("bothost starting", "addr", cfg.ListenAddr, "bots", registry.Names())
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

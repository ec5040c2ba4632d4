package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/palemoky/maze-escape/internal/config"
	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/logger"
	"github.com/palemoky/maze-escape/internal/sound"
	"github.com/palemoky/maze-escape/internal/storage"
	"github.com/palemoky/maze-escape/internal/transport"
	"github.com/palemoky/maze-escape/internal/ui"
	"github.com/palemoky/maze-escape/internal/ui/model"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "config file path")
	rows := flag.Int("rows", 0, "maze rows (overrides config)")
	cols := flag.Int("cols", 0, "maze columns (overrides config)")
	seed := flag.Uint64("seed", 0, "maze seed, 0 for a random maze")
	name := flag.String("name", os.Getenv("USER"), "name stored with escape records")
	serverAddr := flag.String("server", "", "play on a maze server, e.g. localhost:1790")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
	}
	defer logger.Close()

	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			fmt.Fprintf(os.Stderr, "The game crashed, see %s\n", logger.GetLogPath())
			os.Exit(1)
		}
	}()

	var err error
	if *serverAddr != "" {
		err = runOnline(*configPath, *serverAddr)
	} else {
		err = run(*configPath, *rows, *cols, *seed, *name)
	}
	if err != nil {
		logger.LogError("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logger.LogInfo("Using default config: %v", err)
		cfg = config.Default()
	}
	return cfg
}

// newSoundPlayer returns nil when sound is off or the speaker is missing.
func newSoundPlayer(cfg *config.Config) (model.SoundPlayer, func()) {
	if !cfg.Client.SoundEnabled() {
		return nil, func() {}
	}
	sm := sound.NewSoundManager(cfg.Client.SoundDir)
	if err := sm.Init(); err != nil {
		logger.LogError("Sound disabled: %v", err)
		return nil, func() {}
	}
	if missing := sm.Missing(); len(missing) > 0 {
		logger.LogInfo("no sound file for cues %v in %s", missing, cfg.Client.SoundDir)
	}
	return sm, sm.Close
}

func runOnline(configPath, serverAddr string) error {
	cfg := loadConfig(configPath)

	c := transport.NewClient(fmt.Sprintf("ws://%s/ws", serverAddr))
	if err := c.Connect(); err != nil {
		return err
	}
	defer c.Close()
	c.StartHeartbeat()

	player, closeSound := newSoundPlayer(cfg)
	defer closeSound()

	return ui.Run(ui.NewOnlineModel(c, player))
}

func run(configPath string, rows, cols int, seed uint64, name string) error {
	cfg := loadConfig(configPath)
	if rows != 0 {
		cfg.Maze.Rows = rows
	}
	if cols != 0 {
		cfg.Maze.Cols = cols
	}
	if seed != 0 {
		cfg.Maze.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	newSource := game.ClockSource()
	if cfg.Maze.Seed != 0 {
		newSource = game.SeededSource(cfg.Maze.Seed)
	}
	session, err := game.NewSession(cfg.Maze.Rows, cfg.Maze.Cols, newSource)
	if err != nil {
		return err
	}

	var opts []model.Option
	player, closeSound := newSoundPlayer(cfg)
	defer closeSound()
	if player != nil {
		opts = append(opts, model.WithSound(player))
	}

	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		rdb, err := storage.NewRedisClient(ctx, cfg.Redis)
		cancel()
		if err != nil {
			logger.LogError("Escape records disabled: %v", err)
		} else {
			defer func() { _ = rdb.Close() }()
			if name == "" {
				name = "player"
			}
			opts = append(opts, model.WithRecorder(storage.NewRecordStore(rdb), name))
		}
	}

	return ui.Run(ui.NewModel(session, opts...))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/underkeep/underkeep/pkg/contentpkg"
	"github.com/underkeep/underkeep/pkg/network"
	"github.com/underkeep/underkeep/pkg/replay"
	"github.com/underkeep/underkeep/pkg/world"
)

func main() {
	root := newRootCommand()
	root.AddCommand(newReplayCommand())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath      string
		address         string
		maxPlayers      int
		motd            string
		seed            int64
		defaultGameMode string
		viewDistance    int32
		replayDir       string
		faviconPath     string
		logLevel        string
	)

	cmd := &cobra.Command{
		Use:   "underkeep",
		Short: "Minecraft 1.8.9 protocol dungeon server",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadFileConfig(configPath)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &fc, address, maxPlayers, motd, seed, defaultGameMode, viewDistance, replayDir, faviconPath, logLevel)
			return run(fc)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "server.yaml", "path to server.yaml")
	flags.StringVar(&address, "address", "", "listen address (overrides config)")
	flags.IntVar(&maxPlayers, "max-players", 0, "maximum players (overrides config)")
	flags.StringVar(&motd, "motd", "", "server MOTD (overrides config)")
	flags.Int64Var(&seed, "seed", 0, "world seed, 0 = derive from wall clock (overrides config)")
	flags.StringVar(&defaultGameMode, "default-gamemode", "", "default game mode (overrides config)")
	flags.Int32Var(&viewDistance, "view-distance", 0, "view distance in chunks (overrides config)")
	flags.StringVar(&replayDir, "replay-dir", "", "directory for replay files; empty disables replay recording")
	flags.StringVar(&faviconPath, "favicon", "", "path to a PNG server icon")
	flags.StringVar(&logLevel, "log-level", "", "debug, info, warn, or error (overrides config)")

	return cmd
}

func applyFlagOverrides(cmd *cobra.Command, fc *fileConfig, address string, maxPlayers int, motd string, seed int64, defaultGameMode string, viewDistance int32, replayDir, faviconPath, logLevel string) {
	flags := cmd.Flags()
	if flags.Changed("address") {
		fc.Address = address
	}
	if flags.Changed("max-players") {
		fc.MaxPlayers = maxPlayers
	}
	if flags.Changed("motd") {
		fc.MOTD = motd
	}
	if flags.Changed("seed") {
		fc.Seed = seed
	}
	if flags.Changed("default-gamemode") {
		fc.DefaultGameMode = defaultGameMode
	}
	if flags.Changed("view-distance") {
		fc.ViewDistance = viewDistance
	}
	if flags.Changed("replay-dir") {
		fc.ReplayDir = replayDir
	}
	if flags.Changed("favicon") {
		fc.FaviconPath = faviconPath
	}
	if flags.Changed("log-level") {
		fc.LogLevel = logLevel
	}
}

func run(fc fileConfig) error {
	log, err := buildLogger(fc.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	seed := fc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gameMode, ok := parseGameMode(fc.DefaultGameMode)
	if !ok {
		return fmt.Errorf("invalid default game mode %q", fc.DefaultGameMode)
	}

	spawnX, spawnY, spawnZ := fc.SpawnX, fc.SpawnY, fc.SpawnZ
	if spawnY == 0 {
		spawnX, spawnY, spawnZ = 8, 61, 8
	}

	content := contentpkg.New(contentpkg.Config{
		Seed:            seed,
		DefaultGameMode: gameMode,
		SpawnX:          spawnX,
		SpawnY:          spawnY,
		SpawnZ:          spawnZ,
	}, log.Sugar().Named("content"))

	sup := network.NewSupervisor(network.Config{
		Address:     fc.Address,
		MaxPlayers:  fc.MaxPlayers,
		MOTD:        fc.MOTD,
		FaviconPath: fc.FaviconPath,
	}, log.Sugar().Named("network"))

	viewDistance := fc.ViewDistance
	if viewDistance == 0 {
		viewDistance = world.DefaultViewDistance
	}
	w := world.NewWorld(world.Config{
		GridSize:     2 * (viewDistance + 2),
		ViewDistance: viewDistance,
		MaxPlayers:   fc.MaxPlayers,
		LevelType:    "default",
		SpawnX:       spawnX,
		SpawnY:       spawnY,
		SpawnZ:       spawnZ,
	}, content, sup, log.Sugar().Named("world"))
	sup.BindWorld(w)

	var recorder *replay.Recorder
	if fc.ReplayDir != "" {
		recorder = replay.NewRecorder(fc.ReplayDir, log.Sugar().Named("replay"))
		if err := recorder.Start(time.Now(), nil); err != nil {
			return fmt.Errorf("start replay recording: %w", err)
		}
		sup.AttachRecorder(recorder)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error { return w.Run(gctx) })
	group.Go(func() error { return sup.Serve(gctx) })

	log.Sugar().Infow("server started", "address", fc.Address, "protocol", 47, "seed", seed)
	err = group.Wait()

	if recorder != nil {
		if path, saveErr := recorder.Save(nil); saveErr != nil {
			log.Sugar().Warnw("replay save failed", "err", saveErr)
		} else {
			log.Sugar().Infow("replay saved", "path", path)
		}
	}

	if err != nil && gctx.Err() != nil {
		// Cancellation-driven shutdown, not a real failure.
		return nil
	}
	return err
}

// newReplayCommand returns the "replay" subcommand, an operational tool
// for inspecting a saved recording independent of the live server: it
// loads the file and plays each record back on its original wall-clock
// schedule, logging the profile and packet size as they come due.
func newReplayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <path>",
		Short: "play back a recorded .rcrp file on its original timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger("info")
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			sugar := log.Sugar().Named("replay")

			player := replay.NewPlayer(sugar)
			if _, err := player.Load(args[0], nil); err != nil {
				return err
			}
			defer player.End() //nolint:errcheck

			player.Start(time.Now())
			ctx := cmd.Context()
			count := 0
			for {
				rec, err := player.GetPacket(ctx)
				if errors.Is(err, replay.ErrEndOfFile) {
					break
				}
				if err != nil {
					return err
				}
				count++
				sugar.Infow("packet", "profile", rec.Profile, "bytes", len(rec.Packet))
			}
			sugar.Infow("replay finished", "packets", count)
			return nil
		},
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = nil
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

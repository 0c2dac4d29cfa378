package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brensch/snekrush/logging"
	"github.com/brensch/snekrush/rules"
	"github.com/brensch/snekrush/session"
	"github.com/brensch/snekrush/sound"
	"github.com/brensch/snekrush/tui"
	"github.com/brensch/snekrush/web"
)

func main() {
	defaults := rules.DefaultSettings()

	mode := flag.String("mode", getEnvOrDefault("MODE", "tui"), "Front end: tui or web")
	listen := flag.String("listen", getEnvOrDefault("LISTEN", ":8000"), "Web listen address; busy ports are skipped")
	portScan := flag.Int("port-scan", getEnvIntOrDefault("PORT_SCAN", web.DefaultPortScan), "How many ports to try from -listen upward")
	showQR := flag.Bool("qr", getEnvBoolOrDefault("QR", true), "Print the web join URL as a QR code")
	seed := flag.Int64("seed", getEnvInt64OrDefault("SEED", 0), "Random seed (0 picks one from the clock)")

	grid := flag.Int("grid", getEnvIntOrDefault("GRID", int(defaults.Width)), "Board width and height in cells")
	wrap := flag.Bool("wrap", getEnvBoolOrDefault("WRAP", defaults.Wrap), "Wrap around the edges instead of dying on walls")
	snakeLen := flag.Int("snake-length", getEnvIntOrDefault("SNAKE_LENGTH", defaults.SnakeLength), "Starting snake length")
	timeLimit := flag.Duration("time-limit", getEnvDurationOrDefault("TIME_LIMIT", defaults.TimeLimit), "Game length")
	obstacles := flag.Int("obstacles", getEnvIntOrDefault("OBSTACLES", defaults.Obstacles), "Number of obstacles")
	obstacleEvery := flag.Duration("obstacle-every", getEnvDurationOrDefault("OBSTACLE_EVERY", defaults.ObstacleEvery), "Obstacle drift period (0 keeps them still)")
	red := flag.Int("red", getEnvIntOrDefault("RED", defaults.Food.Red), "Red food on the board")
	yellow := flag.Int("yellow", getEnvIntOrDefault("YELLOW", defaults.Food.Yellow), "Yellow food on the board")
	blue := flag.Int("blue", getEnvIntOrDefault("BLUE", defaults.Food.Blue), "Blue food on the board")

	soundOn := flag.Bool("sound", getEnvBoolOrDefault("SOUND", false), "Play tones in tui mode")
	volume := flag.Float64("volume", getEnvFloatOrDefault("VOLUME", 0.5), "Sound volume (0..1)")

	logFile := flag.String("log-file", getEnvOrDefault("LOG_FILE", ""), "Log file (tui mode defaults to snek.log)")
	logFormat := flag.String("log-format", getEnvOrDefault("LOG_FORMAT", string(logging.FormatPretty)), "Log format: pretty or json")
	logLevel := flag.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	flag.Parse()

	// Logs would tear up the terminal UI, so tui mode always writes to a file.
	if *mode == "tui" && *logFile == "" {
		*logFile = "snek.log"
	}
	logger, closeLog, err := logging.Setup(logging.Options{
		Format: logging.Format(*logFormat),
		Level:  *logLevel,
		File:   *logFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "snek: %v\n", err)
		os.Exit(2)
	}
	defer closeLog()

	if *grid < 5 || *grid > rules.MaxSide {
		logger.Error("invalid settings", "err", fmt.Errorf("grid %d outside 5..%d", *grid, rules.MaxSide))
		os.Exit(2)
	}
	settings := defaults
	settings.Width, settings.Height = int32(*grid), int32(*grid)
	settings.Wrap = *wrap
	settings.SnakeLength = *snakeLen
	settings.TimeLimit = *timeLimit
	settings.Obstacles = *obstacles
	settings.ObstacleEvery = *obstacleEvery
	settings.Food = rules.FoodSettings{Red: *red, Yellow: *yellow, Blue: *blue}
	if err := settings.Validate(); err != nil {
		logger.Error("invalid settings", "err", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting snek",
		"mode", *mode,
		"grid", *grid,
		"wrap", *wrap,
		"timeLimit", *timeLimit,
		"obstacles", *obstacles,
		"food", settings.Food.Total(),
		"seed", *seed,
	)

	switch *mode {
	case "tui":
		err = runTUI(ctx, logger, settings, *seed, *soundOn, *volume)
	case "web":
		err = runWeb(ctx, logger, settings, *seed, *listen, *portScan, *showQR)
	default:
		err = fmt.Errorf("unknown mode %q (want tui or web)", *mode)
	}
	if err != nil {
		logger.Error("snek stopped", "err", err)
		closeLog()
		os.Exit(1)
	}
	logger.Info("bye")
}

func runTUI(ctx context.Context, logger *slog.Logger, settings rules.Settings, seed int64, soundOn bool, volume float64) error {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess, err := session.New(settings, seed)
	if err != nil {
		return err
	}
	logger.Info("session ready", "seed", seed)

	player := sound.New(soundOn, volume, logger)
	if err := player.Init(); err != nil {
		logger.Warn("sound disabled", "err", err)
	}
	defer player.Close()

	if err := tui.Run(ctx, sess, tui.WithSound(player), tui.WithLogger(logger)); err != nil {
		return err
	}
	logger.Info("session finished", "games", sess.Games(), "best", sess.Best())
	return nil
}

func runWeb(ctx context.Context, logger *slog.Logger, settings rules.Settings, seed int64, listen string, portScan int, showQR bool) error {
	srv, err := web.New(web.Config{Settings: settings, Seed: seed, Logger: logger})
	if err != nil {
		return err
	}
	ln, err := web.Listen(listen, portScan)
	if err != nil {
		return err
	}

	url := web.JoinURL(ln.Addr())
	logger.Info("web server listening", "addr", ln.Addr().String(), "url", url)
	fmt.Printf("Open %s to play\n", url)
	if showQR {
		if err := web.WriteQR(os.Stdout, url); err != nil {
			logger.Warn("qr code", "err", err)
		}
	}
	return srv.Serve(ctx, ln)
}

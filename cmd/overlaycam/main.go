// Package main provides the CLI entry point for overlaycam, a demo host
// that runs the shape-overlay filter against a screen capture or a
// directory of still frames.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/disintegration/imaging"

	"github.com/soocke/shape-overlay-go/config"
	"github.com/soocke/shape-overlay-go/debug"
	"github.com/soocke/shape-overlay-go/filter"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Run     RunCmd     `cmd:"" help:"Process frames from a source through the overlay filter."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// RunCmd defines the run subcommand.
type RunCmd struct {
	// Settings
	Settings string `short:"s" default:"overlaycam.yaml" help:"Settings file (YAML), reloaded on SIGHUP."`

	// Frame source
	Source string `default:"screen" enum:"screen,dir" help:"Frame source (screen or dir)."`
	Frames string `type:"existingdir" help:"Directory of still images for --source=dir."`
	FPS    int    `default:"10" help:"Frames per second to process."`

	// Run bounds
	Count    int           `short:"n" help:"Stop after this many frames (0 = until the source ends)."`
	Duration time.Duration `help:"Stop after this duration (0 = unlimited)."`

	// Output
	Out string `short:"o" help:"Directory to write processed frames into as PNGs."`

	// Filter options (override the settings file)
	Template        *string  `help:"Template image path."`
	Overlay         *string  `help:"Overlay image path."`
	Threshold       *float64 `help:"Match threshold (0..1)."`
	IntervalMS      *int     `help:"Minimum milliseconds between template searches."`
	Opacity         *float64 `help:"Overlay opacity (0..100)."`
	OffsetX         *int     `help:"Horizontal draw offset in pixels."`
	OffsetY         *int     `help:"Vertical draw offset in pixels."`
	OnlyWhenMatched *bool    `help:"Hide the overlay after a missed search."`

	// Debug options
	Debug    bool   `short:"d" help:"Write annotated match snapshots and runtime metrics."`
	DebugDir string `help:"Directory for debug snapshots (default from settings)."`

	// Logging options
	StatsEvery time.Duration `default:"5s" help:"Interval between stats log lines."`
	LogLevel   string        `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet      bool          `short:"Q" help:"Suppress all log output."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("overlaycam"),
		kong.Description("Overlay an image wherever a template matches in a frame stream."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the run command.
func (cmd *RunCmd) Run() error {
	logger := cmd.logger()

	settings, err := config.Load(cmd.Settings)
	if err != nil {
		logger.Warn("settings.load", "path", cmd.Settings, "error", err)
	}
	settings = cmd.apply(settings)

	src, err := cmd.newSource()
	if err != nil {
		return err
	}
	defer src.Close()

	if cmd.Out != "" {
		if err := os.MkdirAll(cmd.Out, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f := filter.New(settings, logger)
	defer f.Close()

	var snap *debug.SnapshotWriter
	if settings.Debug {
		snap = debug.NewSnapshotWriter(settings.DebugDir, logger)
		debug.StartMemLogger(0, logger)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Warn("run.interrupt")
		cancel()
	}()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)
	go func() {
		for range hupCh {
			reloaded, err := config.Load(cmd.Settings)
			if err != nil {
				logger.Warn("settings.reload", "path", cmd.Settings, "error", err)
				continue
			}
			f.Update(cmd.apply(reloaded))
			logger.Info("settings.reloaded", "path", cmd.Settings)
		}
	}()

	logger.Info("run.start",
		"source", cmd.Source,
		"fps", cmd.FPS,
		"template", settings.TemplatePath,
		"overlay", settings.OverlayPath,
	)

	report := &runReport{}
	cmd.loop(ctx, f, src, snap, logger, report)

	final := f.Stats()
	logStats(logger, final)
	report.render(os.Stdout, final)
	return nil
}

// loop drives the frame pump until the context is cancelled, the run bounds
// are hit, or the source runs dry.
func (cmd *RunCmd) loop(ctx context.Context, f *filter.Filter, src frameSource, snap *debug.SnapshotWriter, logger *slog.Logger, report *runReport) {
	fps := cmd.FPS
	if fps < 1 {
		fps = 1
	}
	frameTick := time.NewTicker(time.Second / time.Duration(fps))
	defer frameTick.Stop()

	every := cmd.StatsEvery
	if every <= 0 {
		every = 5 * time.Second
	}
	statsTick := time.NewTicker(every)
	defer statsTick.Stop()

	var deadline <-chan time.Time
	if cmd.Duration > 0 {
		deadline = time.After(cmd.Duration)
	}

	n := 0
	for cmd.Count == 0 || n < cmd.Count {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			return
		case <-statsTick.C:
			logStats(logger, f.Stats())
			continue
		case <-frameTick.C:
		}

		img, err := src.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			logger.Warn("source.frame", "error", err)
			continue
		}
		fr := filter.FrameFromImage(img)
		if fr == nil {
			logger.Warn("source.convert")
			continue
		}
		f.ProcessFrame(fr)
		n++

		st := f.Stats()
		fresh := report.observe(st)

		var out *image.NRGBA
		if cmd.Out != "" || (snap != nil && fresh && st.LastValid) {
			out = fr.ToImage()
		}
		if snap != nil && fresh && st.LastValid && out != nil {
			snap.Save(out, st.LastX, st.LastY, st.MatchW, st.MatchH, st.LastScore)
		}
		if cmd.Out != "" && out != nil {
			name := filepath.Join(cmd.Out, fmt.Sprintf("frame_%05d.png", n))
			if err := imaging.Save(out, name); err != nil {
				logger.Warn("output.save", "path", name, "error", err)
			}
		}
	}
}

// apply folds command-line overrides into settings loaded from the file.
func (cmd *RunCmd) apply(s config.Settings) config.Settings {
	if cmd.Template != nil {
		s.TemplatePath = *cmd.Template
	}
	if cmd.Overlay != nil {
		s.OverlayPath = *cmd.Overlay
	}
	if cmd.Threshold != nil {
		s.Threshold = *cmd.Threshold
	}
	if cmd.IntervalMS != nil {
		s.IntervalMS = *cmd.IntervalMS
	}
	if cmd.Opacity != nil {
		s.Opacity = *cmd.Opacity
	}
	if cmd.OffsetX != nil {
		s.OffsetX = *cmd.OffsetX
	}
	if cmd.OffsetY != nil {
		s.OffsetY = *cmd.OffsetY
	}
	if cmd.OnlyWhenMatched != nil {
		s.OnlyWhenMatched = *cmd.OnlyWhenMatched
	}
	if cmd.Debug {
		s.Debug = true
	}
	if cmd.DebugDir != "" {
		s.DebugDir = cmd.DebugDir
	}
	s.Normalize()
	return s
}

func (cmd *RunCmd) logger() *slog.Logger {
	if cmd.Quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return NewLogger(parseLevel(cmd.LogLevel))
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Printf("overlaycam version %s\n", version)
	return nil
}

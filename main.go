// ABOUTME: Entry point for the pcaudio playback tool
// ABOUTME: Plays a test tone, raw PCM or a WAV file through the first available output
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"github.com/joho/godotenv"

	"github.com/Resonate-Protocol/pcaudio-go/internal/input"
	"github.com/Resonate-Protocol/pcaudio-go/internal/tone"
	"github.com/Resonate-Protocol/pcaudio-go/internal/ui"
	"github.com/Resonate-Protocol/pcaudio-go/internal/version"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/pcaudio-go/pkg/audio/output"
)

var (
	backends    = flag.String("backend", "", "Comma separated backends to try, in order (default: all by priority)")
	device      = flag.String("device", "", "Backend specific device name")
	name        = flag.String("name", "", "Application name reported to sound servers")
	description = flag.String("description", "", "Stream description reported to sound servers")
	formatName  = flag.String("format", "s16le", "Sample format for tone and raw input")
	rate        = flag.Int("rate", 44100, "Sample rate for tone and raw input")
	channels    = flag.Int("channels", 2, "Channel count for tone and raw input")
	frequency   = flag.Float64("tone", tone.DefaultFrequency, "Tone frequency in Hz")
	duration    = flag.Duration("duration", 2*time.Second, "Tone duration")
	inputPath   = flag.String("input", "", "Raw PCM file, WAV file, or - for stdin (default: tone)")
	logLevel    = flag.String("log-level", "info", "Log level (trace, debug, info, warn, error, critical, off)")
	logFile     = flag.String("log-file", "pcaudio-play.log", "Log file path (used in TUI mode)")
	useTUI      = flag.Bool("tui", false, "Show the status screen; q flushes and quits")
	envFile     = flag.String("env", ".env", "Environment file with PCAUDIO_* settings")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

var log = slog.Disabled

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", version.Product, version.Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pcaudio-play: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", *envFile, err)
	}

	closeLog, err := setupLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	cfg := buildConfig(output.LoadConfig())

	obj, err := output.CreateWithConfig(cfg)
	if err != nil {
		return err
	}
	defer obj.Destroy()

	log.Infof("Using %s output (handle %s)", obj.Backend(), obj.ID())

	src, err := openSource()
	if err != nil {
		return err
	}
	defer src.Close()

	sc := src.Config
	if err := obj.Open(sc.Format, sc.SampleRate, sc.Channels); err != nil {
		code := output.Code(err)
		return fmt.Errorf("open %s: %s (%d)", sc, obj.Strerror(code), code)
	}
	defer obj.Close()

	log.Infof("Opened %s", sc)

	p := newPlayer(obj, src)

	if !*useTUI {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Infof("Shutdown signal received, flushing")
			p.Flush()
		}()

		return p.Play(nil)
	}

	ctrl := ui.NewControl(p.Flush)
	prog, err := ui.Run(ctrl)
	if err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Play(func(msg ui.StatusMsg) { prog.Send(msg) })
	}()

	if _, err := prog.Run(); err != nil {
		p.Flush()
		<-done
		return fmt.Errorf("TUI failed: %w", err)
	}

	// q already flushed; ctrl+c leaves playback to finish draining.
	return <-done
}

func setupLogging() (func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}

	if *useTUI {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	}

	level, ok := slog.LevelFromString(*logLevel)
	if !ok {
		closer()
		return nil, fmt.Errorf("unknown log level %q", *logLevel)
	}

	backend := slog.NewBackend(w)

	log = backend.Logger("PLAY")
	log.SetLevel(level)

	outLog := backend.Logger("AOUT")
	outLog.SetLevel(level)
	output.UseLogger(outLog)

	return closer, nil
}

// buildConfig layers command-line flags over the environment configuration.
func buildConfig(cfg output.Config) output.Config {
	if *backends != "" {
		cfg.Backends = output.ParseBackendList(*backends)
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *name != "" {
		cfg.ApplicationName = *name
	}
	if cfg.ApplicationName == "" {
		cfg.ApplicationName = version.Product
	}
	if *description != "" {
		cfg.Description = *description
	}
	return cfg
}

func openSource() (*input.Source, error) {
	format, err := audio.ParseSampleFormat(*formatName)
	if err != nil {
		return nil, err
	}

	cfg := audio.StreamConfig{Format: format, SampleRate: *rate, Channels: *channels}

	if *inputPath != "" {
		return input.Open(*inputPath, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sine, err := tone.NewSine(*frequency, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return nil, fmt.Errorf("tone %.1fHz at %dHz: %w", *frequency, cfg.SampleRate, err)
	}

	enc, err := encode.NewPCM(format)
	if err != nil {
		return nil, fmt.Errorf("cannot generate a tone in %s: %w", format, err)
	}

	frames := int64(duration.Seconds() * float64(cfg.SampleRate))

	return &input.Source{
		Reader: tone.NewReader(sine, enc, frames),
		Config: cfg,
		Length: frames * int64(cfg.FrameSize()),
	}, nil
}

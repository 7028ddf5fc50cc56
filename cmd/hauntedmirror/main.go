// Command hauntedmirror plays the haunted mirror animation on an SPI LCD.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/hauntedmirror/animation"
	"github.com/BeatGlow/hauntedmirror/config"
	"github.com/BeatGlow/hauntedmirror/conn"
	"github.com/BeatGlow/hauntedmirror/controller"
	"github.com/BeatGlow/hauntedmirror/display"
	"github.com/BeatGlow/hauntedmirror/flicker"
	"github.com/BeatGlow/hauntedmirror/random"
	"github.com/BeatGlow/hauntedmirror/refresh"
	"github.com/BeatGlow/hauntedmirror/video"
)

func main() {
	configFlag := flag.String("config", config.DefaultFile, "Configuration file")
	writeConfigFlag := flag.Bool("write-config", false, "Write the default configuration to the configuration file and exit")
	reelsFlag := flag.String("reels", "", "Reel directory (overrides the configuration)")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	fs := afero.NewOsFs()
	if *writeConfigFlag {
		if err := config.Save(fs, *configFlag, &config.Defaults); err != nil {
			log.Fatal().Err(err).Msg("write configuration failed")
		}
		log.Info().Str("path", *configFlag).Msg("default configuration written")
		return
	}

	values, err := config.Load(fs, *configFlag)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", *configFlag).Msg("no configuration file, using defaults")
		values, err = config.Defaults, nil
	}
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}
	if *reelsFlag != "" {
		values.Animation.Dir = *reelsFlag
	}
	if *debugFlag || values.Debug || os.Getenv("DISPLAY_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if _, err = host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, fs, &values); err != nil {
		log.Fatal().Err(err).Msg("stopped")
	}
}

// run plays until ctx is done. Every error it returns is a hardware fault.
func run(ctx context.Context, fs afero.Fs, values *config.Values) error {
	order, err := values.Display.Order()
	if err != nil {
		return err
	}
	ctlr, err := controller.ByName(values.Display.Controller)
	if err != nil {
		return err
	}

	bus, err := conn.OpenSPI(&conn.SPIConfig{
		Port:            values.Display.Port,
		SpeedHz:         values.Display.SpeedHz,
		Mode:            conn.DefaultSPIConfig.Mode,
		QueueSize:       values.Display.QueueSize,
		MaxTransferSize: conn.DefaultMaxTransferSize,
		Timeout:         values.Display.Timeout(),
		Reset:           gpioreg.ByName(values.Display.Reset),
		DC:              gpioreg.ByName(values.Display.DC),
		CS:              gpioreg.ByName(values.Display.CS),
		Controller:      ctlr,
	})
	if err != nil {
		return err
	}
	screen, err := display.New(bus, &display.Config{
		Width:    values.Display.Width,
		Height:   values.Display.Height,
		PoolSize: values.Display.PoolSize,
	})
	if err != nil {
		_ = bus.Close()
		return err
	}
	defer screen.Close()
	log.Info().Stringer("display", screen).Msg("display ready")

	var src *random.PCG
	if values.Animation.Seed != 0 {
		src = random.New(values.Animation.Seed)
	} else {
		src = random.NewFromEntropy()
	}

	loopTicks := values.LoopTicks()
	anim, err := animation.New(fs, src, &animation.Config{
		Dir:               values.Animation.Dir,
		Width:             values.Display.Width,
		Height:            values.Display.Height,
		Channel:           order,
		LoopTicks:         loopTicks,
		ChangeProbability: values.Animation.ChangeProbability,
	})
	if err != nil {
		return err
	}

	streamer, err := video.NewStreamer(screen, anim, src, &video.Config{
		StripeHeight: values.Video.StripeHeight,
		Static:       values.Video.Static,
		Bounds:       values.Video.Bounds,
	})
	if err != nil {
		return err
	}

	// Blank the screen before the backlight comes on.
	if err = streamer.Blank(); err != nil {
		return err
	}

	brightness := 1.0
	if values.Flicker.Enabled {
		brightness = 0
	}
	backlight, err := flicker.NewBacklight(
		gpioreg.ByName(values.Flicker.BacklightPin),
		physic.Frequency(values.Flicker.FrequencyHz)*physic.Hertz,
		brightness)
	if err != nil {
		return err
	}
	defer backlight.Close()
	if err = backlight.SetGamma(values.Flicker.Gamma); err != nil {
		return err
	}
	effect := flicker.NewEffect(backlight, loopTicks, values.Flicker.Enabled)

	clock, err := refresh.New(clockwork.NewRealClock(), values.RefreshHz)
	if err != nil {
		return err
	}
	defer clock.Stop()

	log.Info().
		Float64("refresh_hz", values.RefreshHz).
		Bool("static", values.Video.Static).
		Bool("flicker", values.Flicker.Enabled).
		Msg("playing")
	for {
		if err = clock.Wait(ctx); err != nil {
			log.Info().Msg("shutting down")
			return nil
		}
		if err = effect.Update(); err != nil {
			return err
		}
		if err = streamer.Update(); err != nil {
			return err
		}
		// Decoding the next frame is slow, it goes last.
		anim.Tick()
	}
}

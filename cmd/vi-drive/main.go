package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/vi-drive/audio"
	"github.com/lixenwraith/vi-drive/camera"
	"github.com/lixenwraith/vi-drive/clock"
	"github.com/lixenwraith/vi-drive/config"
	"github.com/lixenwraith/vi-drive/control"
	"github.com/lixenwraith/vi-drive/core"
	"github.com/lixenwraith/vi-drive/engine"
	"github.com/lixenwraith/vi-drive/event"
	"github.com/lixenwraith/vi-drive/input"
	"github.com/lixenwraith/vi-drive/logging"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/physics"
	"github.com/lixenwraith/vi-drive/render"
	"github.com/lixenwraith/vi-drive/status"
	"github.com/lixenwraith/vi-drive/telemetry"
	"github.com/lixenwraith/vi-drive/terminal"
)

var configFlag = flag.String("config", "", "Path to a JSON, TOML or YAML config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-drive: %v\n", err)
		os.Exit(2)
	}

	sink, err := logging.Setup(cfg.LoggingConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-drive: %v\n", err)
		os.Exit(1)
	}
	defer sink.Close()
	log := sink.Logger

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("exit with error")
		fmt.Fprintf(os.Stderr, "vi-drive: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	keys := input.DefaultKeyTable()
	if err := keys.ApplyKeymap(cfg.Keymap); err != nil {
		return err
	}

	// Physics world: static ground plane plus the vehicle
	world := physics.NewWorld()
	world.SetGravity(cfg.Gravity())
	world.SetStep(cfg.Physics.Step, cfg.Physics.MaxSubSteps)
	world.AddBody(physics.NewBody(0, physics.Plane(), mgl64.Vec3{}))

	vehicle, err := physics.NewStandardVehicle(cfg.ChassisSpec(), cfg.WheelSpec())
	if err != nil {
		return fmt.Errorf("build vehicle: %w", err)
	}
	if err := vehicle.AddToWorld(world); err != nil {
		return fmt.Errorf("add vehicle: %w", err)
	}

	wall := clock.Wall{}
	game := clock.NewPausableFrom(wall)
	reg := status.NewRegistry()
	queue := event.NewQueue()

	ctrl := control.New(cfg.ControlConfig(), vehicle, game, log)
	follower := camera.NewFollower(cfg.CameraConfig(), log)

	driver := engine.NewDriver(engine.Components{
		World:   world,
		Vehicle: vehicle,
		Control: ctrl,
		Camera:  follower,
		Queue:   queue,
		Clock:   game,
		Wall:    wall,
		Status:  reg,
	}, cfg.Physics.FrameInterval, log)

	term := terminal.NewService(nil, log)
	if err := term.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer term.Stop()

	renderer := render.NewTerminalRenderer(term.Screen(), reg)
	driver.AddObserver(engine.ObserverFunc(func(f *engine.Frame) {
		renderer.RenderFrame(f.Scene)
	}))

	sound := audio.NewManager(cfg.AudioConfig(), log)
	defer sound.Close()
	if cfg.Audio.Enabled {
		attachAudio(driver.Deferred(), sound, ctrl, reg, log)
	}

	stopTelemetry := startTelemetry(cfg, driver, reg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pump := terminal.NewPump(keys, queue, wall, cfg.Control.KeyRelease, log)
	pump.OnResize(func() {
		renderer.Resize()
		term.Screen().Sync()
	})
	term.Start()
	core.Go(func() { pump.Run(ctx, term.Events()) })

	log.Info().Dur("interval", cfg.Physics.FrameInterval).Msg("driving")
	err = driver.Run(ctx)
	cancel()

	stopTelemetry(wall.Now())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// attachAudio retries the speaker until it opens; cues before then are dropped
func attachAudio(d *engine.Deferred, m *audio.Manager, ctrl *control.Controller, reg *status.Registry, log zerolog.Logger) {
	ready := reg.Bools.Get(status.KeyAudioReady)
	d.AddRetry("audio", parameter.AudioAttachRetry, func(time.Time) bool {
		if err := m.Initialize(); err != nil {
			log.Debug().Err(err).Msg("audio not ready")
			return false
		}
		ctrl.AttachAudio(m)
		ready.Store(true)
		return true
	})
}

// startTelemetry registers the recorder and retries the store connection.
// The returned func ends the session and closes the store.
func startTelemetry(cfg *config.Config, driver *engine.Driver, reg *status.Registry, log zerolog.Logger) func(time.Time) {
	if !cfg.Telemetry.Enabled {
		return func(time.Time) {}
	}

	metrics, err := telemetry.NewMetrics(telemetry.DefaultMeter())
	if err != nil {
		log.Warn().Err(err).Msg("telemetry metrics disabled")
		metrics = nil
	}
	rec := telemetry.NewRecorder(cfg.RecorderConfig(), metrics, log)
	rec.PublishSamples(reg.Ints.Get(status.KeySamples))
	driver.AddObserver(rec)

	if cfg.Telemetry.Influx.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		sink, err := telemetry.NewInfluxSink(ctx, cfg.InfluxConfig(), log)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("influx mirror disabled")
		} else {
			rec.AttachInflux(sink)
		}
	}

	// Written on the driver goroutine, read after Run returns
	var store *telemetry.Store
	driver.Deferred().AddRetry("telemetry", cfg.Telemetry.RetryInterval, func(now time.Time) bool {
		s, err := telemetry.Open(cfg.StoreConfig(), log)
		if err != nil {
			log.Warn().Err(err).Msg("telemetry store unavailable")
			return false
		}
		if err := rec.AttachStore(s, now, cfg); err != nil {
			log.Warn().Err(err).Msg("telemetry session not started")
			_ = s.Close()
			return false
		}
		store = s
		return true
	})

	return func(at time.Time) {
		if err := rec.Close(at); err != nil {
			log.Warn().Err(err).Msg("telemetry close")
		}
		if store != nil {
			_ = store.Close()
		}
	}
}

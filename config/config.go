// Package config loads run configuration with viper: built-in defaults,
// an optional file and VIDRIVE_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/viper"

	"github.com/lixenwraith/vi-drive/audio"
	"github.com/lixenwraith/vi-drive/camera"
	"github.com/lixenwraith/vi-drive/control"
	"github.com/lixenwraith/vi-drive/logging"
	"github.com/lixenwraith/vi-drive/parameter"
	"github.com/lixenwraith/vi-drive/physics"
	"github.com/lixenwraith/vi-drive/telemetry"
)

// EnvPrefix is prepended to environment overrides, e.g. VIDRIVE_CONTROL_STEERINGLIMIT
const EnvPrefix = "VIDRIVE"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid config")

type VehicleConfig struct {
	Mass            float64 `mapstructure:"mass"`
	HalfWidth       float64 `mapstructure:"halfWidth"`
	HalfHeight      float64 `mapstructure:"halfHeight"`
	HalfLength      float64 `mapstructure:"halfLength"`
	SpawnHeight     float64 `mapstructure:"spawnHeight"`
	WheelRadius     float64 `mapstructure:"wheelRadius"`
	Stiffness       float64 `mapstructure:"suspensionStiffness"`
	RestLength      float64 `mapstructure:"suspensionRestLength"`
	MaxTravel       float64 `mapstructure:"suspensionMaxTravel"`
	FrictionSlip    float64 `mapstructure:"frictionSlip"`
	DampingRelax    float64 `mapstructure:"dampingRelaxation"`
	DampingCompress float64 `mapstructure:"dampingCompression"`
	MaxSuspension   float64 `mapstructure:"maxSuspensionForce"`
	RollingFriction float64 `mapstructure:"rollingFriction"`
	SideFriction    float64 `mapstructure:"sideFrictionStiffness"`
}

type ControlConfig struct {
	KickForce       float64       `mapstructure:"kickForce"`
	ThrottleForce   float64       `mapstructure:"throttleForce"`
	ReverseForce    float64       `mapstructure:"reverseForce"`
	ThrottleDamping float64       `mapstructure:"throttleDamping"`
	SteeringStep    float64       `mapstructure:"steeringStep"`
	SteeringLimit   float64       `mapstructure:"steeringLimit"`
	HeadlightsOn    float64       `mapstructure:"headlightsOn"`
	HeadlightsTurbo float64       `mapstructure:"headlightsTurbo"`
	TurboDuration   time.Duration `mapstructure:"turboDuration"`
	TurboRetrigger  string        `mapstructure:"turboRetrigger"`
	TurboDriveBoost float64       `mapstructure:"turboDriveBoost"`
	KeyRelease      time.Duration `mapstructure:"keyReleaseTimeout"`
}

type CameraConfig struct {
	Start     []float64 `mapstructure:"start"`
	ChaseZ    float64   `mapstructure:"chaseZ"`
	Lerp      float64   `mapstructure:"lerp"`
	Look      []float64 `mapstructure:"look"`
	Reset     []float64 `mapstructure:"reset"`
	OrbitStep float64   `mapstructure:"orbitStep"`
}

type PhysicsConfig struct {
	Gravity       float64       `mapstructure:"gravity"`
	Step          time.Duration `mapstructure:"step"`
	MaxSubSteps   int           `mapstructure:"maxSubSteps"`
	FrameInterval time.Duration `mapstructure:"frameInterval"`
}

type AudioConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SampleRate int           `mapstructure:"sampleRate"`
	Buffer     time.Duration `mapstructure:"buffer"`
	Volume     float64       `mapstructure:"volume"`
}

type InfluxConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	Token      string        `mapstructure:"token"`
	Org        string        `mapstructure:"org"`
	Bucket     string        `mapstructure:"bucket"`
	BatchSize  uint          `mapstructure:"batchSize"`
	Flush      time.Duration `mapstructure:"flushInterval"`
	BackupPath string        `mapstructure:"backupPath"`
}

type TelemetryConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	SampleEvery   int           `mapstructure:"sampleEvery"`
	BatchSize     int           `mapstructure:"batchSize"`
	FlushInterval time.Duration `mapstructure:"flushInterval"`
	RetryInterval time.Duration `mapstructure:"retryInterval"`
	Influx        InfluxConfig  `mapstructure:"influx"`
}

type LoggingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Level       string `mapstructure:"level"`
	Dir         string `mapstructure:"dir"`
	GraylogAddr string `mapstructure:"graylogAddress"`
}

// Config is the full run configuration
type Config struct {
	Vehicle   VehicleConfig       `mapstructure:"vehicle"`
	Control   ControlConfig       `mapstructure:"control"`
	Camera    CameraConfig        `mapstructure:"camera"`
	Physics   PhysicsConfig       `mapstructure:"physics"`
	Audio     AudioConfig         `mapstructure:"audio"`
	Telemetry TelemetryConfig     `mapstructure:"telemetry"`
	Logging   LoggingConfig       `mapstructure:"logging"`
	Keymap    map[string][]string `mapstructure:"keymap"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("vehicle.mass", parameter.ChassisMass)
	v.SetDefault("vehicle.halfWidth", parameter.ChassisHalfWidth)
	v.SetDefault("vehicle.halfHeight", parameter.ChassisHalfHeight)
	v.SetDefault("vehicle.halfLength", parameter.ChassisHalfLength)
	v.SetDefault("vehicle.spawnHeight", parameter.ChassisSpawnHeight)
	v.SetDefault("vehicle.wheelRadius", parameter.WheelRadius)
	v.SetDefault("vehicle.suspensionStiffness", parameter.SuspensionStiffness)
	v.SetDefault("vehicle.suspensionRestLength", parameter.SuspensionRestLength)
	v.SetDefault("vehicle.suspensionMaxTravel", parameter.SuspensionMaxTravel)
	v.SetDefault("vehicle.frictionSlip", parameter.FrictionSlip)
	v.SetDefault("vehicle.dampingRelaxation", parameter.DampingRelaxation)
	v.SetDefault("vehicle.dampingCompression", parameter.DampingCompression)
	v.SetDefault("vehicle.maxSuspensionForce", parameter.MaxSuspensionForce)
	v.SetDefault("vehicle.rollingFriction", parameter.RollingFriction)
	v.SetDefault("vehicle.sideFrictionStiffness", parameter.SideFrictionStiffness)

	v.SetDefault("control.kickForce", parameter.EngineKickForce)
	v.SetDefault("control.throttleForce", parameter.ThrottleForce)
	v.SetDefault("control.reverseForce", parameter.ReverseForce)
	v.SetDefault("control.throttleDamping", parameter.ThrottleDamping)
	v.SetDefault("control.steeringStep", parameter.SteeringStep)
	v.SetDefault("control.steeringLimit", parameter.SteeringLimit)
	v.SetDefault("control.headlightsOn", parameter.HeadlightsOn)
	v.SetDefault("control.headlightsTurbo", parameter.HeadlightsTurbo)
	v.SetDefault("control.turboDuration", parameter.TurboDuration)
	v.SetDefault("control.turboRetrigger", control.RetriggerReschedule)
	v.SetDefault("control.turboDriveBoost", parameter.TurboDriveBoost)
	v.SetDefault("control.keyReleaseTimeout", parameter.KeyReleaseTimeout)

	v.SetDefault("camera.start", []float64{parameter.CameraStartX, parameter.CameraStartY, parameter.CameraStartZ})
	v.SetDefault("camera.chaseZ", parameter.CameraChaseZ)
	v.SetDefault("camera.lerp", parameter.CameraLerp)
	v.SetDefault("camera.look", []float64{parameter.CameraLookX, parameter.CameraLookY, parameter.CameraLookZ})
	v.SetDefault("camera.reset", []float64{parameter.CameraResetX, parameter.CameraResetY, parameter.CameraResetZ})
	v.SetDefault("camera.orbitStep", parameter.CameraOrbitStep)

	v.SetDefault("physics.gravity", parameter.GravityY)
	v.SetDefault("physics.step", parameter.FixedStepDuration)
	v.SetDefault("physics.maxSubSteps", parameter.MaxSubSteps)
	v.SetDefault("physics.frameInterval", parameter.FrameInterval)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sampleRate", parameter.AudioSampleRate)
	v.SetDefault("audio.buffer", parameter.AudioBufferDuration)
	v.SetDefault("audio.volume", parameter.AudioMasterVolume)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.driver", telemetry.DriverSQLite)
	v.SetDefault("telemetry.dsn", "vi-drive.db")
	v.SetDefault("telemetry.sampleEvery", parameter.TelemetrySampleEvery)
	v.SetDefault("telemetry.batchSize", parameter.TelemetryBatchSize)
	v.SetDefault("telemetry.flushInterval", parameter.TelemetryFlushInterval)
	v.SetDefault("telemetry.retryInterval", parameter.TelemetryRetryInterval)
	v.SetDefault("telemetry.influx.enabled", false)
	v.SetDefault("telemetry.influx.url", "http://localhost:8086")
	v.SetDefault("telemetry.influx.token", "")
	v.SetDefault("telemetry.influx.org", "vi-drive")
	v.SetDefault("telemetry.influx.bucket", "vehicle")
	v.SetDefault("telemetry.influx.batchSize", 500)
	v.SetDefault("telemetry.influx.flushInterval", time.Second)
	v.SetDefault("telemetry.influx.backupPath", "")

	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", logging.DefaultDir)
	v.SetDefault("logging.graylogAddress", "")
}

// Load builds the configuration. An empty path uses defaults and the
// environment only; otherwise the file must exist and parse.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges the simulation depends on
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Vehicle.Mass > 0, "vehicle.mass must be positive, got %g", c.Vehicle.Mass)
	check(c.Vehicle.WheelRadius > 0, "vehicle.wheelRadius must be positive, got %g", c.Vehicle.WheelRadius)
	check(c.Control.SteeringLimit > 0, "control.steeringLimit must be positive, got %g", c.Control.SteeringLimit)
	check(c.Control.SteeringStep > 0, "control.steeringStep must be positive, got %g", c.Control.SteeringStep)
	check(c.Control.TurboDuration > 0, "control.turboDuration must be positive, got %s", c.Control.TurboDuration)
	check(c.Control.TurboRetrigger == control.RetriggerReschedule || c.Control.TurboRetrigger == control.RetriggerStack,
		"control.turboRetrigger must be %q or %q, got %q", control.RetriggerReschedule, control.RetriggerStack, c.Control.TurboRetrigger)
	check(c.Control.KeyRelease > 0, "control.keyReleaseTimeout must be positive, got %s", c.Control.KeyRelease)
	check(c.Camera.Lerp > 0 && c.Camera.Lerp <= 1, "camera.lerp must be in (0, 1], got %g", c.Camera.Lerp)
	check(len(c.Camera.Start) == 3, "camera.start needs 3 components, got %d", len(c.Camera.Start))
	check(len(c.Camera.Look) == 3, "camera.look needs 3 components, got %d", len(c.Camera.Look))
	check(len(c.Camera.Reset) == 3, "camera.reset needs 3 components, got %d", len(c.Camera.Reset))
	check(c.Physics.Step > 0, "physics.step must be positive, got %s", c.Physics.Step)
	check(c.Physics.MaxSubSteps > 0, "physics.maxSubSteps must be positive, got %d", c.Physics.MaxSubSteps)
	check(c.Physics.FrameInterval > 0, "physics.frameInterval must be positive, got %s", c.Physics.FrameInterval)
	check(c.Audio.SampleRate > 0, "audio.sampleRate must be positive, got %d", c.Audio.SampleRate)
	if c.Telemetry.Enabled {
		check(c.Telemetry.Driver == telemetry.DriverSQLite || c.Telemetry.Driver == telemetry.DriverPostgres,
			"telemetry.driver must be %q or %q, got %q", telemetry.DriverSQLite, telemetry.DriverPostgres, c.Telemetry.Driver)
		check(c.Telemetry.SampleEvery > 0, "telemetry.sampleEvery must be positive, got %d", c.Telemetry.SampleEvery)
	}
	return errors.Join(errs...)
}

// ChassisSpec returns the chassis body spec
func (c *Config) ChassisSpec() physics.ChassisSpec {
	return physics.ChassisSpec{
		Mass:        c.Vehicle.Mass,
		HalfExtents: mgl64.Vec3{c.Vehicle.HalfWidth, c.Vehicle.HalfHeight, c.Vehicle.HalfLength},
		Position:    mgl64.Vec3{0, c.Vehicle.SpawnHeight, 0},
	}
}

// WheelSpec returns the shared wheel tuning
func (c *Config) WheelSpec() physics.WheelSpec {
	w := physics.DefaultWheelSpec()
	w.Radius = c.Vehicle.WheelRadius
	w.SuspensionStiffness = c.Vehicle.Stiffness
	w.SuspensionRestLength = c.Vehicle.RestLength
	w.MaxSuspensionTravel = c.Vehicle.MaxTravel
	w.FrictionSlip = c.Vehicle.FrictionSlip
	w.DampingRelaxation = c.Vehicle.DampingRelax
	w.DampingCompression = c.Vehicle.DampingCompress
	w.MaxSuspensionForce = c.Vehicle.MaxSuspension
	w.RollingFriction = c.Vehicle.RollingFriction
	w.SideFrictionStiffness = c.Vehicle.SideFriction
	return w
}

// ControlConfig returns the controller tuning
func (c *Config) ControlConfig() control.Config {
	return control.Config{
		KickForce:       c.Control.KickForce,
		ThrottleForce:   c.Control.ThrottleForce,
		ReverseForce:    c.Control.ReverseForce,
		ThrottleDamping: c.Control.ThrottleDamping,
		SteeringStep:    c.Control.SteeringStep,
		SteeringLimit:   c.Control.SteeringLimit,
		HeadlightsOn:    c.Control.HeadlightsOn,
		HeadlightsTurbo: c.Control.HeadlightsTurbo,
		TurboDuration:   c.Control.TurboDuration,
		TurboRetrigger:  c.Control.TurboRetrigger,
		TurboDriveBoost: c.Control.TurboDriveBoost,
	}
}

// CameraConfig returns the follow tuning; Validate must have passed
func (c *Config) CameraConfig() camera.Config {
	return camera.Config{
		Start:     vec3(c.Camera.Start),
		ChaseZ:    c.Camera.ChaseZ,
		Lerp:      c.Camera.Lerp,
		Look:      vec3(c.Camera.Look),
		Reset:     vec3(c.Camera.Reset),
		OrbitStep: c.Camera.OrbitStep,
	}
}

// Gravity returns the world gravity vector
func (c *Config) Gravity() mgl64.Vec3 {
	return mgl64.Vec3{0, c.Physics.Gravity, 0}
}

// AudioConfig returns the audio device settings
func (c *Config) AudioConfig() audio.Config {
	return audio.Config{
		Enabled:    c.Audio.Enabled,
		SampleRate: c.Audio.SampleRate,
		Buffer:     c.Audio.Buffer,
		Volume:     c.Audio.Volume,
	}
}

// LoggingConfig returns the log sink settings
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Enabled:     c.Logging.Enabled,
		Level:       c.Logging.Level,
		Dir:         c.Logging.Dir,
		GraylogAddr: c.Logging.GraylogAddr,
	}
}

// StoreConfig returns the telemetry store address
func (c *Config) StoreConfig() telemetry.StoreConfig {
	return telemetry.StoreConfig{Driver: c.Telemetry.Driver, DSN: c.Telemetry.DSN}
}

// RecorderConfig returns the telemetry sampling settings
func (c *Config) RecorderConfig() telemetry.RecorderConfig {
	return telemetry.RecorderConfig{
		SampleEvery:   c.Telemetry.SampleEvery,
		BatchSize:     c.Telemetry.BatchSize,
		FlushInterval: c.Telemetry.FlushInterval,
	}
}

// InfluxConfig returns the InfluxDB mirror settings
func (c *Config) InfluxConfig() telemetry.InfluxConfig {
	in := c.Telemetry.Influx
	return telemetry.InfluxConfig{
		URL:           in.URL,
		Token:         in.Token,
		Org:           in.Org,
		Bucket:        in.Bucket,
		BatchSize:     in.BatchSize,
		FlushInterval: in.Flush,
		BackupPath:    in.BackupPath,
	}
}

func vec3(v []float64) mgl64.Vec3 {
	var out mgl64.Vec3
	copy(out[:], v)
	return out
}

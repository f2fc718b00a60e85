package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	replatecamera "github.com/ReplateItaly/replate-app-camera"
	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
	"github.com/ReplateItaly/replate-app-camera/internal/creds"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

// envConfig carries threshold overrides from the environment.
type envConfig struct {
	MinDistanceM        float64 `env:"REPLATE_MIN_DISTANCE_M"`
	MaxDistanceM        float64 `env:"REPLATE_MAX_DISTANCE_M"`
	MinAmbientIntensity float64 `env:"REPLATE_MIN_AMBIENT"`
	AngleThresholdRad   float64 `env:"REPLATE_ANGLE_THRESHOLD_RAD"`
}

func main() {
	mode := flag.String("mode", "orbit", "session mode: orbit (simulated) or live (Viam machine)")
	outDir := flag.String("out", "captures", "directory for captured artifacts")
	credsPath := flag.String("creds", "", "path to machine credentials JSON file (live mode)")
	camName := flag.String("camera", "primary-cam", "camera component name (live mode)")
	imuName := flag.String("imu", "", "movement sensor component name (live mode, optional)")
	interval := flag.Duration("interval", 2*time.Second, "capture cadence (live mode)")
	flag.Parse()

	logger := logging.NewLogger("replate-camera")

	cfg := replatecamera.DefaultConfig()
	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		logger.Fatal(err)
	}
	if overrides.MinDistanceM > 0 {
		cfg.Capture.MinDistanceM = overrides.MinDistanceM
	}
	if overrides.MaxDistanceM > 0 {
		cfg.Capture.MaxDistanceM = overrides.MaxDistanceM
	}
	if overrides.MinAmbientIntensity > 0 {
		cfg.Capture.MinAmbientIntensity = overrides.MinAmbientIntensity
	}
	if overrides.AngleThresholdRad > 0 {
		cfg.Capture.AngleThresholdRad = overrides.AngleThresholdRad
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	switch *mode {
	case "orbit":
		err = runOrbit(ctx, cfg, *outDir, logger)
	case "live":
		err = runLive(ctx, cfg, *outDir, *credsPath, *camName, *imuName, *interval, logger)
	default:
		err = fmt.Errorf("unknown mode %q; valid modes: orbit, live", *mode)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(err)
	}
}

// runOrbit drives a full 144-target session against the simulated tracker.
func runOrbit(ctx context.Context, cfg replatecamera.Config, outDir string, logger logging.Logger) error {
	sim := replatecamera.NewOrbitSimulator(capturepose.IdentityPose(), cfg.Capture)
	store := replatecamera.NewDiskStore(outDir)

	coord, err := replatecamera.NewCoordinator(cfg, sim, sim, store, logger)
	if err != nil {
		return err
	}
	defer coord.Close(context.Background())

	go logEvents(ctx, coord, logger)

	if err := coord.PlaceAnchorAt(ctx, image.Point{}); err != nil {
		return fmt.Errorf("place anchor: %w", err)
	}

	for !coord.IsComplete() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		view, ok := coord.SuggestNextView()
		if !ok {
			break
		}
		sim.MoveTo(view.Ring, view.Bin)

		artifact, err := coord.Capture(ctx, false)
		if err != nil {
			return fmt.Errorf("capture ring %d bin %d: %w", view.Ring, view.Bin, err)
		}
		logger.Debugf("Captured %s (%d remaining)", artifact.Ref, coord.RemainingCount())
	}

	logger.Infof("Session complete: %d artifacts in %s", coord.TotalCaptured(), outDir)
	return nil
}

// runLive connects to a Viam machine and captures on a fixed cadence as the
// rig is moved around the anchor.
func runLive(ctx context.Context, cfg replatecamera.Config, outDir, credsPath, camName, imuName string, interval time.Duration, logger logging.Logger) error {
	if credsPath == "" {
		return fmt.Errorf("-creds flag is required in live mode")
	}
	machineCreds, err := creds.Load(credsPath)
	if err != nil {
		return err
	}

	machine, err := client.New(
		ctx,
		machineCreds.Address,
		logger,
		client.WithDialOptions(rpc.WithEntityCredentials(
			machineCreds.EntityID,
			rpc.Credentials{
				Type:    rpc.CredentialsTypeAPIKey,
				Payload: machineCreds.APIKey,
			})),
	)
	if err != nil {
		return err
	}
	defer machine.Close(context.Background())
	logger.Info("Connected to machine")

	tracker, err := replatecamera.NewViamTracker(machine, logger, camName, imuName)
	if err != nil {
		return err
	}

	coord, err := replatecamera.NewCoordinator(cfg, tracker, tracker, replatecamera.NewDiskStore(outDir), logger)
	if err != nil {
		return err
	}
	defer coord.Close(context.Background())

	go logEvents(ctx, coord, logger)
	go func() {
		if err := coord.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnf("watch loop exited: %v", err)
		}
	}()

	if err := coord.PlaceAnchorAt(ctx, image.Point{}); err != nil {
		return fmt.Errorf("place anchor: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for !coord.IsComplete() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		artifact, err := coord.Capture(ctx, false)
		if err != nil {
			logger.Debugf("capture skipped: %v", err)
			continue
		}
		logger.Infof("Captured %s (%d remaining)", artifact.Ref, coord.RemainingCount())
	}

	logger.Infof("Session complete: %d artifacts in %s", coord.TotalCaptured(), outDir)
	return nil
}

func logEvents(ctx context.Context, coord *replatecamera.Coordinator, logger logging.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-coord.Events():
			logger.Infof("event: %v", ev.Kind)
		}
	}
}

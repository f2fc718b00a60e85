package main

import (
	"context"
	"errors"
	"flag"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	replatecamera "github.com/ReplateItaly/replate-app-camera"
	"github.com/ReplateItaly/replate-app-camera/internal/creds"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/robot/client"
	"go.viam.com/utils/rpc"
)

func main() {
	credsPath := flag.String("creds", "", "path to machine credentials JSON file")
	camName := flag.String("camera", "primary-cam", "camera component name")
	imuName := flag.String("imu", "", "movement sensor component name (optional)")
	outDir := flag.String("out", "captures", "directory for captured artifacts")
	flag.Parse()

	logger := logging.NewDebugLogger("replate-camera")

	if *credsPath == "" {
		logger.Fatal("-creds flag is required")
	}
	machineCreds, err := creds.Load(*credsPath)
	if err != nil {
		logger.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

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
		logger.Fatal(err)
	}
	defer machine.Close(context.Background())

	logger.Info("Connected to machine")

	tracker, err := replatecamera.NewViamTracker(machine, logger, *camName, *imuName)
	if err != nil {
		logger.Fatal(err)
	}

	coord, err := replatecamera.NewCoordinator(
		replatecamera.DefaultConfig(), tracker, tracker,
		replatecamera.NewDiskStore(*outDir), logger,
	)
	if err != nil {
		logger.Fatal(err)
	}
	defer coord.Close(context.Background())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-coord.Events():
				logger.Infof("event: %v", ev.Kind)
			}
		}
	}()
	go func() {
		if err := coord.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnf("watch loop exited: %v", err)
		}
	}()

	if err := coord.PlaceAnchorAt(ctx, image.Point{}); err != nil {
		logger.Fatal(err)
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for !coord.IsComplete() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		artifact, err := coord.Capture(ctx, false)
		if err != nil {
			logger.Debugf("capture skipped: %v", err)
			continue
		}
		logger.Infof("Captured %s (%d/%d)", artifact.Ref, coord.TotalCaptured(), 144)
	}

	logger.Info("Session complete")
}

package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/insighted-labs/presence/internal/api"
	"github.com/insighted-labs/presence/internal/broadcast"
	"github.com/insighted-labs/presence/internal/camera"
	"github.com/insighted-labs/presence/internal/config"
	"github.com/insighted-labs/presence/internal/database"
	"github.com/insighted-labs/presence/internal/detector"
	"github.com/insighted-labs/presence/internal/embedder"
	"github.com/insighted-labs/presence/internal/repository"
	"github.com/insighted-labs/presence/internal/schedule"
	"github.com/insighted-labs/presence/internal/service"
	"github.com/insighted-labs/presence/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newFrameSource selects where frames come from. "stream" is the normal
// mode: platform capture (or the POST /v1/frames endpoint) publishes
// into a Stream the gate consumes. "still" replays a fixed image from
// disk, which keeps the pipeline exercisable on machines without a
// camera. The returned Stream is nil unless the source is one.
func newFrameSource(cfg *config.Config) (camera.Source, *camera.Stream, error) {
	switch cfg.FrameSource {
	case "stream":
		stream := camera.NewStream()
		return stream, stream, nil
	case "still":
		if cfg.FrameImage == "" {
			return nil, nil, fmt.Errorf("frame source %q requires FRAME_IMAGE", cfg.FrameSource)
		}
		f, err := os.Open(cfg.FrameImage)
		if err != nil {
			return nil, nil, fmt.Errorf("open frame image: %w", err)
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, nil, fmt.Errorf("decode frame image: %w", err)
		}
		return camera.NewStillSource(img, camera.FormatRGBA, 0), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown frame source %q", cfg.FrameSource)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting presence agent",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	profileRepo := repository.NewProfileRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)

	// Pipeline components
	det, err := detector.NewPigoDetector(detector.PigoConfig{
		CascadePath: cfg.CascadePath,
		PuplocPath:  cfg.PuplocPath,
	})
	if err != nil {
		return fmt.Errorf("failed to load face detector: %w", err)
	}

	quality := detector.NewQualityGate()
	quality.MinBoxSize = cfg.MinBoxSize
	quality.MinEyeOpen = cfg.MinEyeOpenness

	if err := embedder.Initialize(cfg.ONNXLibPath); err != nil {
		return fmt.Errorf("failed to initialize onnx runtime: %w", err)
	}
	defer func() { _ = embedder.Shutdown() }()

	emb, err := embedder.NewONNXEmbedder(embedder.DefaultONNXConfig(cfg.ModelPath))
	if err != nil {
		return fmt.Errorf("failed to load embedding model: %w", err)
	}
	defer func() { _ = emb.Close() }()

	verifier := service.NewVerifier(profileRepo, verificationRepo, logger).
		WithThreshold(cfg.DistanceThreshold).
		WithStoreTimeout(cfg.StoreTimeout)

	sessions := session.NewStore(cfg.SessionFile)
	advertiser := broadcast.NewLogAdvertiser(logger)

	// On a successful verification: mark the current period present and
	// start advertising so nearby scanners can pick up the device.
	onVerified := func(userID uuid.UUID) {
		markCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
		defer cancel()

		now := time.Now()
		if period, ok := schedule.CurrentPeriod(now); ok {
			if err := attendanceRepo.SetPeriodStatus(markCtx, userID, now, period, "present"); err != nil {
				logger.Error("failed to record attendance",
					slog.String("user_id", userID.String()),
					slog.Int("period", period),
					slog.Any("error", err),
				)
			}
		} else {
			logger.Warn("verified outside timetable, attendance not recorded",
				slog.String("user_id", userID.String()))
		}

		if err := advertiser.Start(ctx, broadcast.ServiceUUID(userID)); err != nil {
			logger.Error("failed to start advertiser", slog.Any("error", err))
		}
	}

	source, stream, err := newFrameSource(cfg)
	if err != nil {
		return fmt.Errorf("failed to open frame source: %w", err)
	}
	defer func() { _ = source.Close() }()

	gate := service.NewSessionGate(source, det, quality, emb, verifier, sessions, logger, onVerified)

	gateErr := make(chan error, 1)
	go func() {
		gateErr <- gate.Run(ctx)
	}()

	// Diagnostics API
	deps := &api.Dependencies{
		Gate:           gate,
		StudentRepo:    studentRepo,
		AttendanceRepo: attendanceRepo,
		DB:             pool,
	}
	if stream != nil {
		deps.Frames = stream
	}
	router := api.NewRouter(logger, deps)
	router.Setup()

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("diagnostics server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case err := <-gateErr:
		if err != nil {
			return fmt.Errorf("pipeline error: %w", err)
		}
		logger.Info("frame source closed")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down...")
	_ = advertiser.Stop()
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("agent stopped")

	return nil
}

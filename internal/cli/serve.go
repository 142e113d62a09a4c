package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/config"
	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-scan-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/cache"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/events"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/netverify"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/qrimage"
	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/shiftclock"
	"github.com/cmlabs-hris/attendance-scan-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-scan-go/internal/service/attendance"
	dashboardService "github.com/cmlabs-hris/attendance-scan-go/internal/service/dashboard"
	qrcodeService "github.com/cmlabs-hris/attendance-scan-go/internal/service/qrcode"
	reportService "github.com/cmlabs-hris/attendance-scan-go/internal/service/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Migrate         bool
	QRImageSize     int
	ShutdownTimeout time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply pending migrations before serving")
	cmd.Flags().IntVar(&opts.QRImageSize, "qr-size", 256, "rendered QR image size in pixels")
	cmd.Flags().DurationVar(&opts.ShutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	clock, err := shiftclock.NewPolicy(cfg.Attendance.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load attendance timezone: %w", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if opts.Migrate {
		if err := applyMigrations(ctx, db); err != nil {
			return err
		}
	}

	rdb := cache.NewRedisClient(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher attendance.EventPublisher = events.Noop{}
	if cfg.RabbitMQ.URL != "" {
		p := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		defer p.Close()
		publisher = p
	}

	tx := postgresql.NewTransactor(db)
	officeRepo := postgresql.NewOfficeRepository(db)
	qrRepo := postgresql.NewQRCodeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	reasonRepo := postgresql.NewReasonRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	qrSvc := qrcodeService.NewQRCodeService(
		tx,
		qrRepo,
		officeRepo,
		cache.NewTokenCache(rdb),
		cfg.Redis.CacheExpire,
		qrimage.NewRenderer(opts.QRImageSize),
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		reasonRepo,
		officeRepo,
		qrSvc,
		netverify.New(cfg.Attendance.RequireOfficeNetwork),
		clock,
		publisher,
	)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo, clock)
	reportSvc := reportService.NewReportService(reportRepo, clock)

	router := appHTTP.NewRouter(
		cfg,
		JWTService,
		rdb,
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewQRCodeHandler(qrSvc),
		appHTTP.NewReportHandler(reportSvc),
		appHTTP.NewDashboardHandler(dashboardSvc),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "timezone", cfg.Attendance.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if err := loadEnvFile(opts.Env); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	setupLogger(cfg.SlogLevel(), cfg.App.Env, opts.Verbose)
	return cfg, nil
}

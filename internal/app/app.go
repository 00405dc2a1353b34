package app

import (
	"context"
	"devtrack_backend/internal/coaching"
	"devtrack_backend/internal/config"
	"devtrack_backend/internal/controller"
	"devtrack_backend/internal/recommend"
	"devtrack_backend/internal/repository"
	"devtrack_backend/internal/service"
	"devtrack_backend/internal/telemetry"
	"devtrack_backend/pkg/configwatcher"
	"devtrack_backend/pkg/database"
	"devtrack_backend/pkg/logger"
	"devtrack_backend/pkg/monitoring"
	"devtrack_backend/pkg/security"
	"devtrack_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
	stop            context.CancelFunc
}

type repositories struct {
	user      *repository.UserRepository
	session   *repository.SessionRepository
	attempt   *repository.AttemptRepository
	roadmap   *repository.RoadmapRepository
	snapshot  *repository.SnapshotRepository
	profile   *repository.SkillProfileRepository
	syncState *repository.SyncStateRepository
}

type services struct {
	auth           *service.AuthService
	user           *service.UserService
	storage        *service.StorageService
	session        *service.SessionService
	attempt        *service.AttemptService
	roadmap        *service.RoadmapService
	stats          *service.StatsService
	leaderboard    *service.LeaderboardService
	sync           *service.SyncService
	recommendation *service.RecommendationService
	coaching       *service.CoachingService

	collector *telemetry.Collector
	oracle    *coaching.OpenAIOracle
}

type controllers struct {
	auth           *controller.AuthController
	user           *controller.UserController
	session        *controller.SessionController
	attempt        *controller.AttemptController
	roadmap        *controller.RoadmapController
	sync           *controller.SyncController
	stats          *controller.StatsController
	recommendation *controller.RecommendationController
	coaching       *controller.CoachingController
	leaderboard    *controller.LeaderboardController
	health         *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// applyConfig 配置文件变更后依次通知各组件
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		session:   repository.NewSessionRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		roadmap:   repository.NewRoadmapRepository(db),
		snapshot:  repository.NewSnapshotRepository(db),
		profile:   repository.NewSkillProfileRepository(db),
		syncState: repository.NewSyncStateRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.session = service.NewSessionService(repos.session)
	s.attempt = service.NewAttemptService(repos.attempt)
	s.roadmap = service.NewRoadmapService(repos.roadmap)

	builder := service.NewProfileBuilder(repos.user, repos.snapshot, repos.session, repos.attempt, repos.roadmap)
	s.stats = service.NewStatsService(builder, repos.profile)
	s.leaderboard = service.NewLeaderboardService(repos.profile, repos.user, rdb)

	s.collector = telemetry.NewCollector(cfg.Telemetry)
	s.sync = service.NewSyncService(
		builder,
		repos.snapshot,
		repos.profile,
		repos.syncState,
		s.collector,
		s.leaderboard,
		s.storage,
		rdb,
		cfg.Sync,
	)

	s.recommendation = service.NewRecommendationService(builder, repos.profile, recommend.NewSelector(recommend.DefaultBank))

	s.oracle = coaching.NewOpenAIOracle(cfg.AI)
	s.coaching = service.NewCoachingService(builder, repos.profile, coaching.NewCoach(s.oracle, 0))

	a.RegisterConfigCallback(func(c *config.Config) {
		s.oracle.UpdateConfig(c.AI)
		s.collector.UpdateConfig(c.Telemetry)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:           controller.NewAuthController(s.auth),
		user:           controller.NewUserController(s.user),
		session:        controller.NewSessionController(s.session),
		attempt:        controller.NewAttemptController(s.attempt),
		roadmap:        controller.NewRoadmapController(s.roadmap),
		sync:           controller.NewSyncController(s.sync),
		stats:          controller.NewStatsController(s.stats),
		recommendation: controller.NewRecommendationController(s.recommendation),
		coaching:       controller.NewCoachingController(s.coaching),
		leaderboard:    controller.NewLeaderboardController(s.leaderboard),
		health:         controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定时同步数据过期的用户，并在启动时预热排行榜缓存
func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go func() {
		if err := s.leaderboard.Warm(ctx); err != nil {
			logger.Log.Warn("leaderboard warm-up failed", zap.Error(err))
		}
	}()

	go func() {
		ticker := time.NewTicker(a.Config.Sync.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				passCtx, cancel := context.WithTimeout(ctx, a.Config.Sync.Interval())
				synced, err := s.sync.SyncStaleUsers(passCtx)
				cancel()
				if err != nil {
					logger.Log.Error("scheduled sync error", zap.Error(err))
					continue
				}
				logger.Log.Info("scheduled sync finished", zap.Int("synced", synced))
			}
		}
	}()

	go configwatcher.WatchConfig(ctx, filepath.Join(configDir, "config.yaml"), a.applyConfig)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只用于排行榜缓存和同步租约，不可用时降级运行
		logger.Log.Warn("Failed to initialize redis, running without it", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("devtrack-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/reports", cfg.Storage.LocalPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.stop = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// 停止定时同步与配置监听
	if a.stop != nil {
		a.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

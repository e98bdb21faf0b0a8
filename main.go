package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"gorm.io/gorm"

	"sanchalak_backend/internals/configs"
	database "sanchalak_backend/internals/databases"
	"sanchalak_backend/internals/features/school/attendance/directory"
	"sanchalak_backend/internals/features/school/attendance/notification"
	"sanchalak_backend/internals/features/school/attendance/scheduler"
	"sanchalak_backend/internals/features/school/attendance/service"
	"sanchalak_backend/internals/features/school/attendance/store"
	helper "sanchalak_backend/internals/helpers"
	"sanchalak_backend/internals/helpers/dbtime"
	middlewares "sanchalak_backend/internals/middlewares"
	routes "sanchalak_backend/internals/route"
	"sanchalak_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Attendance

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ErrorHandler:            helper.FromFiberError,
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🗄️ storage + direktori
	var (
		db       *gorm.DB
		st       store.Store
		dir      directory.Directory
		recorder notification.Recorder
	)
	switch cfg.Store {
	case configs.StoreMemory:
		log.Println("[INFO] ATTENDANCE_STORE=memory, data hilang saat restart")
		seed := &seeds.DirectorySeed{}
		if cfg.SeedDirectoryFile != "" {
			s, err := seeds.LoadDirectorySeed(cfg.SeedDirectoryFile)
			if err != nil {
				log.Fatalf("❌ %v", err)
			}
			seed = s
		} else {
			log.Println("[WARN] SEED_DIRECTORY_FILE kosong, direktori siswa/kelas kosong")
		}
		st = store.NewMemoryStore()
		dir = seed.MemoryDirectory()
		recorder = notification.NewMemoryRecorder(notification.DefaultMemoryLogLimit)
	default:
		database.ConnectDB()
		database.TunePool()
		if err := database.Migrate(); err != nil {
			log.Fatalf("❌ Gagal migrate attendance: %v", err)
		}
		if cfg.SeedDirectoryFile != "" {
			if err := seeds.SeedDirectoryTables(database.DB, cfg.SeedDirectoryFile); err != nil {
				log.Printf("[WARN] seed direktori gagal: %v", err)
			}
		}
		database.WarmUpQueries()
		db = database.DB
		st = store.NewGormStore(db)
		dir = directory.NewGormDirectory(db)
		recorder = notification.NewGormRecorder(db)
	}

	// 📣 notifikasi wali
	var channel notification.Channel = notification.LogChannel{}
	if cfg.NotifyWebhookURL != "" {
		channel = notification.NewWebhookChannel(cfg.NotifyWebhookURL, cfg.NotifySendTimeout).
			WithAuthorization(cfg.NotifyWebhookAuth)
	}
	dispatcher := notification.NewDispatcher(channel, recorder, notification.Options{
		QueueSize:   cfg.NotifyQueueSize,
		Workers:     cfg.NotifyWorkers,
		SendTimeout: cfg.NotifySendTimeout,
	})

	loc := cfg.Location()
	svc := service.NewAttendanceService(service.Deps{
		Store:            st,
		Students:         dir,
		Classes:          dir,
		Notifier:         dispatcher,
		Clock:            dbtime.SystemClock{Loc: loc},
		CorrectionWindow: cfg.CorrectionWindow,
	})

	// ⏱ laporan pending approval
	reportCron, err := scheduler.StartPendingApprovalReport(svc, scheduler.PendingReportConfig{
		CronSchedule: cfg.PendingReportCron,
		Location:     loc,
	})
	if err != nil {
		log.Printf("[WARN] pending report tidak jalan: %v", err)
	}

	// ✅ Routes
	routes.SetupRoutes(app, db, svc)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown: http → antrean notifikasi → cron → DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if err := dispatcher.Shutdown(ctx); err != nil {
		log.Printf("[WARN] notifikasi belum terkirim semua: %v", err)
	}
	if reportCron != nil {
		<-reportCron.Stop().Done()
	}
	if db != nil {
		database.Close()
	}
	log.Println("[INFO] bye 👋")
}

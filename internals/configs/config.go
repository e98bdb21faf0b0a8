package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var Attendance AttendanceConfig

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env tidak ditemukan, pakai ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	Attendance = LoadAttendanceConfig()

	log.Printf("[INFO] attendance config: store=%s window=%s tz=%s notify_workers=%d notify_queue=%d webhook=%t",
		Attendance.Store, Attendance.CorrectionWindow, Attendance.Timezone,
		Attendance.NotifyWorkers, Attendance.NotifyQueueSize, Attendance.NotifyWebhookURL != "")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[WARN] %s=%q bukan durasi valid, pakai default %s", key, v, def)
		return def
	}
	return d
}

// =======================
// ATTENDANCE CONFIG
// =======================

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type AttendanceConfig struct {
	Store             string
	CorrectionWindow  time.Duration
	Timezone          string
	NotifyQueueSize   int
	NotifyWorkers     int
	NotifySendTimeout time.Duration
	NotifyWebhookURL  string
	NotifyWebhookAuth string
	PendingReportCron string
	SeedDirectoryFile string
}

func LoadAttendanceConfig() AttendanceConfig {
	cfg := AttendanceConfig{
		Store:             strings.ToLower(GetEnv("ATTENDANCE_STORE", StorePostgres)),
		CorrectionWindow:  getEnvDuration("ATTENDANCE_CORRECTION_WINDOW", 24*time.Hour),
		Timezone:          GetEnv("ATTENDANCE_TIMEZONE", "Asia/Jakarta"),
		NotifyQueueSize:   getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		NotifyWorkers:     getEnvInt("NOTIFY_WORKERS", 2),
		NotifySendTimeout: getEnvDuration("NOTIFY_SEND_TIMEOUT", 5*time.Second),
		NotifyWebhookURL:  strings.TrimSpace(GetEnv("NOTIFY_WEBHOOK_URL")),
		NotifyWebhookAuth: strings.TrimSpace(GetEnv("NOTIFY_WEBHOOK_AUTH")),
		PendingReportCron: GetEnv("PENDING_REPORT_CRON", "0 7 * * *"),
		SeedDirectoryFile: strings.TrimSpace(GetEnv("SEED_DIRECTORY_FILE")),
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		log.Printf("[WARN] ATTENDANCE_STORE=%q tidak dikenal, pakai %s", cfg.Store, StorePostgres)
		cfg.Store = StorePostgres
	}
	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = 256
	}
	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = 1
	}
	return cfg
}

// Location dari ATTENDANCE_TIMEZONE, fallback UTC.
func (c AttendanceConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	log.Printf("[WARN] timezone %q gagal di-load, fallback UTC", c.Timezone)
	return time.UTC
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if strings.EqualFold(GetEnv("DB_LOG_QUERIES"), "true") {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

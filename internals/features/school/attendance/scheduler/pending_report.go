package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
)

var pendingApprovalGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "attendance_pending_approval_records",
	Help: "Attendance records flagged requires_approval at the last report run.",
})

// PendingCounter: sumber angka (AttendanceService.CountPendingApproval).
type PendingCounter interface {
	CountPendingApproval(ctx context.Context) (int64, error)
}

type PendingReportConfig struct {
	CronSchedule string // default "0 7 * * *"
	Location     *time.Location
	Timeout      time.Duration
}

// StartPendingApprovalReport menjadwalkan laporan harian jumlah record yang
// menunggu approval admin. Caller wajib Stop() saat shutdown.
func StartPendingApprovalReport(counter PendingCounter, cfg PendingReportConfig) (*cron.Cron, error) {
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 7 * * *"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}

	c := cron.New(
		cron.WithLocation(cfg.Location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		_, _ = RunPendingReport(ctx, counter)
	})
	if err != nil {
		return nil, fmt.Errorf("pending report: add cron %q: %w", cfg.CronSchedule, err)
	}

	log.Printf("[CRON] pending-approval report started schedule=%q tz=%s", cfg.CronSchedule, cfg.Location)
	c.Start()
	return c, nil
}

// RunPendingReport: satu kali jalan, dipakai cron & test.
func RunPendingReport(ctx context.Context, counter PendingCounter) (int64, error) {
	n, err := counter.CountPendingApproval(ctx)
	if err != nil {
		log.Printf("[CRON] ❌ gagal hitung pending approval: %v", err)
		return 0, err
	}
	pendingApprovalGauge.Set(float64(n))
	if n > 0 {
		log.Printf("[CRON] ⚠️ %d attendance record(s) menunggu approval admin", n)
	} else {
		log.Println("[CRON] ✅ tidak ada attendance yang menunggu approval")
	}
	return n, nil
}

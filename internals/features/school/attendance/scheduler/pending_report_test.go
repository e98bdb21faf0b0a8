package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) CountPendingApproval(context.Context) (int64, error) { return s.n, s.err }

func TestRunPendingReport(t *testing.T) {
	n, err := RunPendingReport(context.Background(), stubCounter{n: 4})
	if err != nil || n != 4 {
		t.Fatalf("want 4, got %d %v", n, err)
	}

	boom := errors.New("db down")
	if _, err := RunPendingReport(context.Background(), stubCounter{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestStartPendingApprovalReport_BadSchedule(t *testing.T) {
	if _, err := StartPendingApprovalReport(stubCounter{}, PendingReportConfig{CronSchedule: "not a cron"}); err == nil {
		t.Fatalf("want error for invalid schedule")
	}

	c, err := StartPendingApprovalReport(stubCounter{}, PendingReportConfig{Location: time.UTC})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Entries()) != 1 {
		t.Fatalf("want 1 cron entry, got %d", len(c.Entries()))
	}
	<-c.Stop().Done()
}

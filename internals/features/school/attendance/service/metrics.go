package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	markedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_marked_total",
		Help: "Attendance records created, by status.",
	}, []string{"status"})

	markRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_mark_rejected_total",
		Help: "Rejected mark attempts (single or bulk entry), by reason.",
	}, []string{"reason"})

	correctionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_correction_total",
		Help: "Correction requests, by outcome (applied | pending_approval).",
	}, []string{"outcome"})
)

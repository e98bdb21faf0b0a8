// file: internals/features/school/attendance/notification/dispatcher.go
package notification

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sanchalak_backend/internals/features/school/attendance/model"
)

type Options struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 5 * time.Second
	}
	return o
}

// Dispatcher: antrean buffered + worker pool. Enqueue tidak pernah blocking;
// kegagalan kirim hanya di-log & dicatat, tidak naik ke pemanggil.
type Dispatcher struct {
	channel  Channel
	recorder Recorder
	opts     Options

	queue chan Event
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(ch Channel, rec Recorder, opts Options) *Dispatcher {
	if ch == nil {
		ch = LogChannel{}
	}
	opts = opts.withDefaults()

	d := &Dispatcher{
		channel:  ch,
		recorder: rec,
		opts:     opts,
		queue:    make(chan Event, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	log.Printf("[NOTIFY] ✅ dispatcher started workers=%d queue=%d", opts.Workers, opts.QueueSize)
	return d
}

// Enqueue: false kalau antrean penuh atau dispatcher sudah shutdown.
func (d *Dispatcher) Enqueue(ev Event) (string, bool) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		droppedTotal.Inc()
		log.Printf("[NOTIFY] ⚠️ dispatcher closed, drop event=%s attendance=%s", ev.EventID, ev.AttendanceID)
		return "", false
	}

	select {
	case d.queue <- ev:
		enqueuedTotal.Inc()
		return ev.EventID, true
	default:
		droppedTotal.Inc()
		log.Printf("[NOTIFY] ⚠️ queue full, drop event=%s attendance=%s", ev.EventID, ev.AttendanceID)
		return "", false
	}
}

// Shutdown menutup antrean dan menunggu worker menghabiskan sisa event.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[NOTIFY] 🛑 dispatcher drained")
		return nil
	case <-ctx.Done():
		log.Printf("[NOTIFY] ⚠️ shutdown timeout, %d event(s) left", len(d.queue))
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[NOTIFY] ❌ panic while sending event=%s: %v", ev.EventID, r)
		}
	}()

	entry := &model.StudentAttendanceNotificationLogModel{
		StudentAttendanceNotificationLogAttendanceID: ev.AttendanceID,
		StudentAttendanceNotificationLogStudentID:    ev.StudentID,
		StudentAttendanceNotificationLogRecipient:    ev.Recipient,
		StudentAttendanceNotificationLogCreatedAt:    time.Now().UTC(),
	}
	if id, err := uuid.Parse(ev.EventID); err == nil {
		entry.StudentAttendanceNotificationLogID = id
	} else {
		entry.StudentAttendanceNotificationLogID = uuid.New()
	}
	if b, err := sonic.Marshal(ev); err == nil {
		entry.StudentAttendanceNotificationLogPayload = datatypes.JSON(b)
	}

	if strings.TrimSpace(ev.Recipient) == "" {
		entry.StudentAttendanceNotificationLogStatus = model.NotificationSkipped
		log.Printf("[NOTIFY] ⚠️ no guardian contact student=%s event=%s", ev.StudentID, ev.EventID)
		d.record(entry)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	deliveryID, err := d.channel.Send(ctx, ev.Recipient, ev.Message())
	cancel()

	if err != nil {
		msg := err.Error()
		entry.StudentAttendanceNotificationLogStatus = model.NotificationFailed
		entry.StudentAttendanceNotificationLogError = &msg
		log.Printf("[NOTIFY] ❌ send failed event=%s student=%s: %v", ev.EventID, ev.StudentID, err)
	} else {
		entry.StudentAttendanceNotificationLogStatus = model.NotificationDelivered
		entry.StudentAttendanceNotificationLogDeliveryID = &deliveryID
	}
	d.record(entry)
}

func (d *Dispatcher) record(entry *model.StudentAttendanceNotificationLogModel) {
	deliveryTotal.WithLabelValues(string(entry.StudentAttendanceNotificationLogStatus)).Inc()
	if d.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	defer cancel()
	if err := d.recorder.Record(ctx, entry); err != nil {
		log.Printf("[NOTIFY] ⚠️ gagal simpan log notifikasi event=%s: %v", entry.StudentAttendanceNotificationLogID, err)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/directory"
	"sanchalak_backend/internals/features/school/attendance/model"
	"sanchalak_backend/internals/features/school/attendance/notification"
	"sanchalak_backend/internals/features/school/attendance/store"
	"sanchalak_backend/internals/helpers/dbtime"
)

/* =========================
   Fixtures
   ========================= */

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification.Event
	reject bool
}

func (n *fakeNotifier) Enqueue(ev notification.Event) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.reject {
		return "", false
	}
	n.events = append(n.events, ev)
	return ev.EventID, true
}

func (n *fakeNotifier) Events() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Event(nil), n.events...)
}

type fixture struct {
	svc      *AttendanceService
	store    *store.MemoryStore
	dir      *directory.MemoryDirectory
	clock    *dbtime.FixedClock
	notifier *fakeNotifier
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dbtime.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := directory.NewMemoryDirectory(
		[]directory.Student{
			{ID: "S1", Name: "Asha", ClassID: "C1", GuardianContact: "+91-900001", RollNumber: 3},
			{ID: "S2", Name: "Bima", ClassID: "C1", GuardianContact: "+91-900002", RollNumber: 1},
			{ID: "S3", Name: "Citra", ClassID: "C1", GuardianContact: "", RollNumber: 2},
		},
		[]directory.Class{
			{ID: "C1", Name: "Grade 5 A", EnrolledStudentIDs: []string{"S1", "S2", "S3"}},
			{ID: "C-EMPTY", Name: "Empty"},
		},
	)
	st := store.NewMemoryStore()
	clock := dbtime.NewFixedClock(time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC))
	n := &fakeNotifier{}
	svc := NewAttendanceService(Deps{
		Store:    st,
		Students: dir,
		Classes:  dir,
		Notifier: n,
		Clock:    clock,
	})
	return &fixture{svc: svc, store: st, dir: dir, clock: clock, notifier: n}
}

func (f *fixture) mark(t *testing.T, student, date, status string) *MarkResult {
	t.Helper()
	res, err := f.svc.MarkAttendance(context.Background(), MarkInput{
		StudentID: student,
		ClassID:   "C1",
		Date:      mustDate(t, date),
		Status:    status,
	}, "teacher-1")
	if err != nil {
		t.Fatalf("mark %s %s: %v", student, date, err)
	}
	return res
}

/* =========================
   Marking
   ========================= */

func TestScenarioA_MarkAbsentSummaryAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.mark(t, "S1", "2026-02-10", "Absent")
	if res.AttendanceID == uuid.Nil {
		t.Fatalf("missing attendance id")
	}
	if len(res.NotificationIDs) != 1 {
		t.Fatalf("want 1 notification id, got %v", res.NotificationIDs)
	}
	evs := f.notifier.Events()
	if len(evs) != 1 || evs[0].Status != model.AttendanceStatusAbsent || evs[0].Recipient != "+91-900001" {
		t.Fatalf("unexpected events: %+v", evs)
	}

	sum, err := f.svc.GetAttendanceSummary(ctx, "S1", mustDate(t, "2026-02-01"), mustDate(t, "2026-02-10"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalDays != 1 || sum.PresentDays != 0 || sum.AbsentDays != 1 || sum.AttendancePercentage != 0 {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	_, err = f.svc.MarkAttendance(ctx, MarkInput{
		StudentID: "S1", ClassID: "C1", Date: mustDate(t, "2026-02-10"), Status: "present",
	}, "teacher-2")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	rec, _ := f.store.FindByID(ctx, res.AttendanceID)
	if rec.StudentAttendanceStatus != model.AttendanceStatusAbsent || rec.StudentAttendanceMarkedBy != "teacher-1" {
		t.Fatalf("original record changed: %+v", rec)
	}
}

func TestMarkAttendance_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := mustDate(t, "2026-02-10")

	cases := []struct {
		name  string
		in    MarkInput
		actor string
		want  error
	}{
		{"bad status", MarkInput{StudentID: "S1", ClassID: "C1", Date: d, Status: "sleeping"}, "t", ErrValidation},
		{"missing student", MarkInput{ClassID: "C1", Date: d, Status: "present"}, "t", ErrValidation},
		{"missing class", MarkInput{StudentID: "S1", Date: d, Status: "present"}, "t", ErrValidation},
		{"missing date", MarkInput{StudentID: "S1", ClassID: "C1", Status: "present"}, "t", ErrValidation},
		{"missing actor", MarkInput{StudentID: "S1", ClassID: "C1", Date: d, Status: "present"}, " ", ErrValidation},
		{"unknown student", MarkInput{StudentID: "S404", ClassID: "C1", Date: d, Status: "present"}, "t", ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.MarkAttendance(ctx, tc.in, tc.actor)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}

	if _, total, _ := f.store.Find(ctx, store.Filter{}); total != 0 {
		t.Fatalf("rejected marks must not write, got %d records", total)
	}

	_, err := f.svc.MarkAttendance(ctx, MarkInput{StudentID: "S1", ClassID: "C1", Date: d, Status: "sleeping"}, "t")
	for _, st := range model.AllAttendanceStatuses {
		if !strings.Contains(err.Error(), string(st)) {
			t.Fatalf("invalid status error should list %q: %v", st, err)
		}
	}
}

func TestMarkAttendance_PresentDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	res := f.mark(t, "S2", "2026-02-10", "present")
	if len(res.NotificationIDs) != 0 || len(f.notifier.Events()) != 0 {
		t.Fatalf("present must not notify")
	}
	f.mark(t, "S3", "2026-02-10", "LATE")
	if len(f.notifier.Events()) != 1 {
		t.Fatalf("late must notify")
	}
}

func TestMarkAttendance_NotifierRejectDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.notifier.reject = true
	res := f.mark(t, "S1", "2026-02-10", "absent")
	if res.AttendanceID == uuid.Nil || len(res.NotificationIDs) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMarkAttendance_ConcurrentSameKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := mustDate(t, "2026-02-10")

	const n = 20
	var ok, conflict int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.MarkAttendance(ctx, MarkInput{StudentID: "S1", ClassID: "C1", Date: d, Status: "present"}, "t")
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrConflict):
				atomic.AddInt32(&conflict, 1)
			default:
				t.Errorf("unexpected: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 || conflict != n-1 {
		t.Fatalf("want exactly one success, got ok=%d conflict=%d", ok, conflict)
	}
}

/* =========================
   Bulk
   ========================= */

func TestScenarioB_BulkSkipsAlreadyMarked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mark(t, "S1", "2026-02-11", "present")

	res, err := f.svc.BulkMarkAttendance(ctx, "C1", mustDate(t, "2026-02-11"), "teacher-1", []BulkEntry{
		{StudentID: "S1", Status: "present"},
		{StudentID: "S2", Status: "absent"},
		{StudentID: "S3", Status: "present"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Marked != 2 || res.Failed != 1 || res.Success {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Errors) != 1 || res.Errors[0].StudentID != "S1" || res.Errors[0].Reason != ReasonAlreadyMarked {
		t.Fatalf("unexpected errors: %+v", res.Errors)
	}
}

func TestBulkMark_Idempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := mustDate(t, "2026-02-12")
	entries := []BulkEntry{
		{StudentID: "S1", Status: "present"},
		{StudentID: "S2", Status: "late"},
		{StudentID: "S3", Status: "excused"},
	}

	first, err := f.svc.BulkMarkAttendance(ctx, "C1", date, "t", entries)
	if err != nil {
		t.Fatal(err)
	}
	if first.Marked != 3 || !first.Success {
		t.Fatalf("first run: %+v", first)
	}

	second, err := f.svc.BulkMarkAttendance(ctx, "C1", date, "t", entries)
	if err != nil {
		t.Fatal(err)
	}
	if second.Marked != 0 || second.Failed != 3 || second.Success {
		t.Fatalf("second run: %+v", second)
	}
	for _, e := range second.Errors {
		if e.Reason != ReasonAlreadyMarked {
			t.Fatalf("want Already marked, got %+v", e)
		}
	}
	// hanya S2 (late) yang memicu notifikasi, sekali
	if got := len(f.notifier.Events()); got != 1 {
		t.Fatalf("want 1 notification, got %d", got)
	}
}

func TestBulkMark_PerEntryFailures(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.BulkMarkAttendance(context.Background(), "C1", mustDate(t, "2026-02-12"), "t", []BulkEntry{
		{StudentID: "S404", Status: "present"},
		{StudentID: "S1", Status: "nap"},
		{StudentID: "S2", Status: "Present"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Marked != 1 || res.Failed != 2 {
		t.Fatalf("unexpected: %+v", res)
	}
	if res.Errors[0].Reason != ReasonStudentNotFound || res.Errors[1].Reason != ReasonInvalidStatus {
		t.Fatalf("unexpected reasons: %+v", res.Errors)
	}

	if _, err := f.svc.BulkMarkAttendance(context.Background(), "", mustDate(t, "2026-02-12"), "t", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing class must be a validation error, got %v", err)
	}
}

func TestBulkMark_ConcurrentBatchesNoDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := mustDate(t, "2026-02-13")
	entries := []BulkEntry{{StudentID: "S1", Status: "present"}, {StudentID: "S2", Status: "present"}, {StudentID: "S3", Status: "present"}}

	var marked int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.BulkMarkAttendance(ctx, "C1", date, "t", entries)
			if err != nil {
				t.Errorf("bulk: %v", err)
				return
			}
			atomic.AddInt32(&marked, int32(res.Marked))
		}()
	}
	wg.Wait()

	if marked != 3 {
		t.Fatalf("want 3 inserts across all batches, got %d", marked)
	}
	if _, total, _ := f.store.Find(ctx, store.Filter{Date: &date}); total != 3 {
		t.Fatalf("want 3 records, got %d", total)
	}
}

/* =========================
   Correction
   ========================= */

func TestModify_WithinWindowApplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.mark(t, "S1", "2026-02-10", "absent")

	f.clock.Advance(24 * time.Hour) // tepat di batas → masih langsung
	remarks := "  doctor note  "
	out, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "Excused", Remarks: &remarks}, "teacher-2")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.RequiresApproval || out.CorrectionID != nil {
		t.Fatalf("unexpected result: %+v", out)
	}

	rec, _ := f.store.FindByID(ctx, res.AttendanceID)
	if rec.StudentAttendanceStatus != model.AttendanceStatusExcused {
		t.Fatalf("status not applied: %s", rec.StudentAttendanceStatus)
	}
	if rec.StudentAttendanceRemarks == nil || *rec.StudentAttendanceRemarks != "doctor note" {
		t.Fatalf("remarks not applied/normalized: %v", rec.StudentAttendanceRemarks)
	}
	if !rec.StudentAttendanceIsModified || rec.StudentAttendanceRequiresApproval {
		t.Fatalf("flags wrong: modified=%v approval=%v", rec.StudentAttendanceIsModified, rec.StudentAttendanceRequiresApproval)
	}
	if rec.StudentAttendanceModifiedBy == nil || *rec.StudentAttendanceModifiedBy != "teacher-2" {
		t.Fatalf("modified_by not set")
	}
	if rec.StudentAttendanceModifiedAt == nil || !rec.StudentAttendanceModifiedAt.Equal(f.clock.Now()) {
		t.Fatalf("modified_at not set from clock")
	}
	if rec.State() != model.RecordStateModifiedDirect {
		t.Fatalf("want modified_direct, got %s", rec.State())
	}
}

func TestModify_NilRemarksKeepsExisting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := "bus late"
	res, err := f.svc.MarkAttendance(ctx, MarkInput{StudentID: "S2", ClassID: "C1", Date: mustDate(t, "2026-02-10"), Status: "late", Remarks: &r}, "t")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "present"}, "t"); err != nil {
		t.Fatal(err)
	}
	rec, _ := f.store.FindByID(ctx, res.AttendanceID)
	if rec.StudentAttendanceRemarks == nil || *rec.StudentAttendanceRemarks != "bus late" {
		t.Fatalf("remarks should be kept")
	}
}

func TestScenarioC_ModifyAfterWindowRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.mark(t, "S1", "2026-02-10", "absent")

	f.clock.Advance(25 * time.Hour)
	out, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "present"}, "teacher-2")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Success || !out.RequiresApproval || out.CorrectionID == nil {
		t.Fatalf("unexpected result: %+v", out)
	}

	rec, _ := f.store.FindByID(ctx, res.AttendanceID)
	if rec.StudentAttendanceStatus != model.AttendanceStatusAbsent {
		t.Fatalf("status must stay absent, got %s", rec.StudentAttendanceStatus)
	}
	if rec.StudentAttendanceIsModified || !rec.StudentAttendanceRequiresApproval {
		t.Fatalf("flags wrong: modified=%v approval=%v", rec.StudentAttendanceIsModified, rec.StudentAttendanceRequiresApproval)
	}
	if rec.State() != model.RecordStatePendingApproval {
		t.Fatalf("want pending_approval, got %s", rec.State())
	}

	props, err := f.svc.ListPendingCorrections(ctx, res.AttendanceID)
	if err != nil {
		t.Fatal(err)
	}
	if len(props) != 1 {
		t.Fatalf("want 1 stored proposal, got %d", len(props))
	}
	p := props[0]
	if p.StudentAttendanceCorrectionProposedStatus != model.AttendanceStatusPresent ||
		p.StudentAttendanceCorrectionRequestedBy != "teacher-2" ||
		p.StudentAttendanceCorrectionID != *out.CorrectionID {
		t.Fatalf("unexpected proposal: %+v", p)
	}
	var prev model.CorrectionSnapshot
	if err := sonic.Unmarshal(p.StudentAttendanceCorrectionPrevious, &prev); err != nil {
		t.Fatal(err)
	}
	if prev.Status != model.AttendanceStatusAbsent {
		t.Fatalf("snapshot should hold previous status, got %s", prev.Status)
	}

	// flag tidak pernah di-clear, termasuk oleh koreksi berikutnya
	if _, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "late"}, "teacher-3"); err != nil {
		t.Fatal(err)
	}
	rec, _ = f.store.FindByID(ctx, res.AttendanceID)
	if !rec.StudentAttendanceRequiresApproval || rec.StudentAttendanceStatus != model.AttendanceStatusAbsent {
		t.Fatalf("second deferred correction must not change the record")
	}
	if n, _ := f.svc.CountPendingApproval(ctx); n != 1 {
		t.Fatalf("want 1 pending record, got %d", n)
	}
}

func TestModify_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ModifyAttendance(ctx, uuid.New(), ModifyInput{Status: "present"}, "t"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	res := f.mark(t, "S1", "2026-02-10", "present")
	if _, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "gone"}, "t"); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if _, err := f.svc.ListPendingCorrections(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestModify_ConcurrentAfterWindowNeverApplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.mark(t, "S1", "2026-02-10", "absent")
	f.clock.Advance(30 * time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := f.svc.ModifyAttendance(ctx, res.AttendanceID, ModifyInput{Status: "present"}, "t")
			if err != nil || !out.RequiresApproval {
				t.Errorf("want approval required, got %+v %v", out, err)
			}
		}()
	}
	wg.Wait()

	rec, _ := f.store.FindByID(ctx, res.AttendanceID)
	if rec.StudentAttendanceStatus != model.AttendanceStatusAbsent || rec.StudentAttendanceIsModified {
		t.Fatalf("late correction slipped through: %+v", rec)
	}
}

/* =========================
   Aggregation
   ========================= */

func TestSummary_EmptyAndPercentage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sum, err := f.svc.GetAttendanceSummary(ctx, "S2", mustDate(t, "2026-01-01"), mustDate(t, "2026-01-31"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalDays != 0 || sum.AttendancePercentage != 0 || len(sum.Records) != 0 {
		t.Fatalf("empty summary wrong: %+v", sum)
	}

	f.mark(t, "S2", "2026-02-01", "present")
	f.mark(t, "S2", "2026-02-02", "present")
	f.mark(t, "S2", "2026-02-03", "late")
	f.mark(t, "S2", "2026-03-01", "absent") // di luar range

	sum, err = f.svc.GetAttendanceSummary(ctx, "S2", mustDate(t, "2026-02-01"), mustDate(t, "2026-02-28"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.TotalDays != 3 || sum.PresentDays != 2 || sum.LateDays != 1 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.AttendancePercentage != 67 {
		t.Fatalf("want 67, got %d", sum.AttendancePercentage)
	}
	if !sum.Records[0].StudentAttendanceDate.Equal(mustDate(t, "2026-02-03")) {
		t.Fatalf("records must be newest first")
	}

	if _, err := f.svc.GetAttendanceSummary(ctx, "S2", mustDate(t, "2026-02-28"), mustDate(t, "2026-02-01")); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation for reversed range, got %v", err)
	}
}

func TestClassSheet_DefaultsToPresent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sheet, err := f.svc.GetClassAttendanceSheet(ctx, "C1", mustDate(t, "2026-02-14"))
	if err != nil {
		t.Fatal(err)
	}
	if sheet.IsMarked || sheet.TotalStudents != 3 || sheet.PresentCount != 3 || sheet.AttendancePercentage != 100 {
		t.Fatalf("unexpected sheet: %+v", sheet)
	}
	for _, r := range sheet.Students {
		if r.Status != model.AttendanceStatusPresent || r.IsMarked {
			t.Fatalf("row should default to present: %+v", r)
		}
	}
	wantOrder := []string{"S2", "S3", "S1"} // roll 1,2,3
	for i, id := range wantOrder {
		if sheet.Students[i].StudentID != id {
			t.Fatalf("row %d: want %s, got %s", i, id, sheet.Students[i].StudentID)
		}
	}
}

func TestClassSheet_PartiallyMarked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mark(t, "S1", "2026-02-14", "absent")

	sheet, err := f.svc.GetClassAttendanceSheet(ctx, "C1", mustDate(t, "2026-02-14"))
	if err != nil {
		t.Fatal(err)
	}
	if !sheet.IsMarked || sheet.AbsentCount != 1 || sheet.PresentCount != 2 || sheet.AttendancePercentage != 67 {
		t.Fatalf("unexpected sheet: %+v", sheet)
	}
	last := sheet.Students[2]
	if last.StudentID != "S1" || !last.IsMarked || last.AttendanceID == nil || last.Status != model.AttendanceStatusAbsent {
		t.Fatalf("unexpected row: %+v", last)
	}

	empty, err := f.svc.GetClassAttendanceSheet(ctx, "C-EMPTY", mustDate(t, "2026-02-14"))
	if err != nil {
		t.Fatal(err)
	}
	if empty.TotalStudents != 0 || empty.AttendancePercentage != 0 {
		t.Fatalf("empty class: %+v", empty)
	}

	if _, err := f.svc.GetClassAttendanceSheet(ctx, "C404", mustDate(t, "2026-02-14")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestQueryAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, d := range []string{"2026-02-01", "2026-02-02", "2026-02-03", "2026-02-04", "2026-02-05"} {
		f.mark(t, "S1", d, "present")
	}
	f.mark(t, "S2", "2026-02-03", "absent")

	res, err := f.svc.QueryAttendance(ctx, QueryFilter{StudentID: "S1"}, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 || res.TotalPages != 3 || len(res.Records) != 2 || res.Page != 1 || res.Limit != 2 {
		t.Fatalf("unexpected page: %+v", res)
	}
	if !res.Records[0].StudentAttendanceDate.Equal(mustDate(t, "2026-02-05")) {
		t.Fatalf("want date-desc order")
	}

	res, _ = f.svc.QueryAttendance(ctx, QueryFilter{StudentID: "S1"}, 3, 2)
	if len(res.Records) != 1 {
		t.Fatalf("last page should hold 1 record, got %d", len(res.Records))
	}

	d := mustDate(t, "2026-02-03")
	res, _ = f.svc.QueryAttendance(ctx, QueryFilter{Date: &d}, 0, 0)
	if res.Total != 2 || res.Limit != 20 || res.Page != 1 {
		t.Fatalf("defaults wrong: %+v", res)
	}

	res, _ = f.svc.QueryAttendance(ctx, QueryFilter{Status: "ABSENT"}, 1, 500)
	if res.Total != 1 || res.Limit != 100 {
		t.Fatalf("status filter/limit cap wrong: %+v", res)
	}

	start, end := mustDate(t, "2026-02-02"), mustDate(t, "2026-02-04")
	res, _ = f.svc.QueryAttendance(ctx, QueryFilter{StudentID: "S1", StartDate: &start, EndDate: &end}, 1, 10)
	if res.Total != 3 {
		t.Fatalf("range: want 3, got %d", res.Total)
	}

	bad := []QueryFilter{
		{Date: &d, StartDate: &start, EndDate: &end},
		{StartDate: &start},
		{StartDate: &end, EndDate: &start},
		{Status: "unknown"},
	}
	for i, q := range bad {
		if _, err := f.svc.QueryAttendance(ctx, q, 1, 10); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: want ErrValidation, got %v", i, err)
		}
	}

	res, _ = f.svc.QueryAttendance(ctx, QueryFilter{StudentID: "nobody"}, 1, 10)
	if res.Total != 0 || res.TotalPages != 0 || len(res.Records) != 0 {
		t.Fatalf("empty result wrong: %+v", res)
	}
}

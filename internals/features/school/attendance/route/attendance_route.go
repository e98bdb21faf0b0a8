// file: internals/features/school/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	attCtl "sanchalak_backend/internals/features/school/attendance/controller"
	"sanchalak_backend/internals/features/school/attendance/service"
	helper "sanchalak_backend/internals/helpers"
)

// Middlewares tambahan per grup/route.
type Middlewares struct {
	Group    []fiber.Handler // semua /attendance (mis. actor context)
	BulkMark []fiber.Handler // khusus POST /attendance/bulk
}

// AttendanceRoutes: /attendance
func AttendanceRoutes(r fiber.Router, svc *service.AttendanceService, mw Middlewares) {
	ctl := attCtl.NewStudentAttendanceController(svc, helper.NewValidator())

	grp := r.Group("/attendance", mw.Group...)

	// marking
	grp.Post("/", ctl.Mark)
	bulk := append(append([]fiber.Handler{}, mw.BulkMark...), ctl.BulkMark)
	grp.Post("/bulk", bulk...)

	// read
	grp.Get("/", ctl.Query)
	grp.Get("/class/:class_id/sheet", ctl.ClassSheet)
	grp.Get("/student/:student_id/summary", ctl.Summary)

	// koreksi
	grp.Patch("/:id", ctl.Modify)
	grp.Get("/:id/corrections", ctl.ListCorrections)
}

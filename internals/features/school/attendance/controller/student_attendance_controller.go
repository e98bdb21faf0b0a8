// file: internals/features/school/attendance/controller/student_attendance_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"sanchalak_backend/internals/features/school/attendance/dto"
	"sanchalak_backend/internals/features/school/attendance/service"
	helper "sanchalak_backend/internals/helpers"
	"sanchalak_backend/internals/helpers/dbtime"
)

/* =========================
   Controller & Constructor
   ========================= */

type StudentAttendanceController struct {
	Service  *service.AttendanceService
	Validate *validator.Validate
}

func NewStudentAttendanceController(svc *service.AttendanceService, v *validator.Validate) *StudentAttendanceController {
	if v == nil {
		v = helper.NewValidator()
	}
	return &StudentAttendanceController{Service: svc, Validate: v}
}

/* =========================
   Small helpers
   ========================= */

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	idStr := strings.TrimSpace(c.Params(name))
	if idStr == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" must be a valid UUID")
	}
	return id, nil
}

// writeServiceError: sentinel service → status HTTP.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	}
	log.Printf("[ERROR] attendance %s %s: %v", c.Method(), c.OriginalURL(), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "")
}

/* =========================
   POST /attendance
   ========================= */

func (ctl *StudentAttendanceController) Mark(c *fiber.Ctx) error {
	actor, err := helper.GetActorID(c)
	if err != nil {
		return err
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.MarkAttendance(c.UserContext(), in, actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonCreated(c, res.Message, res)
}

/* =========================
   POST /attendance/bulk
   ========================= */

func (ctl *StudentAttendanceController) BulkMark(c *fiber.Ctx) error {
	actor, err := helper.GetActorID(c)
	if err != nil {
		return err
	}

	var req dto.BulkMarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	date, err := dbtime.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Service.BulkMarkAttendance(c.UserContext(), req.ClassID, date, actor, req.ToEntries())
	if err != nil {
		return writeServiceError(c, err)
	}
	// gagal sebagian tetap 200; detail per siswa di data.errors
	return helper.JsonOK(c, res.Message, res)
}

/* =========================
   GET /attendance
   ========================= */

func (ctl *StudentAttendanceController) Query(c *fiber.Ctx) error {
	var q dto.QueryAttendanceParams
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := ctl.Validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}
	filter, err := q.ToFilter()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	p := helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)
	res, err := ctl.Service.QueryAttendance(c.UserContext(), filter, p.Page, p.Limit)
	if err != nil {
		return writeServiceError(c, err)
	}

	records := dto.FromModels(res.Records)
	return helper.JsonList(c, "ok", records, helper.BuildPagination(res.Total, res.Page, res.Limit, len(records)))
}

/* =========================
   GET /attendance/class/:class_id/sheet?date=
   ========================= */

func (ctl *StudentAttendanceController) ClassSheet(c *fiber.Ctx) error {
	classID := strings.TrimSpace(c.Params("class_id"))
	date, err := dbtime.ParseDate(c.Query("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	sheet, err := ctl.Service.GetClassAttendanceSheet(c.UserContext(), classID, date)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", sheet)
}

/* =========================
   GET /attendance/student/:student_id/summary?start_date&end_date
   ========================= */

func (ctl *StudentAttendanceController) Summary(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Params("student_id"))

	var q dto.SummaryParams
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := ctl.Validate.Struct(q); err != nil {
		return helper.ValidationError(c, err)
	}
	start, err := dbtime.ParseDate(q.StartDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	end, err := dbtime.ParseDate(q.EndDate)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	sum, err := ctl.Service.GetAttendanceSummary(c.UserContext(), studentID, start, end)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromSummary(sum))
}

/* =========================
   PATCH /attendance/:id
   ========================= */

func (ctl *StudentAttendanceController) Modify(c *fiber.Ctx) error {
	actor, err := helper.GetActorID(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.ModifyAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.ModifyAttendance(c.UserContext(), id, req.ToInput(), actor)
	if err != nil {
		return writeServiceError(c, err)
	}
	if res.RequiresApproval {
		return helper.JsonAccepted(c, res.Message, res)
	}
	return helper.JsonUpdated(c, res.Message, res)
}

/* =========================
   GET /attendance/:id/corrections
   ========================= */

func (ctl *StudentAttendanceController) ListCorrections(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := ctl.Service.ListPendingCorrections(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromCorrections(rows))
}

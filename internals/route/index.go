// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoutes "sanchalak_backend/internals/features/school/attendance/route"
	"sanchalak_backend/internals/features/school/attendance/service"
	"sanchalak_backend/internals/middlewares"
	authMiddleware "sanchalak_backend/internals/middlewares/auth"
)

var startTime time.Time

// SetupRoutes: db boleh nil (mode memory).
func SetupRoutes(app *fiber.App, db *gorm.DB, svc *service.AttendanceService) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	// ===================== API =====================
	log.Println("[INFO] Setting up API group...")
	api := app.Group("/api")

	log.Println("[INFO] Setting up AttendanceRoutes...")
	attendanceRoutes.AttendanceRoutes(api, svc, attendanceRoutes.Middlewares{
		Group: []fiber.Handler{
			authMiddleware.ActorContext(authMiddleware.ActorOpts{}),
		},
		BulkMark: []fiber.Handler{
			middlewares.BulkMarkRateLimiter(),
		},
	})

	log.Println("[INFO] Routes ready ✅")
}

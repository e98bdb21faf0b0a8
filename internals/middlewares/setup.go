package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"sanchalak_backend/internals/configs"
	reqLogger "sanchalak_backend/internals/middlewares/logger"
)

// SetupMiddlewares: middleware global, urutan penting (recover paling luar).
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(reqLogger.LoggerMiddleware(configs.Attendance.Timezone))
	app.Use(GlobalRateLimiter())
}

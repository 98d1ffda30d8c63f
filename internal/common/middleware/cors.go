package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS разрешает все источники (dev). Content-Disposition открыт, чтобы
// браузер видел имя архива при скачивании.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		ExposeHeaders: []string{"Content-Disposition"},
	})
}

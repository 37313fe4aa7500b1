package paymentRoutes

import (
	controllers "lms/controllers/enrollment"
	"lms/middleware"
	validators "lms/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes wires the payment gateway endpoints
func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payment")

	// Order creation is for logged-in users
	paymentGroup.Post("/create-order", middleware.JWTMiddleware, validators.CreateOrder(), controllers.CreateOrder)

	// Gateway-facing callback: no auth, trust is established by the hash
	paymentGroup.Post("/payaid/callback", controllers.PayaidCallback)
}

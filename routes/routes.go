package routes

import (
	"github.com/gofiber/fiber/v2"

	"praxisplan-backend/controllers"
	"praxisplan-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Patients
	protected.Post("/patient", controllers.CreatePatient)
	protected.Get("/patients", controllers.GetPatients)
	protected.Get("/patient/:id", controllers.GetPatient)
	protected.Put("/patient/:id", controllers.UpdatePatient)
	protected.Delete("/patient/:id", controllers.DeletePatient)

	// Treatment packages (calendar expansion + cascade delete)
	protected.Post("/package", controllers.CreatePackage)
	protected.Get("/patient/:id/packages", controllers.GetPatientPackages)
	protected.Get("/package/:id", controllers.GetPackage)
	protected.Post("/package/:id/regenerate", controllers.RegeneratePackage)
	protected.Delete("/package/:id", controllers.DeletePackage)

	// Sessions
	protected.Get("/package/:id/sessions", controllers.GetPackageSessions)
	protected.Put("/session/:id/reschedule", controllers.RescheduleSession)
	protected.Put("/session/:id/complete", controllers.CompleteSession)

	// Payment ledger
	protected.Post("/package/:id/payments", controllers.CreatePayment)
	protected.Get("/package/:id/payments", controllers.ListPayments)
	protected.Put("/payment/:id", controllers.EditPayment)
	protected.Delete("/payment/:id", controllers.DeletePayment)
	protected.Post("/package/:id/payments/reconcile", controllers.ReconcilePayments)
}

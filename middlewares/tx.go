package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"praxisplan-backend/database"
)

// RequestTx opens a per-request DB transaction for authenticated routes.
// Order: run AFTER IsAuthenticatedHeader(), and AFTER Idempotency() (so
// idempotency records aren't tied to the handler TX).
//
// This is the unit-of-work seam: the ledger and cascade algorithms are
// written to survive partial completion on their own, but with this
// middleware in place their multi-step writes commit or roll back together.
func RequestTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.RequestDB(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}

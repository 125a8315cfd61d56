package controllers

import (
	"github.com/gofiber/fiber/v2"

	"praxisplan-backend/database"
	"praxisplan-backend/ledger"
	"praxisplan-backend/middlewares"
	"praxisplan-backend/utils"
)

type PaymentCreateDTO struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Date   string  `json:"date" validate:"required"`
	Method string  `json:"method" validate:"omitempty,max=32"`
	Note   string  `json:"note" validate:"omitempty"`
}

type PaymentEditDTO struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// POST /api/package/:id/payments
func CreatePayment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var in PaymentCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	lg := ledger.New(database.NewStore(database.RequestDB(c)))

	tx, err := lg.AddPayment(id, in.Amount, date, in.Method, in.Note, middlewares.Actor(c))
	if err != nil {
		return err
	}
	remaining, err := lg.Remaining(id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"transaction": tx,
		"remaining":   remaining,
	})
}

// GET /api/package/:id/payments
func ListPayments(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	store := database.NewStore(database.RequestDB(c))

	pkg, err := store.Package(id)
	if err != nil {
		return err
	}
	txs, err := store.TransactionsByPackage(id)
	if err != nil {
		return err
	}

	remaining := utils.Round2(pkg.PaymentCap() - pkg.PaidPayment)
	if remaining < 0 {
		remaining = 0
	}
	return c.JSON(fiber.Map{
		"transactions": txs,
		"paid_payment": pkg.PaidPayment,
		"cap":          pkg.PaymentCap(),
		"remaining":    remaining,
		"message":      "success",
	})
}

// PUT /api/payment/:id
func EditPayment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var in PaymentEditDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	lg := ledger.New(database.NewStore(database.RequestDB(c)))

	tx, err := lg.EditPayment(id, in.Amount, middlewares.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

// DELETE /api/payment/:id
func DeletePayment(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	lg := ledger.New(database.NewStore(database.RequestDB(c)))

	if err := lg.RemovePayment(id, middlewares.Actor(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "payment removed"})
}

// POST /api/package/:id/payments/reconcile
//
// Repair primitive: rewrites the materialized balance from the transaction
// history after a crash between the two-step ledger writes.
func ReconcilePayments(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	lg := ledger.New(database.NewStore(database.RequestDB(c)))

	paid, err := lg.Reconcile(id, middlewares.Actor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"paid_payment": paid,
		"message":      "reconciled",
	})
}

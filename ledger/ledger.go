package ledger

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"praxisplan-backend/models"
	"praxisplan-backend/scheduling"
	"praxisplan-backend/utils"
)

// Store is the narrow persistence surface the ledger needs. Reads are
// filtered to non-deleted rows; a missing or soft-deleted row surfaces as
// models.ErrNotFound.
type Store interface {
	Package(id uint) (models.TreatmentPackage, error)
	Transaction(id uint) (models.PaymentTransaction, error)
	TransactionsByPackage(packageID uint) ([]models.PaymentTransaction, error)

	AppendTransaction(tx *models.PaymentTransaction) error
	UpdateTransactionAmount(id uint, amount float64, actor string) error
	SoftDeleteTransaction(id uint, actor string) error
	UpdatePaidPayment(packageID uint, paid float64, actor string) error
}

// ExceedsRemainingError rejects a payment that would push the paid balance
// over the package cap (total minus advance). Remaining is surfaced so the
// front end can tell the user how much is still allowed.
type ExceedsRemainingError struct {
	PackageID uint
	Requested float64
	Remaining float64
}

func (e *ExceedsRemainingError) Error() string {
	return fmt.Sprintf("package %d: payment of %.2f exceeds remaining allowance of %.2f",
		e.PackageID, e.Requested, e.Remaining)
}

var ErrInvalidAmount = errors.New("payment amount must be positive")

// Ledger maintains a package's materialized paid balance against its
// transaction history. Every mutation writes the transaction row first and
// the package balance second, so a crash between the two leaves the history
// authoritative and Reconcile can repair the balance.
//
// There is no optimistic locking: two callers adding payments to the same
// package at overlapping times can race the read-modify-write of the
// balance. Accepted for the single-receptionist deployments this targets;
// closing it needs an atomic increment or version column at the store.
type Ledger struct {
	store Store
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// AddPayment appends a transaction and bumps the package balance, refusing
// anything that would exceed the cap.
func (l *Ledger) AddPayment(packageID uint, amount float64, date time.Time, method, note, actor string) (models.PaymentTransaction, error) {
	if amount <= 0 {
		return models.PaymentTransaction{}, ErrInvalidAmount
	}
	amount = utils.Round2(amount)

	pkg, err := l.store.Package(packageID)
	if err != nil {
		return models.PaymentTransaction{}, err
	}

	// Compare rounded cents, not raw float sums: 0.1+0.2 must not overshoot
	// a 0.30 cap through binary float noise.
	cap := utils.Round2(pkg.PaymentCap())
	if utils.Round2(pkg.PaidPayment+amount) > cap {
		return models.PaymentTransaction{}, &ExceedsRemainingError{
			PackageID: packageID,
			Requested: amount,
			Remaining: clampZero(utils.Round2(cap - pkg.PaidPayment)),
		}
	}

	tx := models.PaymentTransaction{
		TreatmentPackageID: packageID,
		Amount:             amount,
		Date:               datatypes.Date(scheduling.DateOnly(date)),
		Method:             method,
		Note:               note,
		UpdatedBy:          actor,
	}
	if err := l.store.AppendTransaction(&tx); err != nil {
		return models.PaymentTransaction{}, err
	}
	if err := l.store.UpdatePaidPayment(packageID, utils.Round2(pkg.PaidPayment+amount), actor); err != nil {
		return models.PaymentTransaction{}, err
	}
	return tx, nil
}

// EditPayment changes a transaction's amount and shifts the balance by the
// delta. The cap is re-validated before anything is written; on failure
// neither the transaction nor the package changes.
func (l *Ledger) EditPayment(transactionID uint, newAmount float64, actor string) (models.PaymentTransaction, error) {
	if newAmount <= 0 {
		return models.PaymentTransaction{}, ErrInvalidAmount
	}
	newAmount = utils.Round2(newAmount)

	tx, err := l.store.Transaction(transactionID)
	if err != nil {
		return models.PaymentTransaction{}, err
	}
	pkg, err := l.store.Package(tx.TreatmentPackageID)
	if err != nil {
		return models.PaymentTransaction{}, err
	}

	cap := utils.Round2(pkg.PaymentCap())
	delta := newAmount - tx.Amount
	if utils.Round2(pkg.PaidPayment+delta) > cap {
		return models.PaymentTransaction{}, &ExceedsRemainingError{
			PackageID: pkg.ID,
			Requested: newAmount,
			Remaining: clampZero(utils.Round2(cap - pkg.PaidPayment + tx.Amount)),
		}
	}

	if err := l.store.UpdateTransactionAmount(transactionID, newAmount, actor); err != nil {
		return models.PaymentTransaction{}, err
	}
	if err := l.store.UpdatePaidPayment(pkg.ID, clampZero(utils.Round2(pkg.PaidPayment+delta)), actor); err != nil {
		return models.PaymentTransaction{}, err
	}

	tx.Amount = newAmount
	tx.UpdatedBy = actor
	return tx, nil
}

// RemovePayment soft-deletes a transaction and decrements the balance,
// clamped at zero. Removal only lowers the balance, so it never trips the
// cap check.
func (l *Ledger) RemovePayment(transactionID uint, actor string) error {
	tx, err := l.store.Transaction(transactionID)
	if err != nil {
		return err
	}
	pkg, err := l.store.Package(tx.TreatmentPackageID)
	if err != nil {
		return err
	}

	if err := l.store.SoftDeleteTransaction(transactionID, actor); err != nil {
		return err
	}
	return l.store.UpdatePaidPayment(pkg.ID, clampZero(utils.Round2(pkg.PaidPayment-tx.Amount)), actor)
}

// Reconcile rewrites the package balance from the sum of its non-deleted
// transactions. Repair primitive for a crash between the two-step writes;
// never invoked automatically.
func (l *Ledger) Reconcile(packageID uint, actor string) (float64, error) {
	if _, err := l.store.Package(packageID); err != nil {
		return 0, err
	}
	txs, err := l.store.TransactionsByPackage(packageID)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, tx := range txs {
		sum += tx.Amount
	}
	sum = utils.Round2(sum)

	if err := l.store.UpdatePaidPayment(packageID, sum, actor); err != nil {
		return 0, err
	}
	return sum, nil
}

// Remaining reports how much may still be paid against the package.
func (l *Ledger) Remaining(packageID uint) (float64, error) {
	pkg, err := l.store.Package(packageID)
	if err != nil {
		return 0, err
	}
	return clampZero(utils.Round2(pkg.PaymentCap() - pkg.PaidPayment)), nil
}

func clampZero(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

package cascade

import "fmt"

// Store is the soft-delete surface the coordinator drives. Every operation
// must be idempotent against rows that are already deleted: marking them
// again is a no-op, never an error. That property is what makes a partial
// cascade safe to retry.
type Store interface {
	// PackageIDsByPatient lists the patient's non-deleted package IDs.
	PackageIDsByPatient(patientID uint) ([]uint, error)

	SoftDeleteSessionsByPackage(packageID uint, actor string) error
	SoftDeleteTransactionsByPackage(packageID uint, actor string) error
	SoftDeletePackage(id uint, actor string) error
	SoftDeletePatient(id uint, actor string) error
}

// Coordinator walks the patient → package → session → transaction tree and
// soft-deletes it top down. There is no rollback: a failed step aborts the
// cascade and leaves earlier steps in place, and the caller retries the
// whole operation.
type Coordinator struct {
	store Store
}

func New(store Store) *Coordinator {
	return &Coordinator{store: store}
}

// DeletePackage removes a package's subtree: sessions, then transactions,
// then the package row. The order only matters for audit completeness.
func (c *Coordinator) DeletePackage(id uint, actor string) error {
	if err := c.store.SoftDeleteSessionsByPackage(id, actor); err != nil {
		return fmt.Errorf("soft-delete sessions of package %d: %w", id, err)
	}
	if err := c.store.SoftDeleteTransactionsByPackage(id, actor); err != nil {
		return fmt.Errorf("soft-delete transactions of package %d: %w", id, err)
	}
	if err := c.store.SoftDeletePackage(id, actor); err != nil {
		return fmt.Errorf("soft-delete package %d: %w", id, err)
	}
	return nil
}

// DeletePatient cascades over every non-deleted package, then removes the
// patient. Re-running on an already-deleted patient finds no packages and
// no-ops through.
func (c *Coordinator) DeletePatient(id uint, actor string) error {
	packageIDs, err := c.store.PackageIDsByPatient(id)
	if err != nil {
		return fmt.Errorf("list packages of patient %d: %w", id, err)
	}
	for _, pkgID := range packageIDs {
		if err := c.DeletePackage(pkgID, actor); err != nil {
			return err
		}
	}
	if err := c.store.SoftDeletePatient(id, actor); err != nil {
		return fmt.Errorf("soft-delete patient %d: %w", id, err)
	}
	return nil
}

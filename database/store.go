package database

import (
	"errors"

	"gorm.io/gorm"

	"praxisplan-backend/models"
)

// Store adapts a *gorm.DB to the ledger.Store and cascade.Store interfaces.
// Reads exclude soft-deleted rows; soft-deletes on already-deleted rows are
// no-ops, which is what makes the cascade retry-safe.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Package(id uint) (models.TreatmentPackage, error) {
	var pkg models.TreatmentPackage
	err := s.db.Where("id = ? AND is_deleted = ?", id, false).First(&pkg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg, models.ErrNotFound
	}
	return pkg, err
}

func (s *Store) Transaction(id uint) (models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	err := s.db.Where("id = ? AND is_deleted = ?", id, false).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx, models.ErrNotFound
	}
	return tx, err
}

func (s *Store) TransactionsByPackage(packageID uint) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	err := s.db.
		Where("treatment_package_id = ? AND is_deleted = ?", packageID, false).
		Order("date, id").
		Find(&txs).Error
	return txs, err
}

func (s *Store) AppendTransaction(tx *models.PaymentTransaction) error {
	return s.db.Create(tx).Error
}

func (s *Store) UpdateTransactionAmount(id uint, amount float64, actor string) error {
	res := s.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"amount": amount, "updated_by": actor})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) SoftDeleteTransaction(id uint, actor string) error {
	return s.db.Model(&models.PaymentTransaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error
}

func (s *Store) UpdatePaidPayment(packageID uint, paid float64, actor string) error {
	res := s.db.Model(&models.TreatmentPackage{}).
		Where("id = ? AND is_deleted = ?", packageID, false).
		Updates(map[string]any{"paid_payment": paid, "updated_by": actor})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) PackageIDsByPatient(patientID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.TreatmentPackage{}).
		Where("patient_id = ? AND is_deleted = ?", patientID, false).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (s *Store) SoftDeleteSessionsByPackage(packageID uint, actor string) error {
	return s.db.Model(&models.Session{}).
		Where("treatment_package_id = ? AND is_deleted = ?", packageID, false).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error
}

func (s *Store) SoftDeleteTransactionsByPackage(packageID uint, actor string) error {
	return s.db.Model(&models.PaymentTransaction{}).
		Where("treatment_package_id = ? AND is_deleted = ?", packageID, false).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error
}

func (s *Store) SoftDeletePackage(id uint, actor string) error {
	return s.db.Model(&models.TreatmentPackage{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error
}

func (s *Store) SoftDeletePatient(id uint, actor string) error {
	return s.db.Model(&models.Patient{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_by": actor}).Error
}

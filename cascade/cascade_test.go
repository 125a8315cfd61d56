package cascade_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"praxisplan-backend/cascade"
)

// fakeStore models the tree as flag maps and counts how many rows each call
// actually transitions, so tests can tell a retry no-op from double-marking.
type fakeStore struct {
	patientDeleted  map[uint]bool
	packageDeleted  map[uint]bool
	packagePatient  map[uint]uint   // package -> patient
	sessionDeleted  map[uint]bool   // session id -> deleted
	sessionPackage  map[uint]uint   // session -> package
	txDeleted       map[uint]bool   // transaction id -> deleted
	txPackage       map[uint]uint   // transaction -> package
	transitions     int             // rows flipped to deleted across all calls
	failTxDeleteFor map[uint]error  // packageID -> error to inject once
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patientDeleted:  make(map[uint]bool),
		packageDeleted:  make(map[uint]bool),
		packagePatient:  make(map[uint]uint),
		sessionDeleted:  make(map[uint]bool),
		sessionPackage:  make(map[uint]uint),
		txDeleted:       make(map[uint]bool),
		txPackage:       make(map[uint]uint),
		failTxDeleteFor: make(map[uint]error),
	}
}

func (f *fakeStore) addPatient(id uint) { f.patientDeleted[id] = false }

func (f *fakeStore) addPackage(id, patientID uint) {
	f.packageDeleted[id] = false
	f.packagePatient[id] = patientID
}

func (f *fakeStore) addSession(id, packageID uint) {
	f.sessionDeleted[id] = false
	f.sessionPackage[id] = packageID
}

func (f *fakeStore) addTransaction(id, packageID uint) {
	f.txDeleted[id] = false
	f.txPackage[id] = packageID
}

func (f *fakeStore) PackageIDsByPatient(patientID uint) ([]uint, error) {
	var ids []uint
	for id := uint(1); id <= uint(len(f.packagePatient)); id++ {
		if f.packagePatient[id] == patientID && !f.packageDeleted[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) SoftDeleteSessionsByPackage(packageID uint, actor string) error {
	for id, pkg := range f.sessionPackage {
		if pkg == packageID && !f.sessionDeleted[id] {
			f.sessionDeleted[id] = true
			f.transitions++
		}
	}
	return nil
}

func (f *fakeStore) SoftDeleteTransactionsByPackage(packageID uint, actor string) error {
	if err := f.failTxDeleteFor[packageID]; err != nil {
		delete(f.failTxDeleteFor, packageID)
		return err
	}
	for id, pkg := range f.txPackage {
		if pkg == packageID && !f.txDeleted[id] {
			f.txDeleted[id] = true
			f.transitions++
		}
	}
	return nil
}

func (f *fakeStore) SoftDeletePackage(id uint, actor string) error {
	if done, ok := f.packageDeleted[id]; ok && !done {
		f.packageDeleted[id] = true
		f.transitions++
	}
	return nil
}

func (f *fakeStore) SoftDeletePatient(id uint, actor string) error {
	if done, ok := f.patientDeleted[id]; ok && !done {
		f.patientDeleted[id] = true
		f.transitions++
	}
	return nil
}

// seedPatientTree builds a patient with 2 packages, 3 sessions and 2
// transactions each.
func seedPatientTree(f *fakeStore) {
	f.addPatient(1)
	f.addPackage(1, 1)
	f.addPackage(2, 1)
	sid, tid := uint(1), uint(1)
	for pkg := uint(1); pkg <= 2; pkg++ {
		for i := 0; i < 3; i++ {
			f.addSession(sid, pkg)
			sid++
		}
		for i := 0; i < 2; i++ {
			f.addTransaction(tid, pkg)
			tid++
		}
	}
}

func TestDeletePatient_FullSubtree(t *testing.T) {
	store := newFakeStore()
	seedPatientTree(store)
	coordinator := cascade.New(store)

	require.NoError(t, coordinator.DeletePatient(1, "reception"))

	for id := uint(1); id <= 2; id++ {
		assert.True(t, store.packageDeleted[id], "package %d", id)
	}
	for id := uint(1); id <= 6; id++ {
		assert.True(t, store.sessionDeleted[id], "session %d", id)
	}
	for id := uint(1); id <= 4; id++ {
		assert.True(t, store.txDeleted[id], "transaction %d", id)
	}
	assert.True(t, store.patientDeleted[1])
	// 2 packages + 6 sessions + 4 transactions + 1 patient
	assert.Equal(t, 13, store.transitions)
}

func TestDeletePatient_RerunIsNoOp(t *testing.T) {
	store := newFakeStore()
	seedPatientTree(store)
	coordinator := cascade.New(store)

	require.NoError(t, coordinator.DeletePatient(1, "reception"))
	require.NoError(t, coordinator.DeletePatient(1, "reception"))

	assert.Equal(t, 13, store.transitions, "second run flips nothing")
}

func TestDeletePackage_OnlyItsSubtree(t *testing.T) {
	store := newFakeStore()
	seedPatientTree(store)
	coordinator := cascade.New(store)

	require.NoError(t, coordinator.DeletePackage(1, "reception"))

	assert.True(t, store.packageDeleted[1])
	assert.False(t, store.packageDeleted[2], "sibling package untouched")
	assert.False(t, store.patientDeleted[1], "package delete never climbs up")
	for id := uint(4); id <= 6; id++ {
		assert.False(t, store.sessionDeleted[id], "sibling's session %d untouched", id)
	}
}

func TestDeletePatient_PartialFailureThenRetry(t *testing.T) {
	// GIVEN: the transaction sweep of package 2 fails once
	store := newFakeStore()
	seedPatientTree(store)
	store.failTxDeleteFor[2] = errors.New("connection reset")
	coordinator := cascade.New(store)

	// WHEN: the cascade runs
	err := coordinator.DeletePatient(1, "reception")

	// THEN: it reports the failure and keeps earlier steps' effects
	require.Error(t, err)
	assert.True(t, store.packageDeleted[1], "first package fully cascaded before the failure")
	assert.True(t, store.sessionDeleted[4], "failing package's sessions were already swept")
	assert.False(t, store.packageDeleted[2])
	assert.False(t, store.patientDeleted[1])

	// AND: a retry finishes the job without double-marking anything
	require.NoError(t, coordinator.DeletePatient(1, "reception"))
	assert.True(t, store.packageDeleted[2])
	assert.True(t, store.patientDeleted[1])
	assert.Equal(t, 13, store.transitions)
}

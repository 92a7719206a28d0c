package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/smart-home-repair/repair-api/logger"
	"github.com/smart-home-repair/repair-api/models"
)

// Storage keys. The literal values match the keys the mobile app has always used on-device.
const (
	KeyUser          = "@smart_home_repair_user"
	KeyAuthToken     = "@smart_home_repair_auth_token"
	KeyRepairHistory = "@smart_home_repair_history"
	KeyBookings      = "@smart_home_repair_bookings"
	KeyFaultReports  = "@smart_home_repair_fault_reports"
)

// AllKeys lists every key the record store owns
var AllKeys = []string{KeyUser, KeyAuthToken, KeyRepairHistory, KeyBookings, KeyFaultReports}

// Record is anything stored in a collection
type Record interface {
	GetID() string
}

// RecordStore keeps each record collection as one JSON array under one key, in the mobile
// app's camelCase shape. Reads fail soft: missing or corrupt values come back empty.
type RecordStore struct {
	kv        KeyValueStore
	namespace string
	log       *logger.Logger

	// serializes read-modify-write of a collection within this process
	mu sync.Mutex
}

var recordStoreInstance *RecordStore

// NewRecordStore creates a record store over kv. namespace is prepended to every key.
func NewRecordStore(kv KeyValueStore, namespace string, log *logger.Logger) *RecordStore {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordStore{
		kv:        kv,
		namespace: namespace,
		log:       log.With("service", "RecordStore"),
	}
}

// InitRecordStore creates the process record store
func InitRecordStore(kv KeyValueStore, namespace string, log *logger.Logger) *RecordStore {
	recordStoreInstance = NewRecordStore(kv, namespace, log)
	return recordStoreInstance
}

// GetRecordStore returns the initialized record store
func GetRecordStore() *RecordStore {
	return recordStoreInstance
}

// SetRecordStore sets the record store instance (primarily for testing)
func SetRecordStore(store *RecordStore) {
	recordStoreInstance = store
}

func (s *RecordStore) key(k string) string {
	return s.namespace + k
}

// getCollection returns the stored sequence under key, or an empty one if absent or unreadable
func getCollection[T any](ctx context.Context, s *RecordStore, key string) []T {
	raw, found, err := s.kv.GetItem(ctx, s.key(key))
	if err != nil {
		s.logReadError(&StorageReadError{Key: key, Err: err})
		return []T{}
	}
	if !found || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logReadError(&StorageReadError{Key: key, Err: err})
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// upsertRecord replaces the record with the same id in place, or prepends it
func upsertRecord[T Record](ctx context.Context, s *RecordStore, key string, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := getCollection[T](ctx, s, key)
	replaced := false
	for i := range items {
		if items[i].GetID() == record.GetID() {
			items[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		items = append([]T{record}, items...)
	}

	return s.setJSON(ctx, key, items)
}

func findRecord[T Record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (s *RecordStore) setJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &StorageWriteError{Key: key, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := s.kv.SetItem(ctx, s.key(key), string(data)); err != nil {
		s.log.Error("Error saving record", "key", key, "error", err)
		return &StorageWriteError{Key: key, Err: err}
	}
	return nil
}

func (s *RecordStore) logReadError(err *StorageReadError) {
	s.log.Warn("Error reading record, treating as absent", "key", err.Key, "error", err.Err)
}

// GetUser returns the active user, or nil when none is stored
func (s *RecordStore) GetUser(ctx context.Context) *models.User {
	raw, found, err := s.kv.GetItem(ctx, s.key(KeyUser))
	if err != nil {
		s.logReadError(&StorageReadError{Key: KeyUser, Err: err})
		return nil
	}
	if !found || raw == "" {
		return nil
	}

	var stored storedUser
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logReadError(&StorageReadError{Key: KeyUser, Err: err})
		return nil
	}
	user := fromStoredUser(stored)
	return &user
}

// SetUser stores the active user
func (s *RecordStore) SetUser(ctx context.Context, user models.User) error {
	return s.setJSON(ctx, KeyUser, toStoredUser(user))
}

// GetAuthToken returns the stored session token
func (s *RecordStore) GetAuthToken(ctx context.Context) (string, bool) {
	token, found, err := s.kv.GetItem(ctx, s.key(KeyAuthToken))
	if err != nil {
		s.logReadError(&StorageReadError{Key: KeyAuthToken, Err: err})
		return "", false
	}
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// SetAuthToken stores the session token as a plain string
func (s *RecordStore) SetAuthToken(ctx context.Context, token string) error {
	if err := s.kv.SetItem(ctx, s.key(KeyAuthToken), token); err != nil {
		s.log.Error("Error saving auth token", "error", err)
		return &StorageWriteError{Key: KeyAuthToken, Err: err}
	}
	return nil
}

// GetFaultReports returns every fault report, most recent first
func (s *RecordStore) GetFaultReports(ctx context.Context) []models.FaultReport {
	return mapSlice(getCollection[storedFaultReport](ctx, s, KeyFaultReports), fromStoredFaultReport)
}

// GetFaultReport returns one report or ErrNotFound
func (s *RecordStore) GetFaultReport(ctx context.Context, id string) (*models.FaultReport, error) {
	report, ok := findRecord(s.GetFaultReports(ctx), id)
	if !ok {
		return nil, ErrNotFound
	}
	return &report, nil
}

// SaveFaultReport upserts a fault report
func (s *RecordStore) SaveFaultReport(ctx context.Context, report models.FaultReport) error {
	return upsertRecord(ctx, s, KeyFaultReports, toStoredFaultReport(report))
}

// GetBookings returns every booking, most recent first
func (s *RecordStore) GetBookings(ctx context.Context) []models.Booking {
	return mapSlice(getCollection[storedBooking](ctx, s, KeyBookings), fromStoredBooking)
}

// GetBooking returns one booking or ErrNotFound
func (s *RecordStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, ok := findRecord(s.GetBookings(ctx), id)
	if !ok {
		return nil, ErrNotFound
	}
	return &booking, nil
}

// SaveBooking upserts a booking
func (s *RecordStore) SaveBooking(ctx context.Context, booking models.Booking) error {
	return upsertRecord(ctx, s, KeyBookings, toStoredBooking(booking))
}

// GetRepairHistory returns every history record, most recent first
func (s *RecordStore) GetRepairHistory(ctx context.Context) []models.RepairHistory {
	return mapSlice(getCollection[storedRepairHistory](ctx, s, KeyRepairHistory), fromStoredRepairHistory)
}

// SaveRepairHistory upserts a history record
func (s *RecordStore) SaveRepairHistory(ctx context.Context, history models.RepairHistory) error {
	return upsertRecord(ctx, s, KeyRepairHistory, toStoredRepairHistory(history))
}

// RemoveKeys deletes the given logical keys
func (s *RecordStore) RemoveKeys(ctx context.Context, keys ...string) error {
	physical := make([]string, len(keys))
	for i, k := range keys {
		physical[i] = s.key(k)
	}
	if err := s.kv.MultiRemove(ctx, physical...); err != nil {
		s.log.Error("Error clearing storage", "keys", keys, "error", err)
		return &StorageWriteError{Key: fmt.Sprintf("%v", keys), Err: err}
	}
	return nil
}

// ClearAll removes every key, session included
func (s *RecordStore) ClearAll(ctx context.Context) error {
	return s.RemoveKeys(ctx, AllKeys...)
}

// ClearSession removes only the user and auth token
func (s *RecordStore) ClearSession(ctx context.Context) error {
	return s.RemoveKeys(ctx, KeyUser, KeyAuthToken)
}

// ClearAppData removes reports, bookings and history but keeps the session
func (s *RecordStore) ClearAppData(ctx context.Context) error {
	return s.RemoveKeys(ctx, KeyFaultReports, KeyBookings, KeyRepairHistory)
}

// Ping checks the storage backend
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

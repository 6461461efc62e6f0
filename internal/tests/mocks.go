package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"medride/internal/domain"
	"medride/internal/redis"
	"medride/internal/repository"
	"medride/internal/ws"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		copy := *u
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id string, status domain.UserStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Status = status
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.UserID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.UserID] = driver
	return nil
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.UserID]; !ok {
		return repository.ErrNotFound
	}
	m.drivers[driver.UserID] = driver
	return nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, userID string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[userID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

func (m *MockDriverRepository) SetOnDuty(ctx context.Context, userID string, onDuty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[userID]
	if !ok {
		return repository.ErrNotFound
	}
	driver.OnDuty = onDuty
	return nil
}

// GetDriver returns a driver for test assertions.
func (m *MockDriverRepository) GetDriver(userID string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[userID]
}

// ──────────────────────────────────────────────
// MOCK DOCUMENT REPOSITORY
// ──────────────────────────────────────────────

// MockDocumentRepository is a mock implementation of DocumentRepository.
type MockDocumentRepository struct {
	mu   sync.RWMutex
	docs map[string]*domain.DriverDocument

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDocumentRepository creates a new mock document repository.
func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{
		docs: make(map[string]*domain.DriverDocument),
	}
}

// AddDocument adds a document to the mock repository.
func (m *MockDocumentRepository) AddDocument(doc *domain.DriverDocument) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *domain.DriverDocument) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, id string) (*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *doc
	return &copy, nil
}

func (m *MockDocumentRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DriverDocument
	for _, d := range m.docs {
		if d.DriverID == driverID {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDocumentRepository) GetByStatus(ctx context.Context, status domain.DocumentStatus) ([]*domain.DriverDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DriverDocument
	for _, d := range m.docs {
		if d.Status == status {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *domain.DriverDocument) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return repository.ErrNotFound
	}
	m.docs[doc.ID] = doc
	return nil
}

// GetDocument returns a document for test assertions.
func (m *MockDocumentRepository) GetDocument(id string) *domain.DriverDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[id]
}

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is a mock implementation of RideRepository.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide adds a ride to the mock repository.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return &copy, nil
}

func (m *MockRideRepository) List(ctx context.Context, filter repository.RideFilter) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Ride
	for _, r := range m.rides {
		if filter.RiderID != "" && r.RiderID != filter.RiderID {
			continue
		}
		if filter.DriverID != "" && r.DriverID != filter.DriverID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		copy := *r
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *MockRideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rides[ride.ID]; !ok {
		return repository.ErrNotFound
	}
	m.rides[ride.ID] = ride
	return nil
}

// GetRide returns the ride by ID (for test assertions).
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

// CountRides returns the number of rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK BID REPOSITORY
// ──────────────────────────────────────────────

// MockBidRepository is a mock implementation of BidRepository.
type MockBidRepository struct {
	mu   sync.RWMutex
	bids map[string]*domain.Bid

	// Counters
	CreateCallCount          int32
	UpdateStatusCallCount    int32
	DeclineSiblingsCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockBidRepository creates a new mock bid repository.
func NewMockBidRepository() *MockBidRepository {
	return &MockBidRepository{
		bids: make(map[string]*domain.Bid),
	}
}

// AddBid adds a bid to the mock repository.
func (m *MockBidRepository) AddBid(bid *domain.Bid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids[bid.ID] = bid
}

func (m *MockBidRepository) Create(ctx context.Context, bid *domain.Bid) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids[bid.ID] = bid
	return nil
}

func (m *MockBidRepository) GetByID(ctx context.Context, id string) (*domain.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bid, ok := m.bids[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *bid
	return &copy, nil
}

func (m *MockBidRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Bid
	for _, b := range m.bids {
		if b.RideID == rideID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBidRepository) GetPendingByRideAndDriver(ctx context.Context, rideID, driverID string) (*domain.Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bids {
		if b.RideID == rideID && b.DriverID == driverID && b.Status == domain.BidStatusPending {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBidRepository) UpdateStatus(ctx context.Context, id string, status domain.BidStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bid, ok := m.bids[id]
	if !ok {
		return repository.ErrNotFound
	}
	bid.Status = status
	return nil
}

func (m *MockBidRepository) DeclineSiblings(ctx context.Context, rideID, acceptedBidID string) ([]string, error) {
	atomic.AddInt32(&m.DeclineSiblingsCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	var declined []string
	for _, b := range m.bids {
		if b.RideID == rideID && b.ID != acceptedBidID && b.Status == domain.BidStatusPending {
			b.Status = domain.BidStatusDeclined
			declined = append(declined, b.ID)
		}
	}
	return declined, nil
}

// GetBid returns a bid for test assertions.
func (m *MockBidRepository) GetBid(id string) *domain.Bid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bids[id]
}

// ──────────────────────────────────────────────
// MOCK OVERRIDE REPOSITORY
// ──────────────────────────────────────────────

// MockOverrideRepository is a mock implementation of OverrideRepository.
type MockOverrideRepository struct {
	mu        sync.RWMutex
	overrides []*domain.FareOverride

	// Error injection
	CreateError error
}

// NewMockOverrideRepository creates a new mock override repository.
func NewMockOverrideRepository() *MockOverrideRepository {
	return &MockOverrideRepository{}
}

func (m *MockOverrideRepository) Create(ctx context.Context, override *domain.FareOverride) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *override
	m.overrides = append(m.overrides, &copy)
	return nil
}

func (m *MockOverrideRepository) GetByRideID(ctx context.Context, rideID string) ([]*domain.FareOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.FareOverride
	for _, o := range m.overrides {
		if o.RideID == rideID {
			copy := *o
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountOverrides returns the number of stored overrides.
func (m *MockOverrideRepository) CountOverrides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overrides)
}

// ──────────────────────────────────────────────
// MOCK ADDRESS REPOSITORY
// ──────────────────────────────────────────────

// MockAddressRepository is a mock implementation of AddressRepository.
type MockAddressRepository struct {
	mu        sync.RWMutex
	addresses map[string]*domain.SavedAddress

	// Error injection
	CreateError error
}

// NewMockAddressRepository creates a new mock address repository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]*domain.SavedAddress),
	}
}

// AddAddress adds an address to the mock repository.
func (m *MockAddressRepository) AddAddress(addr *domain.SavedAddress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[addr.ID] = addr
}

func (m *MockAddressRepository) Create(ctx context.Context, addr *domain.SavedAddress) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[addr.ID] = addr
	return nil
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id string) (*domain.SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, ok := m.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *addr
	return &copy, nil
}

func (m *MockAddressRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.SavedAddress
	for _, a := range m.addresses {
		if a.UserID == userID {
			copy := *a
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockAddressRepository) Update(ctx context.Context, addr *domain.SavedAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.addresses[addr.ID]; !ok {
		return repository.ErrNotFound
	}
	m.addresses[addr.ID] = addr
	return nil
}

func (m *MockAddressRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.addresses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

// CountAddresses returns the number of stored addresses.
func (m *MockAddressRepository) CountAddresses() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.addresses)
}

// ──────────────────────────────────────────────
// MOCK DISPUTE REPOSITORY
// ──────────────────────────────────────────────

// MockDisputeRepository is a mock implementation of DisputeRepository.
type MockDisputeRepository struct {
	mu       sync.RWMutex
	disputes map[string]*domain.Dispute

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockDisputeRepository creates a new mock dispute repository.
func NewMockDisputeRepository() *MockDisputeRepository {
	return &MockDisputeRepository{
		disputes: make(map[string]*domain.Dispute),
	}
}

// AddDispute adds a dispute to the mock repository.
func (m *MockDisputeRepository) AddDispute(dispute *domain.Dispute) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disputes[dispute.ID] = dispute
}

func (m *MockDisputeRepository) Create(ctx context.Context, dispute *domain.Dispute) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disputes[dispute.ID] = dispute
	return nil
}

func (m *MockDisputeRepository) GetByID(ctx context.Context, id string) (*domain.Dispute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dispute, ok := m.disputes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *dispute
	return &copy, nil
}

func (m *MockDisputeRepository) List(ctx context.Context, status domain.DisputeStatus) ([]*domain.Dispute, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Dispute
	for _, d := range m.disputes {
		if status != "" && d.Status != status {
			continue
		}
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDisputeRepository) Update(ctx context.Context, dispute *domain.Dispute) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.disputes[dispute.ID]; !ok {
		return repository.ErrNotFound
	}
	m.disputes[dispute.ID] = dispute
	return nil
}

// GetDispute returns a dispute for test assertions.
func (m *MockDisputeRepository) GetDispute(id string) *domain.Dispute {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disputes[id]
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION REPOSITORY
// ──────────────────────────────────────────────

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
	seqs          map[string]int64

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockNotificationRepository creates a new mock notification repository.
func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{
		seqs: make(map[string]int64),
	}
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqs[n.UserID]++
	n.Seq = m.seqs[n.UserID]
	copy := *n
	m.notifications = append(m.notifications, &copy)
	return nil
}

func (m *MockNotificationRepository) ListAfter(ctx context.Context, userID string, afterSeq int64, limit int) ([]*domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && n.Seq > afterSeq {
			copy := *n
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID string, upToSeq int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for _, n := range m.notifications {
		if n.UserID == userID && n.Seq <= upToSeq && n.ReadAt.IsZero() {
			n.ReadAt = now
		}
	}
	return nil
}

// NotificationsFor returns all stored notifications for a user.
func (m *MockNotificationRepository) NotificationsFor(userID string) []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// CountFor returns the number of notifications stored for a user.
func (m *MockNotificationRepository) CountFor(userID string) int {
	return len(m.NotificationsFor(userID))
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is a mock implementation of SessionStore.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*redis.Session
	tracked  map[string]map[string]struct{}

	// Counters
	SaveCallCount   int32
	RevokeCallCount int32

	// Error injection
	SaveError error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*redis.Session),
		tracked:  make(map[string]map[string]struct{}),
	}
}

func (m *MockSessionStore) Save(ctx context.Context, token string, session *redis.Session) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = session
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*redis.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	copy := *session
	return &copy, nil
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MockSessionStore) Track(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.tracked[userID]
	if !ok {
		set = make(map[string]struct{})
		m.tracked[userID] = set
	}
	set[token] = struct{}{}
	return nil
}

func (m *MockSessionStore) Untrack(ctx context.Context, userID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tracked[userID], token)
	return nil
}

func (m *MockSessionStore) RevokeUser(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.RevokeCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	for token := range m.tracked[userID] {
		delete(m.sessions, token)
	}
	delete(m.tracked, userID)
	return nil
}

// SessionCount returns the number of live sessions.
func (m *MockSessionStore) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStore.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

func (m *MockLockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:ride:"+rideID, ttl)
}

func (m *MockLockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return m.release("lock:ride:" + rideID)
}

func (m *MockLockStore) AcquireReviewLock(ctx context.Context, documentID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:docreview:"+documentID, ttl)
}

func (m *MockLockStore) ReleaseReviewLock(ctx context.Context, documentID string) error {
	return m.release("lock:docreview:" + documentID)
}

// IsRideLocked checks if a ride is locked (for test assertions).
func (m *MockLockStore) IsRideLocked(rideID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:ride:"+rideID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK LOCATION STORE
// ──────────────────────────────────────────────

// MockLocationStore is a mock implementation of LocationStore.
type MockLocationStore struct {
	mu        sync.RWMutex
	locations []redis.DriverLocation

	// Counters
	UpdateLocationCallCount int32

	// Error injection
	UpdateLocationError    error
	FindNearbyDriversError error
}

// NewMockLocationStore creates a new mock location store.
func NewMockLocationStore() *MockLocationStore {
	return &MockLocationStore{
		locations: make([]redis.DriverLocation, 0),
	}
}

// AddDriverLocation adds a driver location to the mock store.
func (m *MockLocationStore) AddDriverLocation(loc redis.DriverLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations = append(m.locations, loc)
}

func (m *MockLocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	atomic.AddInt32(&m.UpdateLocationCallCount, 1)
	if m.UpdateLocationError != nil {
		return m.UpdateLocationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Update existing or add new.
	for i, loc := range m.locations {
		if loc.DriverID == driverID {
			m.locations[i].Lat = lat
			m.locations[i].Lng = lng
			return nil
		}
	}
	m.locations = append(m.locations, redis.DriverLocation{
		DriverID: driverID,
		Lat:      lat,
		Lng:      lng,
	})
	return nil
}

func (m *MockLocationStore) FindNearbyDrivers(ctx context.Context, lat, lng, radiusKm float64) ([]redis.DriverLocation, error) {
	if m.FindNearbyDriversError != nil {
		return nil, m.FindNearbyDriversError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Return all locations (mock doesn't do real geo filtering).
	result := make([]redis.DriverLocation, len(m.locations))
	copy(result, m.locations)
	return result, nil
}

func (m *MockLocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, loc := range m.locations {
		if loc.DriverID == driverID {
			m.locations = append(m.locations[:i], m.locations[i+1:]...)
			return nil
		}
	}
	return nil
}

// HasLocation checks if a driver location exists.
func (m *MockLocationStore) HasLocation(driverID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, loc := range m.locations {
		if loc.DriverID == driverID {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStore.
type MockCacheStore struct {
	mu        sync.RWMutex
	rides     map[string]*redis.CachedRide
	drivers   map[string]*redis.CachedDriver
	openRides map[string]struct{}
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		rides:     make(map[string]*redis.CachedRide),
		drivers:   make(map[string]*redis.CachedDriver),
		openRides: make(map[string]struct{}),
	}
}

func (m *MockCacheStore) GetRide(ctx context.Context, rideID string) (*redis.CachedRide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[rideID], nil
}

func (m *MockCacheStore) SetRide(ctx context.Context, ride *redis.CachedRide) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	return nil
}

func (m *MockCacheStore) InvalidateRide(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rides, rideID)
	return nil
}

func (m *MockCacheStore) GetDriver(ctx context.Context, userID string) (*redis.CachedDriver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[userID], nil
}

func (m *MockCacheStore) SetDriver(ctx context.Context, driver *redis.CachedDriver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.UserID] = driver
	return nil
}

func (m *MockCacheStore) InvalidateDriver(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drivers, userID)
	return nil
}

func (m *MockCacheStore) AddOpenRide(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openRides[rideID] = struct{}{}
	return nil
}

func (m *MockCacheStore) RemoveOpenRide(ctx context.Context, rideID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.openRides, rideID)
	return nil
}

func (m *MockCacheStore) GetOpenRides(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, 0, len(m.openRides))
	for id := range m.openRides {
		result = append(result, id)
	}
	return result, nil
}

// IsRideOpen reports open-ride set membership (for test assertions).
func (m *MockCacheStore) IsRideOpen(ctx context.Context, rideID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.openRides[rideID]
	return ok, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION STREAM
// ──────────────────────────────────────────────

// MockNotificationStream is a mock implementation of NotificationStream.
type MockNotificationStream struct {
	mu      sync.RWMutex
	entries map[string][]*redis.StreamEntry

	// When true, Recent reports the window doesn't cover the cursor.
	ForceMiss bool

	// Error injection
	AppendError error
}

// NewMockNotificationStream creates a new mock notification stream.
func NewMockNotificationStream() *MockNotificationStream {
	return &MockNotificationStream{
		entries: make(map[string][]*redis.StreamEntry),
	}
}

func (m *MockNotificationStream) Append(ctx context.Context, userID string, entry *redis.StreamEntry) error {
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = append(m.entries[userID], entry)
	return nil
}

func (m *MockNotificationStream) Recent(ctx context.Context, userID string, afterSeq int64) ([]*redis.StreamEntry, bool, error) {
	if m.ForceMiss {
		return nil, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := m.entries[userID]
	if len(all) == 0 {
		return nil, false, nil
	}
	covers := false
	var result []*redis.StreamEntry
	for _, e := range all {
		if e.Seq <= afterSeq {
			covers = true
			continue
		}
		result = append(result, e)
	}
	// Same coverage rule as the real window: without an entry at or before
	// the cursor, the oldest retained entry must be contiguous with it.
	if !covers && len(result) > 0 && result[0].Seq > afterSeq+1 {
		return nil, false, nil
	}
	return result, true, nil
}

// Expire drops a user's window, the way the key TTL does in Redis.
func (m *MockNotificationStream) Expire(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}

// CountFor returns the number of streamed entries for a user.
func (m *MockNotificationStream) CountFor(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries[userID])
}

// ──────────────────────────────────────────────
// MOCK PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher captures frames that would go to live websocket clients.
type MockPublisher struct {
	mu     sync.Mutex
	frames map[string][]ws.Frame
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		frames: make(map[string][]ws.Frame),
	}
}

func (m *MockPublisher) Publish(userID string, frame ws.Frame) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[userID] = append(m.frames[userID], frame)
	return 1
}

// FramesFor returns the frames published to a user.
func (m *MockPublisher) FramesFor(userID string) []ws.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ws.Frame(nil), m.frames[userID]...)
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)

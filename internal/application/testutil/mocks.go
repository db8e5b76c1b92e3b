// Package testutil provides in-memory mock implementations for testing the
// application layer.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

// DiscardLogger returns a logger that drops everything, for use case tests.
func DiscardLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// FakeTransactionManager runs the function directly without a transaction.
type FakeTransactionManager struct {
	// Err, when set, is returned without running the function.
	Err error
}

// RunInTransaction executes fn with the given context.
func (m *FakeTransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockTenantRepository is a mock implementation of tenant.Repository.
type MockTenantRepository struct {
	mu      sync.RWMutex
	tenants map[uint]*tenant.Tenant
	nextID  uint

	// Error injection for testing
	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	ListError   error
}

// NewMockTenantRepository creates a new mock tenant repository.
func NewMockTenantRepository() *MockTenantRepository {
	return &MockTenantRepository{tenants: make(map[uint]*tenant.Tenant)}
}

// Create creates a new tenant in the mock repository.
func (m *MockTenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}

	if t.ID() == 0 {
		m.nextID++
		if err := t.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.tenants[t.ID()] = t
	return nil
}

// GetByID retrieves a tenant by ID.
func (m *MockTenantRepository) GetByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.tenants[id], nil
}

// GetByIDForUpdate retrieves a tenant by ID. The mock has no row locking.
func (m *MockTenantRepository) GetByIDForUpdate(ctx context.Context, id uint) (*tenant.Tenant, error) {
	return m.GetByID(ctx, id)
}

// GetByName retrieves a tenant by name.
func (m *MockTenantRepository) GetByName(ctx context.Context, name string) (*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, t := range m.tenants {
		if t.Name() == name {
			return t, nil
		}
	}
	return nil, nil
}

// Update updates an existing tenant.
func (m *MockTenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.tenants[t.ID()] = t
	return nil
}

// Delete removes a tenant.
func (m *MockTenantRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.tenants, id)
	return nil
}

// List returns tenants with naive pagination.
func (m *MockTenantRepository) List(ctx context.Context, filter tenant.ListFilter) ([]*tenant.Tenant, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}
	all := m.sortedLocked()
	return all, int64(len(all)), nil
}

// ListAll returns every tenant.
func (m *MockTenantRepository) ListAll(ctx context.Context) ([]*tenant.Tenant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sortedLocked(), nil
}

// ExistsByName checks if a tenant with the given name exists.
func (m *MockTenantRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	t, err := m.GetByName(ctx, name)
	return t != nil, err
}

func (m *MockTenantRepository) sortedLocked() []*tenant.Tenant {
	result := make([]*tenant.Tenant, 0, len(m.tenants))
	for id := uint(1); id <= m.nextID; id++ {
		if t, ok := m.tenants[id]; ok {
			result = append(result, t)
		}
	}
	return result
}

// MockUserRepository is a mock implementation of user.Repository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*user.User
	nextID uint

	CreateError error
	GetError    error
	UpdateError error
	DeleteError error
	ListError   error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*user.User)}
}

// Create creates a new user in the mock repository.
func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}

	if u.ID() == 0 {
		m.nextID++
		if err := u.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.users[u.ID()] = u
	return nil
}

// GetByID retrieves a user by ID.
func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.users[id], nil
}

// GetByEmail retrieves a user by email.
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

// Update updates an existing user.
func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.users[u.ID()] = u
	return nil
}

// Delete physically removes a user row.
func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.users, id)
	return nil
}

// List returns users with naive pagination.
func (m *MockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var result []*user.User
	for _, u := range m.sortedLocked() {
		if filter.TenantID != 0 && u.TenantID() != filter.TenantID {
			continue
		}
		result = append(result, u)
	}
	return result, int64(len(result)), nil
}

// ListByTenantID returns all users of a tenant.
func (m *MockUserRepository) ListByTenantID(ctx context.Context, tenantID uint) ([]*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	var result []*user.User
	for _, u := range m.sortedLocked() {
		if u.TenantID() == tenantID {
			result = append(result, u)
		}
	}
	return result, nil
}

// ListAll returns every user.
func (m *MockUserRepository) ListAll(ctx context.Context) ([]*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	return m.sortedLocked(), nil
}

// ExistsByEmail checks if a user with the given email exists.
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := m.GetByEmail(ctx, email)
	return u != nil, err
}

// CountByTenantID returns the number of users of a tenant.
func (m *MockUserRepository) CountByTenantID(ctx context.Context, tenantID uint) (int64, error) {
	users, err := m.ListByTenantID(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (m *MockUserRepository) sortedLocked() []*user.User {
	result := make([]*user.User, 0, len(m.users))
	for id := uint(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			result = append(result, u)
		}
	}
	return result
}

// MockPhoneNumberRepository is a mock implementation of did.PhoneNumberRepository.
type MockPhoneNumberRepository struct {
	mu      sync.RWMutex
	numbers map[uint]*did.PhoneNumber
	nextID  uint

	CreateError error
	GetError    error
	UpdateError error
	ListError   error
}

// NewMockPhoneNumberRepository creates a new mock phone number repository.
func NewMockPhoneNumberRepository() *MockPhoneNumberRepository {
	return &MockPhoneNumberRepository{numbers: make(map[uint]*did.PhoneNumber)}
}

// Create creates a new phone number in the mock repository.
func (m *MockPhoneNumberRepository) Create(ctx context.Context, n *did.PhoneNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(n)
}

// CreateBatch creates all the numbers or none of them.
func (m *MockPhoneNumberRepository) CreateBatch(ctx context.Context, numbers []*did.PhoneNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	for _, n := range numbers {
		if err := m.createLocked(n); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockPhoneNumberRepository) createLocked(n *did.PhoneNumber) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	if n.ID() == 0 {
		m.nextID++
		if err := n.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.numbers[n.ID()] = n
	return nil
}

// GetByID retrieves a phone number by ID.
func (m *MockPhoneNumberRepository) GetByID(ctx context.Context, id uint) (*did.PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.numbers[id], nil
}

// GetByNumber retrieves a phone number by its E.164 string.
func (m *MockPhoneNumberRepository) GetByNumber(ctx context.Context, number string) (*did.PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	for _, n := range m.numbers {
		if n.Number() == number {
			return n, nil
		}
	}
	return nil, nil
}

// Update updates an existing phone number.
func (m *MockPhoneNumberRepository) Update(ctx context.Context, n *did.PhoneNumber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.numbers[n.ID()] = n
	return nil
}

// List returns phone numbers with naive pagination.
func (m *MockPhoneNumberRepository) List(ctx context.Context, filter did.ListFilter) ([]*did.PhoneNumber, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var result []*did.PhoneNumber
	for _, n := range m.sortedLocked() {
		if filter.TenantID != 0 && n.TenantID() != filter.TenantID {
			continue
		}
		if filter.Status != "" && string(n.Status()) != filter.Status {
			continue
		}
		result = append(result, n)
	}
	return result, int64(len(result)), nil
}

// ListByStatus returns all phone numbers in the given status.
func (m *MockPhoneNumberRepository) ListByStatus(ctx context.Context, status did.Status) ([]*did.PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	var result []*did.PhoneNumber
	for _, n := range m.sortedLocked() {
		if n.Status() == status {
			result = append(result, n)
		}
	}
	return result, nil
}

// ListByTenantID returns all phone numbers of a tenant.
func (m *MockPhoneNumberRepository) ListByTenantID(ctx context.Context, tenantID uint) ([]*did.PhoneNumber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	var result []*did.PhoneNumber
	for _, n := range m.sortedLocked() {
		if n.TenantID() == tenantID {
			result = append(result, n)
		}
	}
	return result, nil
}

// ExistsByNumber checks if a phone number with the given string exists.
func (m *MockPhoneNumberRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	n, err := m.GetByNumber(ctx, number)
	return n != nil, err
}

func (m *MockPhoneNumberRepository) sortedLocked() []*did.PhoneNumber {
	result := make([]*did.PhoneNumber, 0, len(m.numbers))
	for id := uint(1); id <= m.nextID; id++ {
		if n, ok := m.numbers[id]; ok {
			result = append(result, n)
		}
	}
	return result
}

// MockAssignmentRepository is a mock implementation of did.AssignmentRepository.
type MockAssignmentRepository struct {
	mu          sync.RWMutex
	assignments map[uint]*did.Assignment // keyed by phone number ID
	nextID      uint

	CreateError error
	GetError    error
	DeleteError error
	ListError   error
}

// NewMockAssignmentRepository creates a new mock assignment repository.
func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{assignments: make(map[uint]*did.Assignment)}
}

// Create creates a new assignment, enforcing one assignment per number.
func (m *MockAssignmentRepository) Create(ctx context.Context, a *did.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.assignments[a.PhoneNumberID()]; exists {
		return did.ErrAlreadyAssigned
	}

	if a.ID() == 0 {
		m.nextID++
		if err := a.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.assignments[a.PhoneNumberID()] = a
	return nil
}

// GetByPhoneNumberID retrieves the assignment of a phone number.
func (m *MockAssignmentRepository) GetByPhoneNumberID(ctx context.Context, phoneNumberID uint) (*did.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.assignments[phoneNumberID], nil
}

// DeleteByPhoneNumberID removes the assignment of a phone number.
func (m *MockAssignmentRepository) DeleteByPhoneNumberID(ctx context.Context, phoneNumberID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.assignments, phoneNumberID)
	return nil
}

// ListAll returns every assignment.
func (m *MockAssignmentRepository) ListAll(ctx context.Context) ([]*did.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}

	result := make([]*did.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		result = append(result, a)
	}
	return result, nil
}

// MockJobRepository is a mock implementation of apply.JobRepository.
type MockJobRepository struct {
	mu     sync.RWMutex
	jobs   map[uint]*apply.Job
	nextID uint

	CreateError error
	GetError    error
	UpdateError error
	ListError   error
}

// NewMockJobRepository creates a new mock apply job repository.
func NewMockJobRepository() *MockJobRepository {
	return &MockJobRepository{jobs: make(map[uint]*apply.Job)}
}

// Create creates a new apply job in the mock repository.
func (m *MockJobRepository) Create(ctx context.Context, job *apply.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}

	if job.ID() == 0 {
		m.nextID++
		if err := job.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.jobs[job.ID()] = job
	return nil
}

// Update updates an existing apply job.
func (m *MockJobRepository) Update(ctx context.Context, job *apply.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.jobs[job.ID()] = job
	return nil
}

// GetByID retrieves an apply job by ID.
func (m *MockJobRepository) GetByID(ctx context.Context, id uint) (*apply.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.jobs[id], nil
}

// List returns apply jobs newest first.
func (m *MockJobRepository) List(ctx context.Context, filter apply.JobListFilter) ([]*apply.Job, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var result []*apply.Job
	for id := m.nextID; id >= 1; id-- {
		job, ok := m.jobs[id]
		if !ok {
			continue
		}
		if filter.TenantID != 0 && job.TenantID() != filter.TenantID {
			continue
		}
		if filter.Status != "" && string(job.Status()) != filter.Status {
			continue
		}
		result = append(result, job)
	}
	return result, int64(len(result)), nil
}

// MockAuditRepository is a mock implementation of audit.Repository. It keeps
// entries in append order.
type MockAuditRepository struct {
	mu      sync.RWMutex
	entries []*audit.Entry

	CreateError error
	ListError   error
}

// NewMockAuditRepository creates a new mock audit repository.
func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Create appends an audit entry.
func (m *MockAuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if entry.ID() == 0 {
		if err := entry.SetID(uint(len(m.entries) + 1)); err != nil {
			return err
		}
	}
	m.entries = append(m.entries, entry)
	return nil
}

// List returns audit entries newest first.
func (m *MockAuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	var result []*audit.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filter.Actor != "" && e.Actor() != filter.Actor {
			continue
		}
		if filter.EntityType != "" && e.EntityType() != filter.EntityType {
			continue
		}
		if filter.EntityID != 0 && e.EntityID() != filter.EntityID {
			continue
		}
		if filter.Action != "" && string(e.Action()) != filter.Action {
			continue
		}
		result = append(result, e)
	}
	return result, int64(len(result)), nil
}

// Entries returns all recorded entries in append order.
func (m *MockAuditRepository) Entries() []*audit.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*audit.Entry(nil), m.entries...)
}

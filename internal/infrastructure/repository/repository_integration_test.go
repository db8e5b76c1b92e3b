package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/domain/audit"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/infrastructure/persistence/models"
	"github.com/centrex-inc/centrex/internal/shared/errors"
	"github.com/centrex-inc/centrex/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.TenantModel{},
		&models.UserModel{},
		&models.PhoneNumberModel{},
		&models.DIDAssignmentModel{},
		&models.ApplyJobModel{},
		&models.AuditLogModel{},
	)
	require.NoError(t, err)

	return db
}

func createTestTenant(t *testing.T, repo tenant.Repository, name string) *tenant.Tenant {
	tn, err := tenant.NewTenant(name, 1000, 1099)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tn))
	return tn
}

func TestTenantRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewLogger())
	ctx := context.Background()

	tn := createTestTenant(t, repo, "acme")
	assert.NotZero(t, tn.ID())

	found, err := repo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "acme", found.Name())
	assert.Equal(t, 1000, found.ExtNext())

	missing, err := repo.GetByID(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTenantRepository_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewLogger())

	createTestTenant(t, repo, "acme")

	dup, err := tenant.NewTenant("acme", 2000, 2099)
	require.NoError(t, err)
	err = repo.Create(context.Background(), dup)
	assert.True(t, errors.IsConflictError(err), "expected conflict, got %v", err)
}

func TestTenantRepository_CursorPersistence(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTenantRepository(db, logger.NewLogger())
	ctx := context.Background()

	tn := createTestTenant(t, repo, "acme")

	ext, err := tn.AllocateExtension()
	require.NoError(t, err)
	assert.Equal(t, 1000, ext)
	require.NoError(t, repo.Update(ctx, tn))

	found, err := repo.GetByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, 1001, found.ExtNext())
}

func TestUserRepository_TenantExtensionUniqueness(t *testing.T) {
	db := setupTestDB(t)
	tenantRepo := NewTenantRepository(db, logger.NewLogger())
	repo := NewUserRepository(db, logger.NewLogger())
	ctx := context.Background()

	tn := createTestTenant(t, tenantRepo, "acme")

	u1, err := user.NewUser(tn.ID(), "Alice", "alice@example.com", 1000)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u1))

	// Same extension in the same tenant is rejected.
	u2, err := user.NewUser(tn.ID(), "Bob", "bob@example.com", 1000)
	require.NoError(t, err)
	err = repo.Create(ctx, u2)
	assert.True(t, errors.IsConflictError(err), "expected conflict, got %v", err)

	// Duplicate email is rejected too.
	u3, err := user.NewUser(tn.ID(), "Alice Two", "alice@example.com", 1001)
	require.NoError(t, err)
	err = repo.Create(ctx, u3)
	assert.True(t, errors.IsConflictError(err), "expected conflict, got %v", err)
}

func TestPhoneNumberRepository_BatchAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhoneNumberRepository(db, logger.NewLogger())
	ctx := context.Background()

	existing, err := did.NewPhoneNumber("+15550000001", "telco-one")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, existing))

	// Batch containing a collision creates nothing.
	fresh, err := did.NewPhoneNumber("+15550000002", "telco-one")
	require.NoError(t, err)
	colliding, err := did.NewPhoneNumber("+15550000001", "telco-one")
	require.NoError(t, err)

	err = repo.CreateBatch(ctx, []*did.PhoneNumber{fresh, colliding})
	assert.True(t, errors.IsConflictError(err), "expected conflict, got %v", err)

	found, err := repo.GetByNumber(ctx, "+15550000002")
	assert.NoError(t, err)
	assert.Nil(t, found, "batch with a collision must create no rows")
}

func TestPhoneNumberRepository_StatusRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPhoneNumberRepository(db, logger.NewLogger())
	ctx := context.Background()

	p, err := did.NewPhoneNumber("+15551234567", "telco-one")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, p.AllocateToTenant(3))
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, did.StatusAllocated, found.Status())
	assert.Equal(t, uint(3), found.TenantID())

	allocated, err := repo.ListByStatus(ctx, did.StatusAllocated)
	require.NoError(t, err)
	assert.Len(t, allocated, 1)
}

func TestDIDAssignmentRepository_UniqueMapsToAlreadyAssigned(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDIDAssignmentRepository(db, logger.NewLogger())
	ctx := context.Background()

	target, err := did.NewEntityTarget(did.TargetUser, 11)
	require.NoError(t, err)

	first, err := did.NewAssignment(5, target)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, first))

	second, err := did.NewAssignment(5, target)
	require.NoError(t, err)
	err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, did.ErrAlreadyAssigned)

	// Delete then re-create succeeds.
	require.NoError(t, repo.DeleteByPhoneNumberID(ctx, 5))
	third, err := did.NewAssignment(5, target)
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, third))

	assert.ErrorIs(t, repo.DeleteByPhoneNumberID(ctx, 999), did.ErrAssignmentNotFound)
}

func TestApplyJobRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApplyJobRepository(db, logger.NewLogger())
	ctx := context.Background()

	job, err := apply.NewJob("admin@example.com", 0)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, job))

	require.NoError(t, job.Start())
	job.RecordFiles([]string{"/etc/asterisk/extensions_custom.conf"}, "/var/backups/centrex/run1")
	require.NoError(t, job.Succeed("Applied 2 users across 1 tenant(s)"))
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.GetByID(ctx, job.ID())
	require.NoError(t, err)
	assert.Equal(t, apply.JobStatusSuccess, found.Status())
	assert.Equal(t, []string{"/etc/asterisk/extensions_custom.conf"}, found.ConfigFiles())
	assert.Equal(t, "/var/backups/centrex/run1", found.BackupPath())
	assert.NotNil(t, found.FinishedAt())

	jobs, total, err := repo.List(ctx, apply.JobListFilter{Page: 1, PageSize: 10, Status: "SUCCESS"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, jobs, 1)
}

func TestAuditLogRepository_AppendAndFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db, logger.NewLogger())
	ctx := context.Background()

	after, _ := json.Marshal(map[string]any{"name": "acme"})
	entry, err := audit.NewEntry("admin@example.com", audit.ActionCreate, "tenant", 1, nil, after)
	require.NoError(t, err)
	entry.SetProvenance("203.0.113.9", "curl/8.0")
	require.NoError(t, repo.Create(ctx, entry))

	other, err := audit.NewEntry("ops@example.com", audit.ActionApply, "apply_job", 2, nil, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	entries, total, err := repo.List(ctx, audit.ListFilter{Page: 1, PageSize: 10, EntityType: "tenant"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "admin@example.com", entries[0].Actor())
	assert.Equal(t, "203.0.113.9", entries[0].SourceIP())
	assert.JSONEq(t, `{"name":"acme"}`, string(entries[0].After()))
}

package usecases

import (
	"context"
	"fmt"
	"strings"
	"testing"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/application/testutil"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
)

type userFixture struct {
	userRepo       *testutil.MockUserRepository
	tenantRepo     *testutil.MockTenantRepository
	phoneRepo      *testutil.MockPhoneNumberRepository
	assignmentRepo *testutil.MockAssignmentRepository
	auditRepo      *testutil.MockAuditRepository
	create         *CreateUserUseCase
	update         *UpdateUserUseCase
	delete         *DeleteUserUseCase
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	f := &userFixture{
		userRepo:       testutil.NewMockUserRepository(),
		tenantRepo:     testutil.NewMockTenantRepository(),
		phoneRepo:      testutil.NewMockPhoneNumberRepository(),
		assignmentRepo: testutil.NewMockAssignmentRepository(),
		auditRepo:      testutil.NewMockAuditRepository(),
	}
	logger := testutil.DiscardLogger()
	recorder := appaudit.NewRecorder(f.auditRepo, logger)
	tx := &testutil.FakeTransactionManager{}
	f.create = NewCreateUserUseCase(f.userRepo, f.tenantRepo, tx, recorder, logger)
	f.update = NewUpdateUserUseCase(f.userRepo, recorder, logger)
	f.delete = NewDeleteUserUseCase(f.userRepo, f.phoneRepo, f.assignmentRepo, tx, recorder, logger)
	return f
}

func (f *userFixture) seedTenant(t *testing.T, extMin, extMax int) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant("acme", extMin, extMax)
	if err != nil {
		t.Fatalf("NewTenant() error = %v", err)
	}
	if err := f.tenantRepo.Create(context.Background(), tn); err != nil {
		t.Fatalf("tenantRepo.Create() error = %v", err)
	}
	return tn
}

func userMeta() appaudit.Meta {
	return appaudit.Meta{Actor: "admin@example.com"}
}

// TestCreateUser_AllocatesSequentialExtensions verifies the extension cursor
// hands out ascending extensions and never reuses one.
func TestCreateUser_AllocatesSequentialExtensions(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)

	for i, want := range []int{100, 101, 102} {
		result, err := f.create.Execute(context.Background(), CreateUserCommand{
			TenantID: tn.ID(),
			Name:     fmt.Sprintf("User %d", i),
			Email:    fmt.Sprintf("user%d@acme.example", i),
			Meta:     userMeta(),
		})
		if err != nil {
			t.Fatalf("Execute() unexpected error = %v", err)
		}
		if result.Extension != want {
			t.Errorf("extension = %d, want %d", result.Extension, want)
		}
	}
}

// TestCreateUser_ReturnsSecretOnce verifies the SIP secret is present in the
// creation result and absent from the audit snapshot.
func TestCreateUser_ReturnsSecretOnce(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)

	result, err := f.create.Execute(context.Background(), CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Alice",
		Email:    "alice@acme.example",
		Meta:     userMeta(),
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if len(result.SIPSecret) != 32 {
		t.Errorf("SIPSecret length = %d, want 32 hex chars", len(result.SIPSecret))
	}

	entries := f.auditRepo.Entries()
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if strings.Contains(string(entries[0].After()), result.SIPSecret) {
		t.Error("SIP secret must not appear in the audit snapshot")
	}
}

// TestCreateUser_PoolExhausted verifies the typed pool exhaustion error
// surfaces once the cursor passes the pool ceiling.
func TestCreateUser_PoolExhausted(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 101)

	for i := 0; i < 2; i++ {
		_, err := f.create.Execute(context.Background(), CreateUserCommand{
			TenantID: tn.ID(),
			Name:     fmt.Sprintf("User %d", i),
			Email:    fmt.Sprintf("user%d@acme.example", i),
			Meta:     userMeta(),
		})
		if err != nil {
			t.Fatalf("Execute() unexpected error = %v", err)
		}
	}

	_, err := f.create.Execute(context.Background(), CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Overflow",
		Email:    "overflow@acme.example",
		Meta:     userMeta(),
	})
	if !tenant.IsPoolExhausted(err) {
		t.Errorf("Execute() error = %v, want pool exhausted", err)
	}
}

// TestCreateUser_SuspendedTenantRejected verifies suspended tenants take no
// new users.
func TestCreateUser_SuspendedTenantRejected(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)
	tn.Suspend()

	_, err := f.create.Execute(context.Background(), CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Alice",
		Email:    "alice@acme.example",
		Meta:     userMeta(),
	})
	if !errors.IsConflictError(err) {
		t.Errorf("Execute() error = %v, want conflict", err)
	}
}

// TestCreateUser_DuplicateEmail verifies email uniqueness across tenants.
func TestCreateUser_DuplicateEmail(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)

	cmd := CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Alice",
		Email:    "alice@acme.example",
		Meta:     userMeta(),
	}
	if _, err := f.create.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("first Execute() unexpected error = %v", err)
	}
	_, err := f.create.Execute(context.Background(), cmd)
	if !errors.IsConflictError(err) {
		t.Errorf("Execute() error = %v, want conflict", err)
	}
}

// TestUpdateUser_ClearCallForward verifies an explicit empty destination
// clears forwarding rather than leaving it unchanged.
func TestUpdateUser_ClearCallForward(t *testing.T) {
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)

	created, err := f.create.Execute(context.Background(), CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Alice",
		Email:    "alice@acme.example",
		Meta:     userMeta(),
	})
	if err != nil {
		t.Fatalf("create Execute() unexpected error = %v", err)
	}

	dest := "+15557654321"
	if _, err := f.update.Execute(context.Background(), UpdateUserCommand{
		ID:                     created.ID,
		CallForwardDestination: &dest,
		Meta:                   userMeta(),
	}); err != nil {
		t.Fatalf("update Execute() unexpected error = %v", err)
	}

	empty := ""
	result, err := f.update.Execute(context.Background(), UpdateUserCommand{
		ID:                     created.ID,
		CallForwardDestination: &empty,
		Meta:                   userMeta(),
	})
	if err != nil {
		t.Fatalf("update Execute() unexpected error = %v", err)
	}
	if result.CallForwardDestination != "" {
		t.Errorf("CallForwardDestination = %q, want cleared", result.CallForwardDestination)
	}
}

// TestDeleteUser_ReleasesAssignments verifies deleting a user detaches the
// DIDs routed to them; the numbers stay allocated to the tenant.
func TestDeleteUser_ReleasesAssignments(t *testing.T) {
	ctx := context.Background()
	f := newUserFixture(t)
	tn := f.seedTenant(t, 100, 199)

	created, err := f.create.Execute(ctx, CreateUserCommand{
		TenantID: tn.ID(),
		Name:     "Alice",
		Email:    "alice@acme.example",
		Meta:     userMeta(),
	})
	if err != nil {
		t.Fatalf("create Execute() unexpected error = %v", err)
	}

	number, _ := did.NewPhoneNumber("+15551230001", "telco")
	if err := f.phoneRepo.Create(ctx, number); err != nil {
		t.Fatalf("phoneRepo.Create() error = %v", err)
	}
	if err := number.AllocateToTenant(tn.ID()); err != nil {
		t.Fatalf("AllocateToTenant() error = %v", err)
	}
	if err := number.Assign(); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	target, _ := did.NewEntityTarget(did.TargetUser, created.ID)
	assignment, _ := did.NewAssignment(number.ID(), target)
	if err := f.assignmentRepo.Create(ctx, assignment); err != nil {
		t.Fatalf("assignmentRepo.Create() error = %v", err)
	}

	if err := f.delete.Execute(ctx, DeleteUserCommand{ID: created.ID, Meta: userMeta()}); err != nil {
		t.Fatalf("delete Execute() unexpected error = %v", err)
	}

	deleted, _ := f.userRepo.GetByID(ctx, created.ID)
	if deleted.Status() != user.StatusDeleted {
		t.Errorf("user status = %v, want DELETED", deleted.Status())
	}
	if got, _ := f.assignmentRepo.GetByPhoneNumberID(ctx, number.ID()); got != nil {
		t.Error("assignment should be removed")
	}
	released, _ := f.phoneRepo.GetByID(ctx, number.ID())
	if released.Status() != did.StatusAllocated {
		t.Errorf("number status = %v, want ALLOCATED", released.Status())
	}
	if released.TenantID() != tn.ID() {
		t.Errorf("number tenant = %v, want %v", released.TenantID(), tn.ID())
	}
}

package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
	"github.com/centrex-inc/centrex/internal/application/testutil"
	"github.com/centrex-inc/centrex/internal/domain/did"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
	"github.com/centrex-inc/centrex/internal/shared/errors"
)

type didFixture struct {
	phoneRepo      *testutil.MockPhoneNumberRepository
	assignmentRepo *testutil.MockAssignmentRepository
	tenantRepo     *testutil.MockTenantRepository
	userRepo       *testutil.MockUserRepository
	auditRepo      *testutil.MockAuditRepository

	importUC     *ImportNumbersUseCase
	allocateUC   *AllocateNumberUseCase
	assignUC     *AssignNumberUseCase
	unassignUC   *UnassignNumberUseCase
	deallocateUC *DeallocateNumberUseCase
}

func newDIDFixture(t *testing.T) *didFixture {
	t.Helper()
	f := &didFixture{
		phoneRepo:      testutil.NewMockPhoneNumberRepository(),
		assignmentRepo: testutil.NewMockAssignmentRepository(),
		tenantRepo:     testutil.NewMockTenantRepository(),
		userRepo:       testutil.NewMockUserRepository(),
		auditRepo:      testutil.NewMockAuditRepository(),
	}
	logger := testutil.DiscardLogger()
	recorder := appaudit.NewRecorder(f.auditRepo, logger)
	tx := &testutil.FakeTransactionManager{}
	f.importUC = NewImportNumbersUseCase(f.phoneRepo, recorder, logger)
	f.allocateUC = NewAllocateNumberUseCase(f.phoneRepo, f.tenantRepo, recorder, logger)
	f.assignUC = NewAssignNumberUseCase(f.phoneRepo, f.assignmentRepo, f.userRepo, tx, recorder, logger)
	f.unassignUC = NewUnassignNumberUseCase(f.phoneRepo, f.assignmentRepo, tx, recorder, logger)
	f.deallocateUC = NewDeallocateNumberUseCase(f.phoneRepo, recorder, logger)
	return f
}

func didMeta() appaudit.Meta {
	return appaudit.Meta{Actor: "admin@example.com"}
}

// seedAllocated puts a number into a tenant's reserve and returns both.
func (f *didFixture) seedAllocated(t *testing.T) (*tenant.Tenant, *did.PhoneNumber) {
	t.Helper()
	ctx := context.Background()

	tn, _ := tenant.NewTenant("acme", 100, 199)
	if err := f.tenantRepo.Create(ctx, tn); err != nil {
		t.Fatalf("tenantRepo.Create() error = %v", err)
	}
	number, err := did.NewPhoneNumber("+15551230001", "telco")
	if err != nil {
		t.Fatalf("NewPhoneNumber() error = %v", err)
	}
	if err := f.phoneRepo.Create(ctx, number); err != nil {
		t.Fatalf("phoneRepo.Create() error = %v", err)
	}
	if err := number.AllocateToTenant(tn.ID()); err != nil {
		t.Fatalf("AllocateToTenant() error = %v", err)
	}
	return tn, number
}

// TestImportNumbers_Success verifies a clean batch lands in the unassigned
// stock with one audit entry per number.
func TestImportNumbers_Success(t *testing.T) {
	f := newDIDFixture(t)

	result, err := f.importUC.Execute(context.Background(), ImportNumbersCommand{
		Numbers:  []string{"+15551230001", "+15551230002"},
		Provider: "telco",
		Meta:     didMeta(),
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("result.Imported = %d, want 2", result.Imported)
	}
	for _, n := range result.Numbers {
		if n.Status != string(did.StatusUnassigned) {
			t.Errorf("number %s status = %v, want UNASSIGNED", n.Number, n.Status)
		}
	}
	if entries := f.auditRepo.Entries(); len(entries) != 2 {
		t.Errorf("audit entries = %d, want 2", len(entries))
	}
}

// TestImportNumbers_AllOrNothing verifies one bad number rejects the whole
// batch, reporting every failure, and persists nothing.
func TestImportNumbers_AllOrNothing(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()

	existing, _ := did.NewPhoneNumber("+15551239999", "telco")
	if err := f.phoneRepo.Create(ctx, existing); err != nil {
		t.Fatalf("phoneRepo.Create() error = %v", err)
	}

	_, err := f.importUC.Execute(ctx, ImportNumbersCommand{
		Numbers:  []string{"+15551230001", "not-a-number", "+15551239999", "+15551230001"},
		Provider: "telco",
		Meta:     didMeta(),
	})
	var batchErr *did.BatchImportError
	if !stderrors.As(err, &batchErr) {
		t.Fatalf("Execute() error = %v, want *did.BatchImportError", err)
	}
	// Malformed, duplicate-in-batch, and already-present failures are all
	// reported together.
	if len(batchErr.Errors) != 3 {
		t.Errorf("batch errors = %d, want 3: %+v", len(batchErr.Errors), batchErr.Errors)
	}

	if valid, _ := f.phoneRepo.GetByNumber(ctx, "+15551230001"); valid != nil {
		t.Error("no number from a rejected batch may be persisted")
	}
}

// TestAllocateNumber_Success verifies UNASSIGNED -> ALLOCATED.
func TestAllocateNumber_Success(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()

	tn, _ := tenant.NewTenant("acme", 100, 199)
	if err := f.tenantRepo.Create(ctx, tn); err != nil {
		t.Fatalf("tenantRepo.Create() error = %v", err)
	}
	number, _ := did.NewPhoneNumber("+15551230001", "telco")
	if err := f.phoneRepo.Create(ctx, number); err != nil {
		t.Fatalf("phoneRepo.Create() error = %v", err)
	}

	result, err := f.allocateUC.Execute(ctx, AllocateNumberCommand{
		PhoneNumberID: number.ID(),
		TenantID:      tn.ID(),
		Meta:          didMeta(),
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Status != string(did.StatusAllocated) {
		t.Errorf("result.Status = %v, want ALLOCATED", result.Status)
	}
	if result.TenantID != tn.ID() {
		t.Errorf("result.TenantID = %v, want %v", result.TenantID, tn.ID())
	}
}

// TestAllocateNumber_WrongState verifies allocating an already allocated
// number surfaces the typed state error.
func TestAllocateNumber_WrongState(t *testing.T) {
	f := newDIDFixture(t)
	tn, number := f.seedAllocated(t)

	_, err := f.allocateUC.Execute(context.Background(), AllocateNumberCommand{
		PhoneNumberID: number.ID(),
		TenantID:      tn.ID(),
		Meta:          didMeta(),
	})
	if !did.IsInvalidStateTransition(err) {
		t.Errorf("Execute() error = %v, want invalid state transition", err)
	}
}

// TestAssignNumber_ToUser verifies ALLOCATED -> ASSIGNED with a same-tenant
// user target.
func TestAssignNumber_ToUser(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()
	tn, number := f.seedAllocated(t)

	u, _ := user.NewUser(tn.ID(), "Alice", "alice@acme.example", 100)
	if err := f.userRepo.Create(ctx, u); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}

	result, err := f.assignUC.Execute(ctx, AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetUser),
		TargetID:      u.ID(),
		Meta:          didMeta(),
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Status != string(did.StatusAssigned) {
		t.Errorf("result.Status = %v, want ASSIGNED", result.Status)
	}
	if result.Assignment == nil || result.Assignment.TargetID != u.ID() {
		t.Errorf("result.Assignment = %+v, want user target %d", result.Assignment, u.ID())
	}
}

// TestAssignNumber_CrossTenantRejected verifies a USER target in another
// tenant is rejected.
func TestAssignNumber_CrossTenantRejected(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()
	_, number := f.seedAllocated(t)

	other, _ := tenant.NewTenant("globex", 200, 299)
	if err := f.tenantRepo.Create(ctx, other); err != nil {
		t.Fatalf("tenantRepo.Create() error = %v", err)
	}
	u, _ := user.NewUser(other.ID(), "Bob", "bob@globex.example", 200)
	if err := f.userRepo.Create(ctx, u); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}

	_, err := f.assignUC.Execute(ctx, AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetUser),
		TargetID:      u.ID(),
		Meta:          didMeta(),
	})
	if !stderrors.Is(err, did.ErrCrossTenantAssignment) {
		t.Errorf("Execute() error = %v, want ErrCrossTenantAssignment", err)
	}
}

// TestAssignNumber_AlreadyAssigned verifies the second assign of a number
// fails with the dedicated error.
func TestAssignNumber_AlreadyAssigned(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()
	tn, number := f.seedAllocated(t)

	u, _ := user.NewUser(tn.ID(), "Alice", "alice@acme.example", 100)
	if err := f.userRepo.Create(ctx, u); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}

	cmd := AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetUser),
		TargetID:      u.ID(),
		Meta:          didMeta(),
	}
	if _, err := f.assignUC.Execute(ctx, cmd); err != nil {
		t.Fatalf("first Execute() unexpected error = %v", err)
	}
	if _, err := f.assignUC.Execute(ctx, cmd); err == nil {
		t.Error("second Execute() expected error for an already assigned number")
	}
}

// TestAssignNumber_External verifies EXTERNAL targets carry a context
// string and need no entity.
func TestAssignNumber_External(t *testing.T) {
	f := newDIDFixture(t)
	_, number := f.seedAllocated(t)

	result, err := f.assignUC.Execute(context.Background(), AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetExternal),
		TargetContext: "from-pstn-overflow",
		Meta:          didMeta(),
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}
	if result.Assignment.TargetContext != "from-pstn-overflow" {
		t.Errorf("TargetContext = %v, want from-pstn-overflow", result.Assignment.TargetContext)
	}
}

// TestUnassignThenDeallocate verifies the reverse walk of the lifecycle.
func TestUnassignThenDeallocate(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()
	tn, number := f.seedAllocated(t)

	u, _ := user.NewUser(tn.ID(), "Alice", "alice@acme.example", 100)
	if err := f.userRepo.Create(ctx, u); err != nil {
		t.Fatalf("userRepo.Create() error = %v", err)
	}
	if _, err := f.assignUC.Execute(ctx, AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetUser),
		TargetID:      u.ID(),
		Meta:          didMeta(),
	}); err != nil {
		t.Fatalf("assign Execute() unexpected error = %v", err)
	}

	result, err := f.unassignUC.Execute(ctx, UnassignNumberCommand{PhoneNumberID: number.ID(), Meta: didMeta()})
	if err != nil {
		t.Fatalf("unassign Execute() unexpected error = %v", err)
	}
	if result.Status != string(did.StatusAllocated) {
		t.Errorf("after unassign status = %v, want ALLOCATED", result.Status)
	}
	if got, _ := f.assignmentRepo.GetByPhoneNumberID(ctx, number.ID()); got != nil {
		t.Error("assignment row should be gone after unassign")
	}

	result, err = f.deallocateUC.Execute(ctx, DeallocateNumberCommand{PhoneNumberID: number.ID(), Meta: didMeta()})
	if err != nil {
		t.Fatalf("deallocate Execute() unexpected error = %v", err)
	}
	if result.Status != string(did.StatusUnassigned) {
		t.Errorf("after deallocate status = %v, want UNASSIGNED", result.Status)
	}
}

// TestDeallocateNumber_AssignedRejected verifies an assigned number cannot
// skip straight back to the stock.
func TestDeallocateNumber_AssignedRejected(t *testing.T) {
	f := newDIDFixture(t)
	ctx := context.Background()
	_, number := f.seedAllocated(t)

	if _, err := f.assignUC.Execute(ctx, AssignNumberCommand{
		PhoneNumberID: number.ID(),
		TargetType:    string(did.TargetExternal),
		TargetContext: "from-pstn-overflow",
		Meta:          didMeta(),
	}); err != nil {
		t.Fatalf("assign Execute() unexpected error = %v", err)
	}

	_, err := f.deallocateUC.Execute(ctx, DeallocateNumberCommand{PhoneNumberID: number.ID(), Meta: didMeta()})
	if !did.IsInvalidStateTransition(err) {
		t.Errorf("Execute() error = %v, want invalid state transition", err)
	}
}

// TestGetNumber_NotFound verifies the not-found path.
func TestGetNumber_NotFound(t *testing.T) {
	f := newDIDFixture(t)
	logger := testutil.DiscardLogger()
	getUC := NewGetNumberUseCase(f.phoneRepo, f.assignmentRepo, logger)

	_, err := getUC.Execute(context.Background(), 42)
	if !errors.IsNotFoundError(err) {
		t.Errorf("Execute() error = %v, want not found", err)
	}
}

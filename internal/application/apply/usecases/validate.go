package usecases

import (
	"context"
	"fmt"

	"github.com/centrex-inc/centrex/internal/domain/apply"
	"github.com/centrex-inc/centrex/internal/domain/tenant"
	"github.com/centrex-inc/centrex/internal/domain/user"
)

// buildValidationReport cross-checks the whole dataset before generation:
// duplicate emails, duplicate extensions within a tenant, users without
// extensions, users pointing at missing tenants. Out-of-range extensions
// are warnings; they route fine but indicate a shrunk pool.
func buildValidationReport(tenants []*tenant.Tenant, users []*user.User) *apply.ValidationReport {
	report := &apply.ValidationReport{}

	tenantsByID := make(map[uint]*tenant.Tenant, len(tenants))
	for _, t := range tenants {
		tenantsByID[t.ID()] = t
		if t.ExtMin() > t.ExtMax() {
			report.AddError(fmt.Sprintf("tenant %q has malformed extension range %d-%d",
				t.Name(), t.ExtMin(), t.ExtMax()))
		}
	}

	emails := make(map[string]string)
	extensions := make(map[uint]map[int]string)

	for _, u := range users {
		if u.Status() == user.StatusDeleted {
			continue
		}

		if other, dup := emails[u.Email()]; dup {
			report.AddError(fmt.Sprintf("duplicate email %s (users %q and %q)", u.Email(), other, u.Name()))
		} else {
			emails[u.Email()] = u.Name()
		}

		if u.Extension() <= 0 {
			report.AddError(fmt.Sprintf("user %q has no extension", u.Name()))
			continue
		}

		if extensions[u.TenantID()] == nil {
			extensions[u.TenantID()] = make(map[int]string)
		}
		if other, dup := extensions[u.TenantID()][u.Extension()]; dup {
			report.AddError(fmt.Sprintf("duplicate extension %d in tenant %d (users %q and %q)",
				u.Extension(), u.TenantID(), other, u.Name()))
		} else {
			extensions[u.TenantID()][u.Extension()] = u.Name()
		}

		tn, ok := tenantsByID[u.TenantID()]
		if !ok {
			report.AddError(fmt.Sprintf("user %q references missing tenant %d", u.Name(), u.TenantID()))
			continue
		}
		if u.Extension() < tn.ExtMin() || u.Extension() > tn.ExtMax() {
			report.AddWarning(fmt.Sprintf("user %q extension %d is outside tenant %q range %d-%d",
				u.Name(), u.Extension(), tn.Name(), tn.ExtMin(), tn.ExtMax()))
		}
	}

	return report
}

// ValidateConfigurationUseCase runs the pre-apply validation as a dry run,
// without taking the lock or touching any files.
type ValidateConfigurationUseCase struct {
	tenantRepo tenant.Repository
	userRepo   user.Repository
}

// NewValidateConfigurationUseCase creates a new ValidateConfigurationUseCase.
func NewValidateConfigurationUseCase(tenantRepo tenant.Repository, userRepo user.Repository) *ValidateConfigurationUseCase {
	return &ValidateConfigurationUseCase{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

// Execute returns the validation report for the current dataset.
func (uc *ValidateConfigurationUseCase) Execute(ctx context.Context) (*apply.ValidationReport, error) {
	tenants, err := uc.tenantRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	users, err := uc.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return buildValidationReport(tenants, users), nil
}

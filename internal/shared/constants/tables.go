package constants

// Database table names
const (
	TableTenants        = "tenants"
	TableUsers          = "users"
	TablePhoneNumbers   = "phone_numbers"
	TableDIDAssignments = "did_assignments"
	TableApplyJobs      = "apply_jobs"
	TableAuditLogs      = "audit_logs"
)

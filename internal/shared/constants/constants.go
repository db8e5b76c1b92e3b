package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Pagination constants
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

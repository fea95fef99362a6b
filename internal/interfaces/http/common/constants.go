package common

const (
	// MaxRequestBody limits JSON request bodies. Templates are the largest payload.
	MaxRequestBody = 1 << 20
	// DefaultPageLimit applies when a list request carries no limit.
	DefaultPageLimit = 20
)

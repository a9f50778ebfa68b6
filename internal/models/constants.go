package models

const (
	StatusCreated   = "Created"
	StatusCancelled = "Cancelled"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

const (
	ActionCreate = "CREATE"
	ActionCancel = "CANCEL"

	EntityBooking = "Booking"
)

const (
	// DefaultTokenTTL lifetime of an issued access token
	DefaultTokenTTL = 8 * 60 * 60 // 8 hours in seconds

	// MinJWTSecretLength HS256 needs at least 256 bits of key material
	MinJWTSecretLength = 32

	// ResourcesCacheTTL lifetime of the cached active resource listing
	ResourcesCacheTTL = 5 * 60 // 5 minutes in seconds
)

package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyUserContext = "USER_CONTEXT"
	KeyUsername    = "username"

	// SessionKeyTenantID holds the Kill Bill id of the selected tenant.
	SessionKeyTenantID = "kb_tenant_id"
)

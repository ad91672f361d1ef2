package middleware

import "context"

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxOrgID  contextKey = "organization_id"
	ctxRole   contextKey = "actor_role"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(key).(string)
	return value
}

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func OrgIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxOrgID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

// WithUserID seeds the acting user's id; tests use it to simulate Auth.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withString(ctx, ctxUserID, userID)
}

// WithOrgID seeds the tenant scope for downstream handlers.
func WithOrgID(ctx context.Context, orgID string) context.Context {
	return withString(ctx, ctxOrgID, orgID)
}

// WithRole seeds the actor role checked by RequireRole.
func WithRole(ctx context.Context, role string) context.Context {
	return withString(ctx, ctxRole, role)
}

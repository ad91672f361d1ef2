package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adrianbarna/edusphere-backend-sub000/pkg/enums"
)

// AccessTokenPayload is the input for minting a token. JTI may be left empty;
// minting then generates one, and the session store is keyed on it.
type AccessTokenPayload struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.MemberRole
	JTI            string
}

// AccessTokenClaims is the typed claim set carried by issued tokens. The
// organization id rides in the token so every request is tenant-scoped
// without a lookup.
type AccessTokenClaims struct {
	UserID         uuid.UUID        `json:"user_id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	Role           enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}

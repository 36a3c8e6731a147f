package models

// Identity is the authenticated caller, as resolved from a verified bearer
// token. Subject is the provider's stable user id and keys all per-user data.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email,omitempty"`
}

// JWTClaims represents the claims extracted from a JWT token.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`
}

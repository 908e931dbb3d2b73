package port

import (
	"context"

	"pratoJaEdge/internal/shared/apiresult"
)

// Credentials is the login payload forwarded to the upstream.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	CPF      string `json:"cpf,omitempty"`
}

// LoginOutcome carries the upstream login response together with the
// credential (Cookie header value) the upstream issued for the session.
type LoginOutcome struct {
	Upstream   *apiresult.Upstream
	Credential string
}

// AuthAPI is the upstream authentication surface. Every call is one HTTP
// round trip; failures come back as *apiresult.UpstreamError so callers can
// normalize them without type-sniffing transport internals.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (*LoginOutcome, error)
	Logout(ctx context.Context, credential string) (*apiresult.Upstream, error)
	Profile(ctx context.Context, credential string) (*apiresult.Upstream, error)
	ValidateToken(ctx context.Context, credential string) (bool, error)
	Register(ctx context.Context, reg Registration) (*apiresult.Upstream, error)
	ForgotPassword(ctx context.Context, email string) (*apiresult.Upstream, error)
	ValidateResetToken(ctx context.Context, token string) (*apiresult.Upstream, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*apiresult.Upstream, error)
}

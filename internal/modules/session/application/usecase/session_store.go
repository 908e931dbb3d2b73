package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pratoJaEdge/internal/modules/session/domain"
	"pratoJaEdge/internal/modules/session/port"
	"pratoJaEdge/internal/shared/apiresult"
	"pratoJaEdge/internal/shared/auth"
	"pratoJaEdge/internal/shared/httputil"
	"pratoJaEdge/internal/shared/payload"
)

// Store owns every live session. It is the only writer of session state:
// the route guard, the HTTP layer, and the event handlers all go through it
// instead of sharing a mutable singleton.
type Store struct {
	api      port.AuthAPI
	validate *validator.Validate

	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

func NewStore(api port.AuthAPI) *Store {
	return &Store{
		api:      api,
		validate: validator.New(),
		sessions: make(map[string]*domain.Session),
	}
}

// Begin registers a fresh anonymous session and returns it.
func (s *Store) Begin() *domain.Session {
	sess := &domain.Session{ID: uuid.NewString()}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Lookup returns the session for the given ID, nil when unknown.
func (s *Store) Lookup(id string) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[strings.TrimSpace(id)]
}

// Invalidate clears and forgets a session. Used by logout and by the global
// 401/403 interceptor rule.
func (s *Store) Invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.Clear()
		delete(s.sessions, id)
	}
}

// Resolve maps an incoming request to its live session by validating the
// signed cookie and looking the ID up in the registry. Nil means anonymous.
func (s *Store) Resolve(r *http.Request, codec *auth.CookieCodec) *domain.Session {
	claims, err := codec.Validate(auth.ExtractSessionToken(r))
	if err != nil {
		return nil
	}
	return s.Lookup(claims.SessionID)
}

// FindByUserID returns the sessions currently held by a user. Demand
// lifecycle events use it to target notifications.
func (s *Store) FindByUserID(userID string) []*domain.Session {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*domain.Session
	for _, sess := range s.sessions {
		if sess.Authenticated() && sess.UserID() == trimmed {
			matches = append(matches, sess)
		}
	}
	return matches
}

// Login submits credentials upstream and stores the issued credential on the
// session. It does not assume identity: callers fetch the profile separately.
func (s *Store) Login(ctx context.Context, sess *domain.Session, creds port.Credentials) apiresult.Result {
	if err := s.validate.Struct(creds); err != nil {
		return apiresult.Result{Success: false, Message: "Informe e-mail e senha válidos.", Status: http.StatusBadRequest}
	}

	outcome, err := s.api.Login(ctx, creds)
	if err != nil {
		return apiresult.NormalizeError(err, "Não foi possível entrar.")
	}

	sess.SetCredential(outcome.Credential)
	slog.Info("session login accepted", slog.String("sessionId", sess.ID))
	return apiresult.Normalize(outcome.Upstream, "Login realizado com sucesso.")
}

// Logout notifies the upstream and clears the session on success.
func (s *Store) Logout(ctx context.Context, sess *domain.Session) apiresult.Result {
	up, err := s.api.Logout(ctx, sess.Credential())
	if err != nil {
		if httputil.SessionEnding(err) {
			s.Invalidate(sess.ID)
		}
		return apiresult.NormalizeError(err, "Erro ao encerrar a sessão.")
	}

	s.Invalidate(sess.ID)
	slog.Info("session logout", slog.String("sessionId", sess.ID))
	return apiresult.Normalize(up, "Sessão encerrada.")
}

// FetchUser retrieves the current identity using the ambient credential and
// commits it to the session.
func (s *Store) FetchUser(ctx context.Context, sess *domain.Session) apiresult.Result {
	up, err := s.api.Profile(ctx, sess.Credential())
	if err != nil {
		if httputil.SessionEnding(err) {
			sess.Clear()
		}
		return apiresult.NormalizeError(err, "Erro ao carregar o perfil.")
	}

	sess.Apply(userFromBody(up))
	return apiresult.Normalize(up, "Perfil carregado.")
}

// CheckTokenValidity revalidates the session against the upstream. An
// explicit rejection (401/403 or valid=false) clears the session; a transport
// or server fault is surfaced so navigation can land on the matching error
// view without tearing the session down.
func (s *Store) CheckTokenValidity(ctx context.Context, sess *domain.Session) (bool, error) {
	if sess == nil || strings.TrimSpace(sess.Credential()) == "" {
		return false, nil
	}

	valid, err := s.api.ValidateToken(ctx, sess.Credential())
	if err != nil {
		if httputil.SessionEnding(err) {
			sess.Clear()
			return false, nil
		}
		return false, err
	}
	if !valid {
		sess.Clear()
	}
	return valid, nil
}

// Register forwards a sign-up request.
func (s *Store) Register(ctx context.Context, reg port.Registration) apiresult.Result {
	if err := s.validate.Struct(reg); err != nil {
		return apiresult.Result{Success: false, Message: "Dados de cadastro inválidos.", Status: http.StatusBadRequest}
	}
	up, err := s.api.Register(ctx, reg)
	if err != nil {
		return apiresult.NormalizeError(err, "Erro ao criar a conta.")
	}
	return apiresult.Normalize(up, "Conta criada com sucesso.")
}

// ResetPassword starts the password-recovery flow for an e-mail address.
func (s *Store) ResetPassword(ctx context.Context, email string) apiresult.Result {
	if err := s.validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return apiresult.Result{Success: false, Message: "Informe um e-mail válido.", Status: http.StatusBadRequest}
	}
	up, err := s.api.ForgotPassword(ctx, email)
	if err != nil {
		return apiresult.NormalizeError(err, "Erro ao solicitar a recuperação de senha.")
	}
	return apiresult.Normalize(up, "E-mail de recuperação enviado.")
}

// ValidateResetToken checks a recovery token with the upstream.
func (s *Store) ValidateResetToken(ctx context.Context, token string) apiresult.Result {
	up, err := s.api.ValidateResetToken(ctx, token)
	if err != nil {
		return apiresult.NormalizeError(err, "Token de recuperação inválido.")
	}
	return apiresult.Normalize(up, "Token válido.")
}

// SubmitNewPassword concludes the recovery flow.
func (s *Store) SubmitNewPassword(ctx context.Context, token, newPassword string) apiresult.Result {
	if strings.TrimSpace(newPassword) == "" {
		return apiresult.Result{Success: false, Message: "Informe a nova senha.", Status: http.StatusBadRequest}
	}
	up, err := s.api.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return apiresult.NormalizeError(err, "Erro ao redefinir a senha.")
	}
	return apiresult.Normalize(up, "Senha redefinida com sucesso.")
}

func userFromBody(up *apiresult.Upstream) *domain.User {
	if up == nil || up.Body == nil {
		return nil
	}
	record := payload.MapFromEnvelope(up.Body["user"])
	if record == nil {
		record = up.DataMap()
	}
	if record == nil {
		return nil
	}
	user := &domain.User{
		ID:    payload.AsString(record["id"]),
		Name:  payload.AsString(record["name"]),
		Email: payload.AsString(record["email"]),
		CPF:   payload.AsString(record["cpf"]),
		Role:  domain.NormalizeRole(record["role"]),
	}
	if user.ID == "" {
		// Some upstream revisions return numeric identifiers.
		if id := payload.AsInt(record["id"]); id != 0 {
			user.ID = strconv.Itoa(id)
		}
	}
	if user.ID == "" && user.Email == "" {
		return nil
	}
	return user
}

package domain

import (
	"strings"
	"sync"
)

// Role is the authorization profile the upstream assigns to a user.
type Role string

const (
	RoleUnknown  Role = ""
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CLIENTE"
)

// NormalizeRole returns the canonical Role for the given input. Unknown roles
// are uppercased and kept as-is to avoid data loss.
func NormalizeRole(value any) Role {
	s, ok := value.(string)
	if !ok {
		return RoleUnknown
	}
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	switch Role(trimmed) {
	case RoleAdmin:
		return RoleAdmin
	case RoleCustomer:
		return RoleCustomer
	}
	return Role(trimmed)
}

// HomePath is the role-specific landing route used when an authenticated user
// navigates to the login page.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/home"
	}
	return "/"
}

// User is the identity record as the upstream returns it. Identifiers are
// opaque and server-assigned.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	CPF   string `json:"cpf,omitempty"`
	Role  Role   `json:"role"`
}

// Session is the edge-held session state. It moves between two states:
// anonymous (zero identity) and authenticated. Transitions happen only on
// explicit action results — a successful fetch/validate populates it, logout
// or an upstream 401/403 clears it. No timer drives a transition.
//
// Sessions are shared between request goroutines and the event handlers, so
// the mutable fields live behind the session's own lock; all access goes
// through the accessors below.
type Session struct {
	ID string

	mu         sync.RWMutex
	user       *User
	name       string
	role       Role
	credential string
}

// Authenticated reports whether the session currently holds an identity.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Apply commits a fetched identity to the session. A nil user clears it.
func (s *Session) Apply(user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.clearLocked()
		return
	}
	s.user = user
	s.name = user.Name
	s.role = user.Role
}

// Clear resets the session back to anonymous, dropping identity and the
// upstream credential.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.user = nil
	s.name = ""
	s.role = RoleUnknown
	s.credential = ""
}

// Role returns the session's current authorization profile.
func (s *Session) Role() Role {
	if s == nil {
		return RoleUnknown
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// UserID returns the owning user's identifier, empty while anonymous.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Credential returns the Cookie header value replayed to the platform API on
// behalf of this session. The browser never sees it.
func (s *Session) Credential() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetCredential stores the upstream-issued credential on the session.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
}

// Snapshot is the browser-safe view of a session.
type Snapshot struct {
	Authenticated bool   `json:"authenticated"`
	Name          string `json:"name,omitempty"`
	Role          Role   `json:"role,omitempty"`
	User          *User  `json:"user,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return Snapshot{}
	}
	user := *s.user
	return Snapshot{Authenticated: true, Name: s.name, Role: s.role, User: &user}
}

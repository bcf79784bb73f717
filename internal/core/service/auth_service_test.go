package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-service/internal/core/domain"
	"github.com/99minutos/user-service/internal/core/ports"
)

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	seq    int
	writes int
	err    error // if set, every call returns this error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if r.emailTaken(user.Email, "") {
		return nil, domain.ErrConflict
	}
	r.seq++
	r.writes++
	c := cloneUser(user)
	c.ID = "u" + strconv.Itoa(r.seq)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, domain.ErrConflict
	}
	r.writes++
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	r.writes++
	delete(r.users, id)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Publish(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, NewTokenManager("secret", time.Hour, "user-service"), nil, discardLogger)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	audit := &recordingAudit{}
	svc := NewAuthService(repo, NewTokenManager("secret", time.Hour, ""), audit, discardLogger)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Alice", Email: " Alice@Example.com ", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token on registration")
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if got := audit.actions(); len(got) != 1 || got[0] != domain.AuditRegistered {
		t.Fatalf("expected registered audit event, got %v", got)
	}
}

func TestAuthService_Register_SanitizesName(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, user, err := svc.Register(context.Background(), ports.RegisterInput{Name: "<b>Tom</b> & Jerry<script>x()</script>", Email: "tom@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Name != "Tom & Jerry" {
		t.Fatalf("unexpected sanitized name: %q", user.Name)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "pass123"},
		{Name: "A", Email: "", Password: "pass123"},
		{Name: "A", Email: "a@example.com", Password: ""},
		{Name: "A", Email: "a@example.com", Password: "123"},
		{Name: "<i></i>", Email: "a@example.com", Password: "pass123"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pass123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	writes := repo.writes

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bobby", Email: "BOB@example.com", Password: "other12"}); err != domain.ErrConflict {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if repo.writes != writes {
		t.Fatalf("duplicate registration must not write to the store")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Carol", Email: "carol@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, claims.Subject)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "Dave", Email: "dave@example.com", Password: "goodpass"})
	token, _, err := svc.Login(context.Background(), "dave@example.com", "badpass")
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if token != "" {
		t.Fatalf("no token may be issued on failure")
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.err = errors.New("connection refused")
	svc := newTestAuthService(repo)

	_, _, err := svc.Login(context.Background(), "a@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Erin", Email: "erin@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	id, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if id.ID != user.ID || id.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", id)
	}

	// Role comes from the store, so a promotion applies to an existing token.
	repo.users[user.ID].Role = domain.RoleAdmin
	id, err = svc.Authenticate(context.Background(), token)
	if err != nil || id.Role != domain.RoleAdmin {
		t.Fatalf("expected admin identity after promotion, got %+v, %v", id, err)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)
	token, user, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "Finn", Email: "finn@example.com", Password: "pass123"})

	forged, _ := NewTokenManager("other-secret", time.Hour, "user-service").Issue(user)
	wrongIssuer, _ := NewTokenManager("secret", time.Hour, "someone-else").Issue(user)

	expiredMgr := NewTokenManager("secret", time.Hour, "user-service")
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredMgr.Issue(user)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": user.ID, "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, raw := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"forged":       forged,
		"wrong issuer": wrongIssuer,
		"expired":      expired,
		"alg none":     unsigned,
	} {
		if _, err := svc.Authenticate(context.Background(), raw); err != domain.ErrUnauthenticated {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}

	delete(repo.users, user.ID)
	if _, err := svc.Authenticate(context.Background(), token); err != domain.ErrUnauthenticated {
		t.Fatalf("deleted user: expected ErrUnauthenticated, got %v", err)
	}
}

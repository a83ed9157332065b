package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Ajju0211/full-stack-gemini-clone/internal/models"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/repository"
	"github.com/Ajju0211/full-stack-gemini-clone/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Мок-репозиторий в памяти, повторяет фильтры SQL-запросов.
type mockUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
	// имитация гонки: IsEmailTaken отвечает false, а вставка ловит уникальный индекс
	raceOnCreate bool
	// вызывается после чтения по email: так тесты вклиниваются между чтением и записью
	afterGetByEmail func()
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	if m.raceOnCreate {
		return false, nil
	}
	_, err := m.GetUserByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = clone(user)
	return nil
}

func (m *mockUserRepo) find(match func(u *models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, err := m.find(func(u *models.User) bool { return u.Email == email })
	if m.afterGetByEmail != nil {
		m.afterGetByEmail()
	}
	return u, err
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID == id })
}

// update применяет fn к копии записи, подходящей под match, и подменяет её целиком.
// Проверка и запись идут под одним локом, как условный UPDATE в базе.
func (m *mockUserRepo) update(match func(u *models.User) bool, fn func(u *models.User)) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if match(u) {
			c := clone(u)
			fn(c)
			m.users[id] = c
			return clone(c), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	_, err := m.update(func(u *models.User) bool { return u.ID == id }, func(u *models.User) {
		u.LastLogin = at
		u.UpdatedAt = at
	})
	return err
}

func (m *mockUserRepo) SetResetToken(_ context.Context, id uuid.UUID, token string, expiresAt, now time.Time) error {
	_, err := m.update(func(u *models.User) bool { return u.ID == id }, func(u *models.User) {
		u.ResetPasswordToken = &token
		u.ResetPasswordExpiresAt = &expiresAt
		u.UpdatedAt = now
	})
	return err
}

func (m *mockUserRepo) ConsumeVerificationToken(_ context.Context, code string, now time.Time) (*models.User, error) {
	return m.update(func(u *models.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == code &&
			u.VerificationTokenExpiresAt != nil && u.VerificationTokenExpiresAt.After(now)
	}, func(u *models.User) {
		u.IsVerified = true
		u.VerificationToken = nil
		u.VerificationTokenExpiresAt = nil
		u.UpdatedAt = now
	})
}

func (m *mockUserRepo) ConsumeResetToken(_ context.Context, token string, now time.Time, passwordHash string) (*models.User, error) {
	return m.update(func(u *models.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordExpiresAt != nil && u.ResetPasswordExpiresAt.After(now)
	}, func(u *models.User) {
		u.PasswordHash = passwordHash
		u.ResetPasswordToken = nil
		u.ResetPasswordExpiresAt = nil
		u.UpdatedAt = now
	})
}

func (m *mockUserRepo) DeleteExpiredUnverified(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, u := range m.users {
		if !u.IsVerified && u.VerificationTokenExpiresAt != nil && u.VerificationTokenExpiresAt.Before(cutoff) {
			delete(m.users, id)
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) stored(id uuid.UUID) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return clone(u)
	}
	return nil
}

type sentMail struct {
	kind, to, payload string
}

type mockNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *mockNotifier) record(kind, to, payload string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return ErrEmailQueueFull
	}
	n.sent = append(n.sent, sentMail{kind, to, payload})
	return nil
}

func (n *mockNotifier) SendVerification(_ context.Context, to, code string) error {
	return n.record("verification", to, code)
}
func (n *mockNotifier) SendWelcome(_ context.Context, to, name string) error {
	return n.record("welcome", to, name)
}
func (n *mockNotifier) SendPasswordReset(_ context.Context, to, link string) error {
	return n.record("password_reset", to, link)
}
func (n *mockNotifier) SendResetSuccess(_ context.Context, to string) error {
	return n.record("reset_success", to, "")
}

func (n *mockNotifier) byKind(kind string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, s := range n.sent {
		if s.kind == kind {
			out = append(out, s)
		}
	}
	return out
}

type testEnv struct {
	svc      *AuthService
	repo     *mockUserRepo
	notifier *mockNotifier
	codec    *utils.TokenCodec
	clock    *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	env := &testEnv{
		repo:     newMockUserRepo(),
		notifier: &mockNotifier{},
		clock:    &now,
	}
	clock := func() time.Time { return *env.clock }
	env.codec = utils.NewTokenCodec("test-secret", 7*24*time.Hour).WithClock(clock)
	env.svc = NewAuthService(env.repo, env.codec, env.notifier, AuthConfig{
		ClientURL:         "http://localhost:5173/",
		VerificationTTL:   24 * time.Hour,
		ResetTTL:          time.Hour,
		VerificationGrace: time.Minute,
	}).WithClock(clock)
	return env
}

func (e *testEnv) advance(d time.Duration) { *e.clock = e.clock.Add(d) }

func (e *testEnv) signup(t *testing.T) *models.User {
	t.Helper()
	u, _, err := e.svc.Signup(context.Background(), "ann@example.com", "secret", "Ann")
	require.NoError(t, err)
	return u
}

func TestSignup_MissingFields(t *testing.T) {
	env := newTestEnv(t)
	cases := [][3]string{
		{"", "", ""},
		{"", "secret", "Ann"},
		{"ann@example.com", "", "Ann"},
		{"ann@example.com", "secret", "  "},
	}
	for _, c := range cases {
		_, _, err := env.svc.Signup(context.Background(), c[0], c[1], c[2])
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Equal(t, "All fields are required", err.Error())
	}
	assert.Empty(t, env.repo.users)
}

func TestSignup_Success(t *testing.T) {
	env := newTestEnv(t)

	user, token, err := env.svc.Signup(context.Background(), " Ann@Example.com ", "secret", "Ann")
	require.NoError(t, err)

	assert.Equal(t, "ann@example.com", user.Email)
	assert.False(t, user.IsVerified)
	require.NotNil(t, user.VerificationToken)
	assert.Len(t, *user.VerificationToken, 6)
	require.NotNil(t, user.VerificationTokenExpiresAt)
	assert.Equal(t, env.clock.Add(24*time.Hour), *user.VerificationTokenExpiresAt)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret", user.PasswordHash))

	uid, err := env.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uid)

	mails := env.notifier.byKind("verification")
	require.Len(t, mails, 1)
	assert.Equal(t, *user.VerificationToken, mails[0].payload)
	assert.NotNil(t, env.repo.stored(user.ID))
}

func TestSignup_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t)

	_, _, err := env.svc.Signup(context.Background(), "ANN@example.com", "other", "Ann 2")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "User already exists", err.Error())
}

func TestSignup_RaceHitsUniqueIndex(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t)
	env.repo.raceOnCreate = true

	_, _, err := env.svc.Signup(context.Background(), "ann@example.com", "secret", "Ann")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSignup_NotificationFailureKeepsUser(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.fail = true

	user, token, err := env.svc.Signup(context.Background(), "ann@example.com", "secret", "Ann")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotNil(t, env.repo.stored(user.ID))
}

func TestVerifyEmail_Success(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	env.advance(time.Hour)

	got, err := env.svc.VerifyEmail(context.Background(), *user.VerificationToken)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Nil(t, got.VerificationToken)
	assert.Nil(t, got.VerificationTokenExpiresAt)

	stored := env.repo.stored(user.ID)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)

	welcome := env.notifier.byKind("welcome")
	require.Len(t, welcome, 1)
	assert.Equal(t, "Ann", welcome[0].payload)

	// код одноразовый
	_, err = env.svc.VerifyEmail(context.Background(), *user.VerificationToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Len(t, env.notifier.byKind("welcome"), 1)
}

func TestVerifyEmail_ExpiredOrUnknown(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	before := *env.repo.stored(user.ID)

	_, err := env.svc.VerifyEmail(context.Background(), "000000")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Equal(t, "Invalid or expired verification code", err.Error())

	env.advance(25 * time.Hour)
	_, err = env.svc.VerifyEmail(context.Background(), *user.VerificationToken)
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	assert.Equal(t, before, *env.repo.stored(user.ID))
	assert.Empty(t, env.notifier.byKind("welcome"))
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t)

	_, _, errWrongPass := env.svc.Login(context.Background(), "ann@example.com", "nope")
	_, _, errNoUser := env.svc.Login(context.Background(), "bob@example.com", "secret")

	require.Error(t, errWrongPass)
	require.Error(t, errNoUser)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
	assert.Equal(t, "Invalid credentials", errNoUser.Error())
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	env.advance(3 * time.Hour)

	got, token, err := env.svc.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, *env.clock, got.LastLogin)
	assert.Equal(t, *env.clock, env.repo.stored(user.ID).LastLogin)

	uid, err := env.codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uid)
}

func TestLogin_KeepsConcurrentVerification(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	code := *user.VerificationToken

	// подтверждение проходит между чтением пользователя и записью last_login
	env.repo.afterGetByEmail = func() {
		env.repo.afterGetByEmail = nil
		_, err := env.svc.VerifyEmail(context.Background(), code)
		require.NoError(t, err)
	}

	_, _, err := env.svc.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	stored := env.repo.stored(user.ID)
	assert.True(t, stored.IsVerified)
	assert.Nil(t, stored.VerificationToken)
	assert.Nil(t, stored.VerificationTokenExpiresAt)
	assert.Equal(t, *env.clock, stored.LastLogin)
}

func TestLogin_KeepsConcurrentPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	require.NoError(t, env.svc.ForgotPassword(context.Background(), "ann@example.com"))
	token := *env.repo.stored(user.ID).ResetPasswordToken

	env.repo.afterGetByEmail = func() {
		env.repo.afterGetByEmail = nil
		require.NoError(t, env.svc.ResetPassword(context.Background(), token, "n3w-pass"))
	}

	// вход по старому паролю прочитан до сброса
	_, _, err := env.svc.Login(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)

	stored := env.repo.stored(user.ID)
	assert.True(t, utils.CheckPasswordHash("n3w-pass", stored.PasswordHash))
	assert.Nil(t, stored.ResetPasswordToken)
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)

	err := env.svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", err.Error())

	err = env.svc.ForgotPassword(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, env.svc.ForgotPassword(context.Background(), "ann@example.com"))

	stored := env.repo.stored(user.ID)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.Len(t, *stored.ResetPasswordToken, 40)
	assert.Equal(t, env.clock.Add(time.Hour), *stored.ResetPasswordExpiresAt)

	mails := env.notifier.byKind("password_reset")
	require.Len(t, mails, 1)
	assert.Equal(t, "http://localhost:5173/reset-password/"+*stored.ResetPasswordToken, mails[0].payload)
}

func TestResetPassword_SingleUse(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	require.NoError(t, env.svc.ForgotPassword(context.Background(), "ann@example.com"))
	token := *env.repo.stored(user.ID).ResetPasswordToken
	oldHash := env.repo.stored(user.ID).PasswordHash

	require.NoError(t, env.svc.ResetPassword(context.Background(), token, "n3w-pass"))

	stored := env.repo.stored(user.ID)
	assert.NotEqual(t, oldHash, stored.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("n3w-pass", stored.PasswordHash))
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpiresAt)
	assert.Len(t, env.notifier.byKind("reset_success"), 1)

	err := env.svc.ResetPassword(context.Background(), token, "again")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	assert.Equal(t, "Invalid or expired reset token", err.Error())
}

func TestResetPassword_Expired(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	require.NoError(t, env.svc.ForgotPassword(context.Background(), "ann@example.com"))
	token := *env.repo.stored(user.ID).ResetPasswordToken

	env.advance(time.Hour + time.Second)
	assert.ErrorIs(t, env.svc.ResetPassword(context.Background(), token, "x"), ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, env.svc.ResetPassword(context.Background(), token, ""), ErrValidation)
}

func TestResetPassword_ConcurrentSameToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	require.NoError(t, env.svc.ForgotPassword(context.Background(), "ann@example.com"))
	token := *env.repo.stored(user.ID).ResetPasswordToken

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		winner  string
		invalid int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pass := "pass-" + string(rune('a'+i))
			err := env.svc.ResetPassword(context.Background(), token, pass)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
				winner = pass
			case errors.Is(err, ErrInvalidOrExpiredToken):
				invalid++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, invalid)
	assert.True(t, utils.CheckPasswordHash(winner, env.repo.stored(user.ID).PasswordHash))
	assert.Len(t, env.notifier.byKind("reset_success"), 1)
}

func TestVerifyEmail_ConcurrentSameCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)
	code := *user.VerificationToken

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		invalid int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.svc.VerifyEmail(context.Background(), code)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrInvalidOrExpiredToken) {
				invalid++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, invalid)
	assert.Len(t, env.notifier.byKind("welcome"), 1)
	assert.True(t, env.repo.stored(user.ID).IsVerified)
}

func TestCheckAuth(t *testing.T) {
	env := newTestEnv(t)
	user := env.signup(t)

	got, err := env.svc.CheckAuth(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	delete(env.repo.users, user.ID)
	_, err = env.svc.CheckAuth(context.Background(), user.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.CheckAuth(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanupUnverified_RespectsGrace(t *testing.T) {
	env := newTestEnv(t)
	pending := env.signup(t)

	verified, _, err := env.svc.Signup(context.Background(), "bob@example.com", "secret", "Bob")
	require.NoError(t, err)
	_, err = env.svc.VerifyEmail(context.Background(), *verified.VerificationToken)
	require.NoError(t, err)

	// истёк, но grace ещё не прошёл
	env.advance(24*time.Hour + 30*time.Second)
	n, err := env.svc.CleanupUnverified(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	env.advance(time.Minute)
	n, err = env.svc.CleanupUnverified(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Nil(t, env.repo.stored(pending.ID))
	assert.NotNil(t, env.repo.stored(verified.ID))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", maskEmail("ann@example.com"))
	assert.Equal(t, "***", maskEmail("broken"))
	assert.False(t, strings.Contains(maskEmail("secret@x.io"), "secret"))
}

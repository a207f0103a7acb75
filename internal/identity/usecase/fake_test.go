package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/quickcart/internal/identity/entity"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goerror"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/otp"
	"github.com/shandysiswandi/quickcart/internal/pkg/ratelimit"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

const testConfig = `
modules:
  identity:
    otp_verify_limit: 0
    otp_verify_window_minutes: 15
    otp_resend_limit: 3
    otp_resend_window_minutes: 15
`

// memoryRepo mimics the conditional updates of the accounts table.
type memoryRepo struct {
	mu       sync.Mutex
	byID     map[int64]entity.Account
	err      error
	onVerify func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: map[int64]entity.Account{}}
}

func (m *memoryRepo) GetAccountByEmail(_ context.Context, email string) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	for _, acc := range m.byID {
		if acc.Email == email {
			return clone(acc), nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (m *memoryRepo) GetAccountByID(_ context.Context, id int64) (*entity.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	acc, ok := m.byID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return clone(acc), nil
}

func (m *memoryRepo) CreateAccount(_ context.Context, acc entity.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byID {
		if existing.Email == acc.Email {
			return goerror.ErrConflict
		}
	}
	m.byID[acc.ID] = *clone(acc)
	return nil
}

func (m *memoryRepo) MarkAccountVerified(_ context.Context, id int64, digest string) (bool, error) {
	if m.onVerify != nil {
		m.onVerify()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.byID[id]
	if !ok || acc.IsVerified || acc.OTP == nil || acc.OTP.Digest != digest {
		return false, nil
	}
	acc.IsVerified = true
	acc.OTP = nil
	m.byID[id] = acc
	return true, nil
}

func (m *memoryRepo) ReplaceAccountOTP(_ context.Context, id int64, pending entity.PendingOTP) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.byID[id]
	if !ok || acc.IsVerified {
		return false, nil
	}
	acc.OTP = &pending
	m.byID[id] = acc
	return true, nil
}

func (m *memoryRepo) put(acc entity.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[acc.ID] = acc
}

func clone(acc entity.Account) *entity.Account {
	if acc.OTP != nil {
		p := *acc.OTP
		acc.OTP = &p
	}
	return &acc
}

type notifierSpy struct {
	mu   sync.Mutex
	sent []OTPNotification
	err  error
}

func (n *notifierSpy) NotifyOTP(_ context.Context, msg OTPNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *notifierSpy) last(t *testing.T) OTPNotification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no otp was sent")
	return n.sent[len(n.sent)-1]
}

// limiterStub counts calls per key in memory.
type limiterStub struct {
	hits map[string]int
	err  error
}

func (l *limiterStub) Allow(_ context.Context, key string, limit int, _ time.Duration) error {
	if l.err != nil {
		return l.err
	}
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.hits[key]++
	if limit > 0 && l.hits[key] > limit {
		return ratelimit.ErrLimited
	}
	return nil
}

// sequenceOTP hands out codes in order; the last one repeats.
type sequenceOTP struct {
	codes []string
	clock clock.Clocker
	n     int
}

func (s *sequenceOTP) Generate() (otp.Code, error) {
	i := min(s.n, len(s.codes)-1)
	s.n++
	return otp.Code{Value: s.codes[i], ExpiresAt: s.clock.Now().Add(otp.DefaultTTL)}, nil
}

type seqNumberID struct{ n int64 }

func (s *seqNumberID) Generate() int64 {
	s.n++
	return 7000 + s.n
}

type seqStringID struct{ n int }

func (s *seqStringID) Generate() string {
	s.n++
	return strings.Repeat("j", s.n)
}

type fixture struct {
	uc       *Usecase
	repo     *memoryRepo
	notifier *notifierSpy
	limiter  *limiterStub
	clock    *clock.Fixed
	jwt      jwt.JWT
	otp      *sequenceOTP
	argon2id hash.Hash
}

func newFixture(t *testing.T, codes ...string) *fixture {
	t.Helper()

	if len(codes) == 0 {
		codes = []string{"123456"}
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	clk := clock.NewFixed(testNow)
	tokens, err := jwt.NewSymmetric(jwt.Config{
		Secret: []byte(strings.Repeat("s", 32)),
		TTL:    time.Hour,
		Clock:  clk,
		UUID:   &seqStringID{},
	})
	require.NoError(t, err)

	f := &fixture{
		repo:     newMemoryRepo(),
		notifier: &notifierSpy{},
		limiter:  &limiterStub{},
		clock:    clk,
		jwt:      tokens,
		otp:      &sequenceOTP{codes: codes, clock: clk},
		argon2id: hash.NewArgon2id("pepper", 0),
	}

	f.uc = New(Dependency{
		RepoDB:     f.repo,
		Notifier:   f.notifier,
		Limiter:    f.limiter,
		Validator:  v,
		Config:     cfg,
		Argon2ID:   f.argon2id,
		HMAC:       hash.NewHMACSHA256("otp-secret"),
		UID:        &seqNumberID{},
		OTP:        f.otp,
		Clock:      clk,
		JWT:        tokens,
		Instrument: instrument.NewNoop(),
	})

	return f
}

// verifiedAccount stores a verified account with the given password.
func (f *fixture) verifiedAccount(t *testing.T, id int64, email, password string) {
	t.Helper()

	h, err := f.argon2id.Hash(t.Context(), password)
	require.NoError(t, err)
	f.repo.put(entity.Account{ID: id, Email: email, PasswordHash: string(h), IsVerified: true, CreatedAt: testNow})
}

var (
	_ uid.NumberID  = (*seqNumberID)(nil)
	_ otp.Generator = (*sequenceOTP)(nil)
)

package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	err     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, repositories.ErrDuplicateKey
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	u := *user
	r.byEmail[user.Email] = &u
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID != id {
			continue
		}
		for k, v := range fields {
			switch k {
			case "name":
				u.Name = v.(string)
			case "password_hash":
				u.PasswordHash = v.(string)
			case "is_email_verified":
				u.IsEmailVerified = v.(bool)
			}
		}
		return nil
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) get(email string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byEmail[email]
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendEmail(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	otps []*models.EmailOTP
}

func (r *fakeOTPRepo) EnsureIndexes(context.Context) error { return nil }

func (r *fakeOTPRepo) Create(_ context.Context, otp *models.EmailOTP) (*models.EmailOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	otp.ID = primitive.NewObjectID()
	c := *otp
	r.otps = append(r.otps, &c)
	return otp, nil
}

func (r *fakeOTPRepo) InvalidateUnused(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.otps {
		if o.UserID == userID && !o.IsUsed {
			o.IsUsed = true
			n++
		}
	}
	return n, nil
}

func (r *fakeOTPRepo) FindUnused(_ context.Context, userID primitive.ObjectID, code string) (*models.EmailOTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.otps) - 1; i >= 0; i-- {
		o := r.otps[i]
		if o.UserID == userID && o.OTPCode == code && !o.IsUsed {
			c := *o
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOTPRepo) MarkAsUsed(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == id && !o.IsUsed {
			o.IsUsed = true
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeOTPRepo) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.otps[:0]
	var n int64
	for _, o := range r.otps {
		if o.ExpiresAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	r.otps = kept
	return n, nil
}

type fakeLLM struct {
	reply    string
	err      error
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequentialCodes hands out 100001, 100002, ...
func sequentialCodes() func(string) (string, error) {
	var (
		mu sync.Mutex
		n  = 100000
	)
	return func(string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strconv.Itoa(n), nil
	}
}

var errBoom = errors.New("boom")

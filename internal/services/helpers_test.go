package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services"
	"innerai_backend/internal/storage"
	"innerai_backend/internal/testutil"
)

// captureMailer запоминает последний отправленный код
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{codes: map[string]string{}}
}

func (m *captureMailer) Validate() error { return nil }

func (m *captureMailer) SendVerificationCode(to, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.codes[to] = code
	return nil
}

func (m *captureMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

// memoryStorage - storage.Storage в памяти; failAfter > 0 ломает Save после N успешных вызовов
type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	saves     int
	failAfter int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && s.saves >= s.failAfter {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[path] = data
	s.saves++
	return nil
}

func (s *memoryStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStorage) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *memoryStorage) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok, nil
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// fakeClock - управляемое время для проверки сроков токенов
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newAuthService(mailer *captureMailer, clock *fakeClock) services.AuthService {
	return services.NewAuthService(
		services.AuthConfig{
			TokenSecret:         "test-secret",
			TokenTTL:            time.Hour,
			VerificationCodeTTL: 10 * time.Minute,
			KDFIterations:       testutil.TestKDFIterations,
		},
		repositories.NewUserRepository(),
		repositories.NewAuthTokenRepository(),
		repositories.NewVerificationCodeRepository(),
		mailer,
		services.WithClock(clock.Now),
	)
}

package testutil

import (
	"context"
	"mime/multipart"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/Baaaki/storefront/internal/mail"
	"github.com/Baaaki/storefront/internal/models"
	"github.com/Baaaki/storefront/internal/utils"
)

// TestJWTSecret signs every token issued in tests
const TestJWTSecret = "test-secret-key-for-jwt-testing"

// RecordingMailer captures enqueued messages instead of sending them
type RecordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (m *RecordingMailer) Enqueue(msg mail.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return true
}

func (m *RecordingMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mail.Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Last returns the most recent message of the given kind
func (m *RecordingMailer) Last(t *testing.T, kind string) mail.Message {
	t.Helper()
	msgs := m.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Kind == kind {
			return msgs[i]
		}
	}
	t.Fatalf("No %s email was sent", kind)
	return mail.Message{}
}

func (m *RecordingMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}

var (
	verifyLinkRe = regexp.MustCompile(`/verify-email/([A-Za-z0-9_-]+)/([A-Za-z0-9_.-]+)/`)
	resetLinkRe  = regexp.MustCompile(`token=([0-9a-f]+)`)
)

// VerificationParts extracts uid and token from a verification email
func VerificationParts(t *testing.T, msg mail.Message) (uid, token string) {
	t.Helper()
	m := verifyLinkRe.FindStringSubmatch(msg.HTMLBody)
	if m == nil {
		t.Fatalf("No verification link in email body")
	}
	return m[1], m[2]
}

// ResetKey extracts the key from a password reset email
func ResetKey(t *testing.T, msg mail.Message) string {
	t.Helper()
	m := resetLinkRe.FindStringSubmatch(msg.HTMLBody)
	if m == nil {
		t.Fatalf("No reset link in email body")
	}
	return m[1]
}

// MemoryImageStore records uploads and hands back predictable URLs
type MemoryImageStore struct {
	mu    sync.Mutex
	Saved []string
}

func (s *MemoryImageStore) Save(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "/media/" + folder + "/" + file.Filename
	s.Saved = append(s.Saved, url)
	return url, nil
}

// AccessToken signs a valid access token for user
func AccessToken(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user, utils.TokenTypeAccess, TestJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign access token: %v", err)
	}
	return token
}

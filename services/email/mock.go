package emailsvc

import (
	"sync"

	"github.com/normoctl/normocontrol/core"
)

// MockService records messages synchronously so tests can assert on them.
type MockService struct {
	mu   sync.Mutex
	Sent []core.EmailMessage
}

var _ core.EmailService = (*MockService)(nil)

func NewMockService() *MockService {
	return &MockService{}
}

func (svc *MockService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	for _, msg := range messages {
		if msg.HasRecipients() && msg.HasContent() {
			svc.Sent = append(svc.Sent, *msg)
		}
	}
}

func (svc *MockService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	sent := make([]core.EmailMessage, len(svc.Sent))
	copy(sent, svc.Sent)
	return sent
}

func (svc *MockService) Reset() {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	svc.Sent = nil
}

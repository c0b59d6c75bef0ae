package notify

import (
	"errors"
	"sync"
	"testing"

	"github.com/kvbsystems/kvbbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer, 8)

	d.Enqueue(Message{To: "a@example.com", Subject: "first"})
	d.Enqueue(Message{To: "b@example.com", Subject: "second"})
	d.Close()

	sent := mailer.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "first", sent[0].Subject)
	assert.Equal(t, "second", sent[1].Subject)
}

func TestDispatcherEnqueueAfterCloseDrops(t *testing.T) {
	mailer := &recordingMailer{}
	d := NewDispatcher(mailer, 8)
	d.Close()

	// must not panic or block
	d.Enqueue(Message{To: "late@example.com"})
	assert.Empty(t, mailer.messages())
}

func TestDispatcherSendFailureDoesNotStopWorker(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	d := NewDispatcher(mailer, 8)

	d.Enqueue(Message{To: "a@example.com"})
	d.Close()

	assert.Empty(t, mailer.messages())
}

func TestDispatcherCloseTwice(t *testing.T) {
	d := NewDispatcher(&recordingMailer{}, 4)
	d.Close()
	d.Close()
}

func TestQuotationEmails(t *testing.T) {
	customer := models.Customer{Name: "Asha Nair", Email: "asha@example.com"}

	sent := QuotationSentEmail(customer, "SolarMax 3000", 120000)
	assert.Equal(t, "asha@example.com", sent.To)
	assert.Contains(t, sent.Body, "SolarMax 3000")
	assert.Contains(t, sent.Body, "120000.00")

	accepted := QuotationAcceptedEmail(customer, "SolarMax 3000")
	assert.Equal(t, "asha@example.com", accepted.To)
	assert.Contains(t, accepted.Body, "installation task has been scheduled")
}

func TestLeadFollowUpEmail(t *testing.T) {
	lead := models.Lead{Name: "Ravi", Email: "ravi@example.com", Phone: "9999"}
	msg := LeadFollowUpEmail("sales@kvb.example", lead)
	assert.Equal(t, "sales@kvb.example", msg.To)
	assert.Contains(t, msg.Subject, "Ravi")
	assert.Contains(t, msg.Body, "follow-up")
}

func TestTaskEmails(t *testing.T) {
	worker := models.Worker{Name: "Biju", Email: "biju@kvb.example"}
	task := models.Task{Title: "Installation for SolarMax 3000", Location: "Kochi"}

	assigned := TaskAssignedEmail(worker, task)
	assert.Equal(t, "biju@kvb.example", assigned.To)
	assert.Contains(t, assigned.Subject, task.Title)

	customer := models.Customer{Name: "Asha", Email: "asha@example.com"}
	completed := TaskCompletedEmail(customer, task)
	assert.Equal(t, "asha@example.com", completed.To)
	assert.Contains(t, completed.Subject, task.Title)
}

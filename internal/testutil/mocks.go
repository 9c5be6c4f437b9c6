package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/messaging/payloads"
)

// RecordingPublisher запоминает опубликованные события
type RecordingPublisher struct {
	mu     sync.Mutex
	events []payloads.LoanEventPayload
	Err    error
}

func (p *RecordingPublisher) PublishLoanEvent(_ context.Context, payload payloads.LoanEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return p.Err
}

func (p *RecordingPublisher) Events() []payloads.LoanEventPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]payloads.LoanEventPayload(nil), p.events...)
}

// WorkflowCall один вызов MockWorkflow
type WorkflowCall struct {
	Endpoint string
	Payload  any
}

// MockWorkflow реализует ports.WorkflowClient с заданным ответом
type MockWorkflow struct {
	mu       sync.Mutex
	calls    []WorkflowCall
	Response *domain.UpstreamResponse
	Err      error
}

func (m *MockWorkflow) PostJSON(_ context.Context, endpoint string, payload any) (*domain.UpstreamResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, WorkflowCall{Endpoint: endpoint, Payload: payload})
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockWorkflow) Calls() []WorkflowCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WorkflowCall(nil), m.calls...)
}

// MemoryFiles реализует ports.FileStorage
type MemoryFiles struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func (f *MemoryFiles) UploadFile(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Objects == nil {
		f.Objects = map[string][]byte{}
	}
	f.Objects[key] = data
	return "http://files.test/book-covers/" + key, nil
}

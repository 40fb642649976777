package bank

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	banks    map[string]Bank
	attempts map[string]Attempt
}

// NewInMemoryStore returns a Store suitable for tests and single-process
// offline use.
func NewInMemoryStore() Store {
	return &memoryStore{
		banks:    map[string]Bank{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutBank(b Bank) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	m.banks[b.ID] = b
	return nil
}

func (m *memoryStore) GetBank(id string) (Bank, error) {
	b, err := m.GetBankFull(id)
	if err != nil {
		return Bank{}, err
	}
	return stripAnswers(b), nil
}

func (m *memoryStore) GetBankFull(id string) (Bank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.banks[id]
	if !ok {
		return Bank{}, ErrBankNotFound
	}
	return b, nil
}

func (m *memoryStore) ListBanks() ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.banks))
	for _, b := range m.banks {
		out = append(out, Summary{ID: b.ID, Title: b.Title, NumQuestions: len(b.Questions), CreatedAt: b.CreatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) NewAttempt(bankID, userID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.banks[bankID]; !ok {
		return Attempt{}, ErrBankNotFound
	}
	a := Attempt{
		ID:        uuid.NewString(),
		BankID:    bankID,
		UserID:    userID,
		Status:    StatusInProgress,
		Responses: map[string]interface{}{},
	}
	m.attempts[a.ID] = a
	return cloneAttempt(a), nil
}

func (m *memoryStore) SaveResponses(attemptID string, resp map[string]interface{}) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, errAlreadySubmitted
	}
	for k, v := range resp {
		a.Responses[k] = v
	}
	m.attempts[attemptID] = a
	return cloneAttempt(a), nil
}

func (m *memoryStore) Submit(attemptID string) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	if a.Status == StatusSubmitted {
		return cloneAttempt(a), nil
	}
	b, ok := m.banks[a.BankID]
	if !ok {
		return Attempt{}, ErrBankNotFound
	}
	gradeAttempt(b, &a)
	a.Status = StatusSubmitted
	m.attempts[attemptID] = a
	return cloneAttempt(a), nil
}

func (m *memoryStore) GetAttempt(id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return cloneAttempt(a), nil
}

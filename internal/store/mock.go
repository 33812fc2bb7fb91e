package store

import "strings"

// MockMappingStore is a mock implementation of the merchant mapping store
// for testing.
type MockMappingStore struct {
	Mappings map[string]string

	// Error flags for testing error conditions
	LookupError error
	LearnError  error
	FlushError  error

	Flushed bool
}

// Lookup returns the mock mapping for a merchant, case-insensitively.
func (m *MockMappingStore) Lookup(merchant string) (string, bool, error) {
	if m.LookupError != nil {
		return "", false, m.LookupError
	}
	category, ok := m.Mappings[strings.ToLower(strings.TrimSpace(merchant))]
	return category, ok, nil
}

// Learn records a mapping in the mock.
func (m *MockMappingStore) Learn(merchant, category string) error {
	if m.LearnError != nil {
		return m.LearnError
	}
	if m.Mappings == nil {
		m.Mappings = make(map[string]string)
	}
	m.Mappings[strings.ToLower(strings.TrimSpace(merchant))] = category
	return nil
}

// Flush marks the mock as flushed.
func (m *MockMappingStore) Flush() error {
	if m.FlushError != nil {
		return m.FlushError
	}
	m.Flushed = true
	return nil
}

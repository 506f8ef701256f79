package services

import (
	"context"
	"fmt"
	"sync"
)

// MockGeocodeService is a mock implementation of GeocodeInterface for testing
type MockGeocodeService struct {
	mu        sync.RWMutex
	addresses map[string][2]float64
	failWith  error
}

// NewMockGeocodeService creates a new mock geocode service
func NewMockGeocodeService() *MockGeocodeService {
	return &MockGeocodeService{
		addresses: make(map[string][2]float64),
	}
}

// SetAsMockForTesting sets this mock as the global geocode service instance
func (m *MockGeocodeService) SetAsMockForTesting() {
	SetGeocodeService(m)
}

// AddAddress registers a known address with its coordinate
func (m *MockGeocodeService) AddAddress(address string, lat, lng float64) {
	m.mu.Lock()
	m.addresses[address] = [2]float64{lat, lng}
	m.mu.Unlock()
}

// FailWith makes every subsequent lookup return the given error
func (m *MockGeocodeService) FailWith(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}

// Geocode resolves a registered address or fails
func (m *MockGeocodeService) Geocode(ctx context.Context, address string) (float64, float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return 0, 0, m.failWith
	}
	coord, ok := m.addresses[address]
	if !ok {
		return 0, 0, fmt.Errorf("address could not be geocoded: %s", address)
	}
	return coord[0], coord[1], nil
}

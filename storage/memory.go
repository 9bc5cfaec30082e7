package storage

import (
	"bytes"
	"sync"
)

type Memory struct {
	values map[string][]byte
	mutex  sync.RWMutex
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Save(key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.values[key] = bytes.Clone(value)
	return nil
}

func (m *Memory) Load(key string) ([]byte, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(value), true, nil
}

package game

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

type MemoryTableStateTracker struct {
	lock         sync.Mutex
	activeTables map[string][]byte
}

func NewMemoryTableStateTracker() *MemoryTableStateTracker {
	return &MemoryTableStateTracker{
		activeTables: make(map[string][]byte),
	}
}

func (m *MemoryTableStateTracker) Load(tableID string) (*TableView, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	viewBytes, ok := m.activeTables[tableID]
	if !ok {
		return nil, fmt.Errorf("Table state for table: %s is not found", tableID)
	}
	view := &TableView{}
	err := jsoniter.Unmarshal(viewBytes, view)
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (m *MemoryTableStateTracker) Save(tableID string, view *TableView) error {
	viewBytes, err := jsoniter.Marshal(view)
	if err != nil {
		return err
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.activeTables[tableID] = viewBytes
	return nil
}

func (m *MemoryTableStateTracker) Remove(tableID string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.activeTables, tableID)
	return nil
}

package game

// PersistTableState stores the latest table snapshot after every
// applied command so an operator can inspect or recover it. The memory
// tracker is the default; redis is selected by PERSIST_METHOD=redis.
type PersistTableState interface {
	Load(tableID string) (*TableView, error)
	Save(tableID string, view *TableView) error
	Remove(tableID string) error
}

package directory

// DetailToggle tracks which record's detail panel is open. At most one is open
// at a time. The zero value has nothing open. It is per-viewer state and is
// never persisted.
type DetailToggle struct {
	id   uint
	open bool
}

// Toggle closes the panel if id is the open one, otherwise opens id and closes
// any other. It returns whether id is open afterwards.
func (t *DetailToggle) Toggle(id uint) bool {
	if t.open && t.id == id {
		t.open = false
		t.id = 0
		return false
	}
	t.id = id
	t.open = true
	return true
}

func (t *DetailToggle) Expanded() (uint, bool) {
	return t.id, t.open
}

func (t *DetailToggle) IsExpanded(id uint) bool {
	return t.open && t.id == id
}

func (t *DetailToggle) Collapse() {
	t.id, t.open = 0, false
}

package enums

// ChangeKind tags a tracked-collection change notification.
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
)

func (k ChangeKind) IsValid() bool {
	switch k {
	case ChangeInserted, ChangeUpdated, ChangeDeleted:
		return true
	}
	return false
}

package models

// Status is the persisted report status code. The numeric values are part of
// the storage contract and must not change.
type Status int

const (
	StatusNone     Status = 0
	StatusPending  Status = 1
	StatusRejected Status = 2
	StatusApproved Status = 3
	StatusDraft    Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusRejected:
		return "Rejected"
	case StatusApproved:
		return "Approved"
	case StatusDraft:
		return "Draft"
	default:
		return "None"
	}
}

// ParseStatus maps a status name (case-sensitive, as returned by String) to
// its code.
func ParseStatus(name string) (Status, bool) {
	for _, s := range []Status{StatusPending, StatusRejected, StatusApproved, StatusDraft} {
		if s.String() == name {
			return s, true
		}
	}
	return StatusNone, false
}

// StatusRecord is the statuses lookup table.
type StatusRecord struct {
	ID   Status `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:50;not null" json:"name"`
}

func (StatusRecord) TableName() string {
	return "statuses"
}

// StatusSeeds returns the lookup rows in code order.
func StatusSeeds() []StatusRecord {
	return []StatusRecord{
		{ID: StatusPending, Name: StatusPending.String()},
		{ID: StatusRejected, Name: StatusRejected.String()},
		{ID: StatusApproved, Name: StatusApproved.String()},
		{ID: StatusDraft, Name: StatusDraft.String()},
	}
}

package models

const (
	StatusNew  = "new"
	StatusDone = "done"
)

// ValidStatus reports whether s is a persisted task status.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusDone
}

type Task struct {
	ID     int64
	UserID int64
	Title  string
	Status string
}

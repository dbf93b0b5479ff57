package entity

import "time"

// Task is a timed work session logged against an operation. The operator
// reference is nullable; OperatorBitzerID is a denormalized snapshot of the
// operator's personnel number taken when the link is set.
type Task struct {
	ID               int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	OperationID      int64       `json:"operation_id" gorm:"not null;index"`
	ProcessType      ProcessType `json:"process_type" gorm:"size:32;not null"`
	OperatorUserID   *int64      `json:"operator_user_id"`
	OperatorBitzerID *int64      `json:"operator_bitzer_id"`
	StartAt          *time.Time  `json:"start_at"`
	EndAt            *time.Time  `json:"end_at"`
	NumBenches       *int64      `json:"num_benches"`
	NumMachines      *int64      `json:"num_machines"`
	GoodPieces       *int64      `json:"good_pieces"`
	BadPieces        *int64      `json:"bad_pieces"`
	Notes            *string     `json:"notes" gorm:"type:text"`

	Operation    *Operation `json:"-" gorm:"foreignKey:OperationID"`
	OperatorUser *User      `json:"operator_user,omitempty" gorm:"foreignKey:OperatorUserID"`
}

func (Task) TableName() string {
	return "tasksdb"
}

// InProgress reports whether the task has been started but not finished.
func (t *Task) InProgress() bool {
	return t.StartAt != nil && t.EndAt == nil
}

// Elapsed returns the task's duration at the given wall-clock instant.
// A running task measures against now; a finished task is frozen at the
// authoritative end−start difference regardless of now. Unstarted tasks
// report zero.
func (t *Task) Elapsed(now time.Time) time.Duration {
	if t.StartAt == nil {
		return 0
	}
	if t.EndAt != nil {
		return t.EndAt.Sub(*t.StartAt)
	}
	d := now.Sub(*t.StartAt)
	if d < 0 {
		return 0
	}
	return d
}

package sqlstore

// Row models. Every timestamp is a pair of INTEGER columns: unix seconds
// and the nanosecond within that second. The pair covers every time.Time a
// journal value can carry and sorts as (seconds, nanos). Calendar days start
// on a whole second, so day filters only look at the seconds column.

// taskRow is the tasks table.
type taskRow struct {
	ID             string `gorm:"primarykey;size:36"`
	Title          string `gorm:"size:500;not null"`
	Description    string `gorm:"size:5000;not null"`
	Status         string `gorm:"size:20;not null;check:chk_tasks_status,status IN ('todo','done','cancelled')"`
	CreatedAtSec   int64  `gorm:"column:created_at;not null;index:idx_tasks_created_at"`
	CreatedAtNanos int32  `gorm:"column:created_at_nanos;not null;default:0;check:chk_tasks_created_nanos,created_at_nanos BETWEEN 0 AND 999999999"`
	UpdatedAtSec   int64  `gorm:"column:updated_at;not null"`
	UpdatedAtNanos int32  `gorm:"column:updated_at_nanos;not null;default:0;check:chk_tasks_updated_nanos,updated_at_nanos BETWEEN 0 AND 999999999"`
}

// TableName returns the table name for taskRow.
func (taskRow) TableName() string {
	return "tasks"
}

// eventRow is the events table.
type eventRow struct {
	ID              string `gorm:"primarykey;size:36"`
	Title           string `gorm:"size:500;not null"`
	Description     string `gorm:"size:5000;not null"`
	OccurredAtSec   int64  `gorm:"column:occurred_at;not null;index:idx_events_occurred_at"`
	OccurredAtNanos int32  `gorm:"column:occurred_at_nanos;not null;default:0;check:chk_events_occurred_nanos,occurred_at_nanos BETWEEN 0 AND 999999999"`
	CreatedAtSec    int64  `gorm:"column:created_at;not null"`
	CreatedAtNanos  int32  `gorm:"column:created_at_nanos;not null;default:0;check:chk_events_created_nanos,created_at_nanos BETWEEN 0 AND 999999999"`
}

// TableName returns the table name for eventRow.
func (eventRow) TableName() string {
	return "events"
}

// noteRow is the notes table.
type noteRow struct {
	ID             string `gorm:"primarykey;size:36"`
	Title          string `gorm:"size:500;not null"`
	Content        string `gorm:"not null"`
	CreatedAtSec   int64  `gorm:"column:created_at;not null;index:idx_notes_created_at"`
	CreatedAtNanos int32  `gorm:"column:created_at_nanos;not null;default:0;check:chk_notes_created_nanos,created_at_nanos BETWEEN 0 AND 999999999"`
}

// TableName returns the table name for noteRow.
func (noteRow) TableName() string {
	return "notes"
}

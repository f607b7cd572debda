package model

import "time"

// CCA is a co-curricular activity.  Bookings made on behalf of a CCA must
// come from one of its leaders.
type CCA struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CCALeader grants an email leadership of a CCA.
type CCALeader struct {
	CCAID string
	Email string
}

// CCASession is a scheduled practice or meeting of a CCA.  Leaders may
// change it only while it is far enough in the future.
type CCASession struct {
	ID        string    `json:"id"`
	CCAID     string    `json:"ccaID"`
	Date      int64     `json:"date"`
	Start     string    `json:"start"` // HHMM
	End       string    `json:"end"`   // HHMM
	Optional  bool      `json:"optional"`
	Remarks   string    `json:"remarks"`
	Editable  bool      `json:"editable"` // computed, not stored
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Attendance states recorded for a session.
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
	AttendanceExcused = "EXCUSED"
)

// CCAAttendance is one member's attendance at one session.
type CCAAttendance struct {
	SessionID string `json:"sessionID"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	Remarks   string `json:"remarks"`
}

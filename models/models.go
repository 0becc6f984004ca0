package models

// Status is the attendance mark for one student on one date.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

// Valid reports whether s is one of the two recognised marks.
func (s Status) Valid() bool {
	return s == Present || s == Absent
}

// Flip returns the other mark. Anything that is not Present flips to Present.
func (s Status) Flip() Status {
	if s == Present {
		return Absent
	}
	return Present
}

// Classroom represents a class and its roster
type Classroom struct {
	ID       int       `json:"id"`       // Assigned as max existing ID + 1
	Name     string    `json:"name"`     // Display name
	Students []Student `json:"students"` // Ordered roster
}

// Student represents a student
type Student struct {
	Name string `json:"name"`
	Roll string `json:"roll"` // Unique within a classroom, used as the attendance key
}

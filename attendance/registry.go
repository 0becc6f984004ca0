package attendance

import (
	"fmt"
	"strings"

	"attendance-server-go/models"
)

// Registry is the in-memory list of classrooms. It is not safe for
// concurrent use; App serializes access to it.
type Registry struct {
	classes []models.Classroom
}

// NewRegistry copies seed into a new registry. Seeds with non-positive or
// repeated class IDs, or repeated rolls inside one class, are rejected.
func NewRegistry(seed []models.Classroom) (*Registry, error) {
	r := &Registry{classes: make([]models.Classroom, 0, len(seed))}
	for _, c := range seed {
		if c.ID <= 0 {
			return nil, fmt.Errorf("seed class %q: id must be positive", c.Name)
		}
		if _, ok := r.Get(c.ID); ok {
			return nil, fmt.Errorf("seed class %d: %w", c.ID, ErrDuplicateClass)
		}
		rolls := make(map[string]struct{}, len(c.Students))
		for _, s := range c.Students {
			if _, dup := rolls[s.Roll]; dup {
				return nil, fmt.Errorf("seed class %d roll %q: %w", c.ID, s.Roll, ErrDuplicateRoll)
			}
			rolls[s.Roll] = struct{}{}
		}
		r.classes = append(r.classes, cloneClassroom(c))
	}
	return r, nil
}

func cloneClassroom(c models.Classroom) models.Classroom {
	students := make([]models.Student, len(c.Students))
	copy(students, c.Students)
	c.Students = students
	return c
}

func (r *Registry) index(id int) int {
	for i := range r.classes {
		if r.classes[i].ID == id {
			return i
		}
	}
	return -1
}

// Classes returns a copy of every classroom in insertion order.
func (r *Registry) Classes() []models.Classroom {
	out := make([]models.Classroom, len(r.classes))
	for i, c := range r.classes {
		out[i] = cloneClassroom(c)
	}
	return out
}

// Get returns a copy of the classroom with the given id.
func (r *Registry) Get(id int) (models.Classroom, bool) {
	i := r.index(id)
	if i < 0 {
		return models.Classroom{}, false
	}
	return cloneClassroom(r.classes[i]), true
}

// FirstID is the id of the first classroom, or 0 when the registry is empty.
func (r *Registry) FirstID() int {
	if len(r.classes) == 0 {
		return 0
	}
	return r.classes[0].ID
}

// NextID is the id Add will assign: max(existing)+1, or 1 when empty.
func (r *Registry) NextID() int {
	id := 1
	for _, c := range r.classes {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	return id
}

// FirstIDExcept is FirstID as it would be once id is removed.
func (r *Registry) FirstIDExcept(id int) int {
	for _, c := range r.classes {
		if c.ID != id {
			return c.ID
		}
	}
	return 0
}

// Add appends a classroom with id max(existing)+1, or 1 when empty.
func (r *Registry) Add(name string) (models.Classroom, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Classroom{}, ErrBlankClassName
	}
	c := models.Classroom{ID: r.NextID(), Name: name, Students: []models.Student{}}
	r.classes = append(r.classes, c)
	return cloneClassroom(c), nil
}

// Remove deletes the classroom with the given id.
func (r *Registry) Remove(id int) error {
	i := r.index(id)
	if i < 0 {
		return ErrClassNotFound
	}
	r.classes = append(r.classes[:i], r.classes[i+1:]...)
	return nil
}

// AddStudent appends a trimmed student to the classroom's roster.
func (r *Registry) AddStudent(classID int, name, roll string) (models.Student, error) {
	name, roll = strings.TrimSpace(name), strings.TrimSpace(roll)
	if name == "" || roll == "" {
		return models.Student{}, ErrBlankStudent
	}
	i := r.index(classID)
	if i < 0 {
		return models.Student{}, ErrClassNotFound
	}
	for _, s := range r.classes[i].Students {
		if s.Roll == roll {
			return models.Student{}, fmt.Errorf("%w: %q", ErrDuplicateRoll, roll)
		}
	}
	s := models.Student{Name: name, Roll: roll}
	r.classes[i].Students = append(r.classes[i].Students, s)
	return s, nil
}

// RemoveStudent drops the student with the given roll.
func (r *Registry) RemoveStudent(classID int, roll string) error {
	i := r.index(classID)
	if i < 0 {
		return ErrClassNotFound
	}
	students := r.classes[i].Students
	kept := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.Roll != roll {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(students) {
		return ErrStudentNotFound
	}
	r.classes[i].Students = kept
	return nil
}

// ReplaceRoster swaps the whole roster. Nothing from the old roster is kept.
func (r *Registry) ReplaceRoster(classID int, students []models.Student) error {
	i := r.index(classID)
	if i < 0 {
		return ErrClassNotFound
	}
	roster := make([]models.Student, len(students))
	copy(roster, students)
	r.classes[i].Students = roster
	return nil
}

// FilterStudents keeps students whose "name roll" contains query,
// ignoring case. An empty query keeps everyone.
func FilterStudents(students []models.Student, query string) []models.Student {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if q == "" || strings.Contains(strings.ToLower(s.Name+" "+s.Roll), q) {
			out = append(out, s)
		}
	}
	return out
}

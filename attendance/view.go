package attendance

import (
	"sort"

	"attendance-server-go/models"
)

// View is the working attendance copy for one classroom: ISO date -> roll -> status.
type View map[string]map[string]models.Status

// Status returns the mark for (iso, roll), Absent when unset.
func (v View) Status(iso, roll string) models.Status {
	if st, ok := v[iso][roll]; ok {
		return st
	}
	return models.Absent
}

// Toggle flips the mark for (iso, roll) and returns the new value.
func (v View) Toggle(iso, roll string) models.Status {
	next := v.Status(iso, roll).Flip()
	if v[iso] == nil {
		v[iso] = make(map[string]models.Status)
	}
	v[iso][roll] = next
	return next
}

// MarkAll overwrites each listed date with status for every roster student.
// Rolls not on the roster are dropped from those dates.
func (v View) MarkAll(isos []string, roster []models.Student, status models.Status) {
	for _, iso := range isos {
		day := make(map[string]models.Status, len(roster))
		for _, s := range roster {
			day[s.Roll] = status
		}
		v[iso] = day
	}
}

// PurgeRoll removes roll from every date.
func (v View) PurgeRoll(roll string) {
	for _, day := range v {
		delete(day, roll)
	}
}

// Clone returns a deep copy.
func (v View) Clone() View {
	out := make(View, len(v))
	for iso, day := range v {
		cp := make(map[string]models.Status, len(day))
		for roll, st := range day {
			cp[roll] = st
		}
		out[iso] = cp
	}
	return out
}

// Dates lists the view's ISO keys in ascending order.
func (v View) Dates() []string {
	out := make([]string, 0, len(v))
	for iso := range v {
		out = append(out, iso)
	}
	sort.Strings(out)
	return out
}

package attendance

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"attendance-server-go/models"
	"attendance-server-go/spreadsheet"
)

// State is a read-only snapshot of the app.
type State struct {
	ActiveClassID int               `json:"activeClassId"`
	ActiveClass   *models.Classroom `json:"activeClass"`
	Dates         []string          `json:"dates"`
	View          View              `json:"view"`
}

// SaveResult reports what Save wrote.
type SaveResult struct {
	ClassID   int    `json:"classId"`
	ClassName string `json:"className"`
	Dates     int    `json:"dates"`
	Message   string `json:"message"`
}

// App holds the classroom registry, the date selection and the working
// attendance view for the active classroom. Every method runs under one
// mutex so each operation is applied whole, as if from a single event loop.
type App struct {
	mu sync.Mutex

	registry *Registry
	store    *Store
	log      *zap.Logger
	now      func() time.Time

	activeID int
	dates    []time.Time
	view     View
}

// NewApp activates the first classroom of registry with an empty date selection.
func NewApp(registry *Registry, store *Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		registry: registry,
		store:    store,
		log:      log,
		now:      time.Now,
		activeID: registry.FirstID(),
		dates:    []time.Time{},
		view:     View{},
	}
}

// SetClock overrides the clock used for export filenames.
func (a *App) SetClock(now func() time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.now = now
}

// --- snapshots ---

// Classes returns a copy of every classroom.
func (a *App) Classes() []models.Classroom {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Classes()
}

// Class returns a copy of one classroom.
func (a *App) Class(id int) (models.Classroom, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(id)
	if !ok {
		return models.Classroom{}, ErrClassNotFound
	}
	return c, nil
}

// Students lists a classroom's roster filtered by query (see FilterStudents).
func (a *App) Students(classID int, query string) ([]models.Student, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(classID)
	if !ok {
		return nil, ErrClassNotFound
	}
	return FilterStudents(c.Students, query), nil
}

// State snapshots the active class, the date selection and the working view.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := State{
		ActiveClassID: a.activeID,
		Dates:         ISODates(a.dates),
		View:          a.view.Clone(),
	}
	if c, ok := a.registry.Get(a.activeID); ok {
		st.ActiveClass = &c
	}
	return st
}

// --- view loading ---

// reload rebuilds the working view from storage for classID and dates and
// only then commits all three, so a storage failure changes nothing.
// Unsaved edits of the previous context are discarded.
func (a *App) reload(ctx context.Context, classID int, dates []time.Time) error {
	view, err := a.store.Slice(ctx, classID, ISODates(dates))
	if err != nil {
		return err
	}
	a.activeID, a.dates, a.view = classID, dates, view
	return nil
}

// Reload discards unsaved edits and rereads the current context.
func (a *App) Reload(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reload(ctx, a.activeID, a.dates)
}

// SelectClassroom makes id the active classroom and reloads the view.
func (a *App) SelectClassroom(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.registry.Get(id); !ok {
		return ErrClassNotFound
	}
	return a.reload(ctx, id, a.dates)
}

// SelectDates replaces the date selection and reloads the view.
func (a *App) SelectDates(ctx context.Context, dates []time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reload(ctx, a.activeID, NormalizeDates(dates))
}

// --- classrooms ---

// AddClassroom creates a classroom and makes it active. The new view is
// read before the registry changes, so a storage failure adds nothing.
func (a *App) AddClassroom(ctx context.Context, name string) (models.Classroom, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		return models.Classroom{}, ErrBlankClassName
	}
	view, err := a.store.Slice(ctx, a.registry.NextID(), ISODates(a.dates))
	if err != nil {
		return models.Classroom{}, err
	}
	c, err := a.registry.Add(name)
	if err != nil {
		return models.Classroom{}, err
	}
	a.activeID, a.view = c.ID, view
	a.log.Info("class added", zap.Int("classId", c.ID), zap.String("name", c.Name))
	return c, nil
}

// RemoveClassroom deletes a classroom and its saved attendance. If it was
// active, the first remaining classroom (or none) becomes active. The
// fallback view is read and the saved records purged before the registry
// changes; any storage failure leaves the app as it was.
func (a *App) RemoveClassroom(ctx context.Context, id int, confirmed bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.registry.Get(id); !ok {
		return ErrClassNotFound
	}
	if !confirmed {
		return ErrNotConfirmed
	}

	nextID, nextView := a.activeID, a.view
	if a.activeID == id {
		nextID = a.registry.FirstIDExcept(id)
		view, err := a.store.Slice(ctx, nextID, ISODates(a.dates))
		if err != nil {
			return err
		}
		nextView = view
	}
	if err := a.store.PurgeClass(ctx, id); err != nil {
		return err
	}
	if err := a.registry.Remove(id); err != nil {
		return err
	}
	a.activeID, a.view = nextID, nextView
	a.log.Info("class removed", zap.Int("classId", id), zap.Int("activeClassId", nextID))
	return nil
}

// --- students ---

// AddStudent appends a student to a classroom's roster.
func (a *App) AddStudent(classID int, name, roll string) (models.Student, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.AddStudent(classID, name, roll)
}

// RemoveStudent drops a student and, for the active classroom, purges the
// roll from every date of the working view. Storage keeps the roll until
// the next save of those dates.
func (a *App) RemoveStudent(classID int, roll string, confirmed bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(classID)
	if !ok {
		return ErrClassNotFound
	}
	if !hasRoll(c.Students, roll) {
		return ErrStudentNotFound
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	if err := a.registry.RemoveStudent(classID, roll); err != nil {
		return err
	}
	if classID == a.activeID {
		a.view.PurgeRoll(roll)
	}
	return nil
}

func hasRoll(students []models.Student, roll string) bool {
	for _, s := range students {
		if s.Roll == roll {
			return true
		}
	}
	return false
}

// --- marking ---

// Toggle flips the mark of roll on iso in the working view.
func (a *App) Toggle(iso, roll string) (models.Status, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(a.activeID)
	if !ok {
		return "", ErrNoActiveClass
	}
	if _, ok := a.view[iso]; !ok {
		return "", fmt.Errorf("%w: %s", ErrDateNotSelected, iso)
	}
	if !hasRoll(c.Students, roll) {
		return "", ErrStudentNotFound
	}
	return a.view.Toggle(iso, roll), nil
}

// MarkAll sets every enrolled student to status on every selected date.
func (a *App) MarkAll(status models.Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(a.activeID)
	if !ok {
		return ErrNoActiveClass
	}
	a.view.MarkAll(ISODates(a.dates), c.Students, status)
	return nil
}

// Save merges the working view into storage for the selected dates only.
func (a *App) Save(ctx context.Context) (SaveResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.registry.Get(a.activeID)
	if !ok {
		return SaveResult{}, ErrNoActiveClass
	}
	if err := a.store.Merge(ctx, c.ID, a.view); err != nil {
		return SaveResult{}, err
	}
	res := SaveResult{
		ClassID:   c.ID,
		ClassName: c.Name,
		Dates:     len(a.view),
		Message:   fmt.Sprintf("Saved attendance for %s (%d dates)", c.Name, len(a.view)),
	}
	a.log.Info("attendance saved", zap.Int("classId", c.ID), zap.Strings("dates", a.view.Dates()))
	return res, nil
}

// --- spreadsheets ---

// Export renders the working view of the active classroom. The caller must
// Close the returned workbook.
func (a *App) Export() (*excelize.File, string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, _ := a.registry.Get(a.activeID)
	f, err := spreadsheet.Export(c.Name, ISODates(a.dates), c.Students, a.view)
	if err != nil {
		return nil, "", err
	}
	return f, spreadsheet.ExportFilename(c.Name, a.now()), nil
}

// ImportRoster replaces the active classroom's roster with the accepted
// rows of the workbook read from r.
func (a *App) ImportRoster(r io.Reader) (spreadsheet.ImportResult, error) {
	res, err := spreadsheet.ParseRoster(r)
	if err != nil {
		return spreadsheet.ImportResult{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.registry.Get(a.activeID); !ok {
		return spreadsheet.ImportResult{}, ErrNoActiveClass
	}
	if err := a.registry.ReplaceRoster(a.activeID, res.Students); err != nil {
		return spreadsheet.ImportResult{}, err
	}
	a.log.Info("roster imported",
		zap.Int("classId", a.activeID),
		zap.Int("students", len(res.Students)),
		zap.Int("rejected", len(res.Rejected)))
	return res, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"task-planner/internal/calendar"
	"task-planner/internal/model"
)

var errStoreDown = errors.New("store down")

// fakeDB is an in-memory implementation of the planner stores.
type fakeDB struct {
	mu      sync.Mutex
	nextID  uint
	tasks   map[uint]model.Task
	planned map[uint]model.PlannedTask
	lists   map[uint]model.List

	// failOn makes the named operation return a store failure.
	failOn map[string]bool
	writes int
	reads  int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tasks:   make(map[uint]model.Task),
		planned: make(map[uint]model.PlannedTask),
		lists:   make(map[uint]model.List),
		failOn:  make(map[string]bool),
	}
}

func (db *fakeDB) id() uint {
	db.nextID++
	return db.nextID
}

func (db *fakeDB) fail(op string) error {
	if db.failOn[op] {
		return &model.StoreError{Op: op, Err: errStoreDown}
	}
	return nil
}

type fakeTasks struct{ db *fakeDB }
type fakePlanned struct{ db *fakeDB }
type fakeLists struct{ db *fakeDB }

func (db *fakeDB) taskStore() *fakeTasks { return &fakeTasks{db: db} }
func (db *fakeDB) plannedStore() *fakePlanned { return &fakePlanned{db: db} }
func (db *fakeDB) listStore() *fakeLists { return &fakeLists{db: db} }

// Tasks

func (f *fakeTasks) Create(_ context.Context, task *model.Task) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("create task"); err != nil {
		return err
	}
	f.db.writes++
	task.ID = f.db.id()
	f.db.tasks[task.ID] = *task
	return nil
}

func (f *fakeTasks) FindByID(_ context.Context, userID, taskID uint) (*model.Task, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("find task"); err != nil {
		return nil, err
	}
	f.db.reads++
	task, ok := f.db.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, fmt.Errorf("find task: %w", model.ErrNotFound)
	}
	return &task, nil
}

func (f *fakeTasks) List(_ context.Context, flt model.TaskFilter) ([]model.Task, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("list tasks"); err != nil {
		return nil, err
	}
	f.db.reads++
	var out []model.Task
	for id := uint(1); id <= f.db.nextID; id++ {
		task, ok := f.db.tasks[id]
		if !ok || task.UserID != flt.UserID {
			continue
		}
		if flt.ListID != nil && task.ListID != *flt.ListID {
			continue
		}
		if flt.Archived != nil && task.Archived != *flt.Archived {
			continue
		}
		if flt.DueDate != nil && (task.DueDate == nil || *task.DueDate != *flt.DueDate) {
			continue
		}
		if flt.DueDateBefore != nil && (task.DueDate == nil || !task.DueDate.Before(*flt.DueDateBefore)) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTasks) ListScheduledOn(_ context.Context, userID uint, day calendar.Day) ([]model.Task, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("list scheduled tasks"); err != nil {
		return nil, err
	}
	f.db.reads++
	var out []model.Task
	for id := uint(1); id <= f.db.nextID; id++ {
		entry, ok := f.db.planned[id]
		if !ok || entry.UserID != userID || entry.Date != day {
			continue
		}
		task, ok := f.db.tasks[entry.TaskID]
		if !ok || task.Archived {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (f *fakeTasks) Update(_ context.Context, userID, taskID uint, fields map[string]any) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("update task"); err != nil {
		return err
	}
	task, ok := f.db.tasks[taskID]
	if !ok || task.UserID != userID {
		return fmt.Errorf("update task: %w", model.ErrNotFound)
	}
	f.db.writes++
	for k, v := range fields {
		switch k {
		case "title":
			task.Title = v.(string)
		case "notes":
			task.Notes = v.(string)
		case "recurring":
			task.Recurring = v.(model.Recurring)
		case "archived":
			task.Archived = v.(bool)
		case "list_id":
			task.ListID = v.(uint)
		case "due_date":
			if v == nil {
				task.DueDate = nil
			} else {
				d := v.(calendar.Day)
				task.DueDate = &d
			}
		case "display_order":
			if v == nil {
				task.Order = nil
			} else {
				o := v.(int)
				task.Order = &o
			}
		default:
			return fmt.Errorf("fake: unknown task field %q", k)
		}
	}
	f.db.tasks[taskID] = task
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, userID, taskID uint) (*model.Task, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	task, ok := f.db.tasks[taskID]
	if !ok || task.UserID != userID {
		return nil, fmt.Errorf("delete task: %w", model.ErrNotFound)
	}
	f.db.writes++
	delete(f.db.tasks, taskID)
	for id, entry := range f.db.planned {
		if entry.TaskID == taskID {
			delete(f.db.planned, id)
		}
	}
	return &task, nil
}

// Planned entries

func (f *fakePlanned) Create(_ context.Context, entry *model.PlannedTask) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("create planned task"); err != nil {
		return err
	}
	for _, existing := range f.db.planned {
		if existing.TaskID == entry.TaskID && existing.Date == entry.Date {
			return fmt.Errorf("create planned task: %w", model.ErrConflict)
		}
	}
	f.db.writes++
	entry.ID = f.db.id()
	f.db.planned[entry.ID] = *entry
	return nil
}

func (f *fakePlanned) FindByID(_ context.Context, userID, id uint) (*model.PlannedTask, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	entry, ok := f.db.planned[id]
	if !ok || entry.UserID != userID {
		return nil, fmt.Errorf("find planned task: %w", model.ErrNotFound)
	}
	return &entry, nil
}

func (f *fakePlanned) List(_ context.Context, flt model.PlannedTaskFilter) ([]model.PlannedTask, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("list planned tasks"); err != nil {
		return nil, err
	}
	f.db.reads++
	var ids map[uint]bool
	if flt.TaskIDs != nil {
		ids = make(map[uint]bool, len(flt.TaskIDs))
		for _, id := range flt.TaskIDs {
			ids[id] = true
		}
	}
	var out []model.PlannedTask
	for id := uint(1); id <= f.db.nextID; id++ {
		entry, ok := f.db.planned[id]
		if !ok || entry.UserID != flt.UserID {
			continue
		}
		if ids != nil && !ids[entry.TaskID] {
			continue
		}
		if flt.Date != nil && entry.Date != *flt.Date {
			continue
		}
		if flt.CutoffGTE != nil && !entry.CompleteOn(*flt.CutoffGTE) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (f *fakePlanned) Update(_ context.Context, id uint, fields map[string]any) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.fail("update planned task"); err != nil {
		return err
	}
	entry, ok := f.db.planned[id]
	if !ok {
		return fmt.Errorf("update planned task: %w", model.ErrNotFound)
	}
	f.db.writes++
	for k, v := range fields {
		if k != "complete_up_to" {
			return fmt.Errorf("fake: unknown planned field %q", k)
		}
		if v == nil {
			entry.CompleteUpTo = nil
		} else {
			d := v.(calendar.Day)
			entry.CompleteUpTo = &d
		}
	}
	f.db.planned[id] = entry
	return nil
}

func (f *fakePlanned) Delete(_ context.Context, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.planned[id]; !ok {
		return fmt.Errorf("delete planned task: %w", model.ErrNotFound)
	}
	f.db.writes++
	delete(f.db.planned, id)
	return nil
}

// Lists

func (f *fakeLists) Create(_ context.Context, list *model.List) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.lists {
		if existing.UserID == list.UserID && existing.Name == list.Name {
			return fmt.Errorf("create list: %w", model.ErrConflict)
		}
	}
	list.ID = f.db.id()
	f.db.lists[list.ID] = *list
	return nil
}

func (f *fakeLists) GetOrCreate(ctx context.Context, userID uint, name string, recurring model.Recurring) (*model.List, error) {
	f.db.mu.Lock()
	for _, existing := range f.db.lists {
		if existing.UserID == userID && existing.Name == name {
			f.db.mu.Unlock()
			return &existing, nil
		}
	}
	f.db.mu.Unlock()
	list := model.List{UserID: userID, Name: name, RecurringDefault: recurring}
	if err := f.Create(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (f *fakeLists) ListByUser(_ context.Context, userID uint) ([]model.List, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []model.List
	for id := uint(1); id <= f.db.nextID; id++ {
		if list, ok := f.db.lists[id]; ok && list.UserID == userID {
			out = append(out, list)
		}
	}
	return out, nil
}

func (f *fakeLists) GetByID(_ context.Context, userID, id uint) (*model.List, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	list, ok := f.db.lists[id]
	if !ok || list.UserID != userID {
		return nil, fmt.Errorf("find list: %w", model.ErrNotFound)
	}
	return &list, nil
}

func (f *fakeLists) Update(_ context.Context, userID, id uint, fields map[string]any) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	list, ok := f.db.lists[id]
	if !ok || list.UserID != userID {
		return fmt.Errorf("update list: %w", model.ErrNotFound)
	}
	if name, ok := fields["name"].(string); ok {
		list.Name = name
	}
	f.db.lists[id] = list
	return nil
}

func (f *fakeLists) Delete(_ context.Context, userID, id uint) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	list, ok := f.db.lists[id]
	if !ok || list.UserID != userID {
		return fmt.Errorf("delete list: %w", model.ErrNotFound)
	}
	for taskID, task := range f.db.tasks {
		if task.ListID != id {
			continue
		}
		delete(f.db.tasks, taskID)
		for entryID, entry := range f.db.planned {
			if entry.TaskID == taskID {
				delete(f.db.planned, entryID)
			}
		}
	}
	delete(f.db.lists, id)
	return nil
}

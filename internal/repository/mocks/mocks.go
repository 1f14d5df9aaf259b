// Package mocks provides in-memory repository implementations for
// service tests.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oakfield/care-api/internal/model"
	"github.com/oakfield/care-api/internal/repository"
	apperrors "github.com/oakfield/care-api/pkg/errors"
)

type PatientRepository struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]*model.Patient
}

var _ repository.PatientRepository = (*PatientRepository)(nil)

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: make(map[uuid.UUID]*model.Patient)}
}

func (m *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.patients {
		if existing.PatientNumber == p.PatientNumber {
			return apperrors.Conflict("patient number already in use")
		}
	}
	p.CreatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient")
	}
	return p, nil
}

func (m *PatientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (m *PatientRepository) Search(ctx context.Context, term string) ([]*model.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	term = strings.ToLower(term)
	var out []*model.Patient
	for _, p := range m.patients {
		haystack := strings.ToLower(p.PatientNumber + " " + p.FirstName + " " + p.LastName + " " + p.RoomNumber)
		if strings.Contains(haystack, term) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (m *PatientRepository) FilterByStage(ctx context.Context, stage model.DementiaStage) ([]*model.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Patient
	for _, p := range m.patients {
		if p.DementiaStage == stage {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *PatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.patients[id]
	return ok, nil
}

type MedicationRepository struct {
	mu              sync.RWMutex
	meds            map[uuid.UUID]*model.Medication
	order           []uuid.UUID
	administrations []*model.Administration
}

var _ repository.MedicationRepository = (*MedicationRepository)(nil)

func NewMedicationRepository() *MedicationRepository {
	return &MedicationRepository{meds: make(map[uuid.UUID]*model.Medication)}
}

func (m *MedicationRepository) Create(ctx context.Context, med *model.Medication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med.CreatedAt = time.Now()
	m.meds[med.ID] = med
	m.order = append(m.order, med.ID)
	return nil
}

func (m *MedicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	med, ok := m.meds[id]
	if !ok {
		return nil, apperrors.NotFound("medication")
	}
	return med, nil
}

func (m *MedicationRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	med, ok := m.meds[id]
	if !ok {
		return apperrors.NotFound("medication")
	}
	med.Active = active
	return nil
}

func (m *MedicationRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Medication
	for _, id := range m.order {
		med := m.meds[id]
		if med.PatientID != patientID {
			continue
		}
		if activeOnly && !med.Active {
			continue
		}
		out = append(out, med)
	}
	sortByTime(out)
	return out, nil
}

func (m *MedicationRepository) ListActive(ctx context.Context) ([]*model.Medication, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Medication
	for _, id := range m.order {
		if med := m.meds[id]; med.Active {
			out = append(out, med)
		}
	}
	sortByTime(out)
	return out, nil
}

// sortByTime mirrors the query ordering: time of day ascending, ties in
// insertion order.
func sortByTime(meds []*model.Medication) {
	sort.SliceStable(meds, func(i, j int) bool {
		return meds[i].TimeOfDay < meds[j].TimeOfDay
	})
}

func (m *MedicationRepository) CreateAdministration(ctx context.Context, adm *model.Administration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	adm.CreatedAt = time.Now()
	m.administrations = append(m.administrations, adm)
	return nil
}

func (m *MedicationRepository) ListAdministrations(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.Administration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Administration
	for _, adm := range m.administrations {
		if adm.PatientID != patientID {
			continue
		}
		if dateRange != nil && !dateRange.IsZero() && !dateRange.Contains(adm.GivenDate) {
			continue
		}
		out = append(out, adm)
	}
	return out, nil
}

type TaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*model.Task
	order []uuid.UUID
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{tasks: make(map[uuid.UUID]*model.Task)}
}

func (m *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.CreatedAt = time.Now()
	m.tasks[task.ID] = task
	m.order = append(m.order, task.ID)
	return nil
}

func (m *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, apperrors.NotFound("task")
	}
	return task, nil
}

func (m *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return apperrors.NotFound("task")
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return apperrors.NotFound("task")
	}
	delete(m.tasks, id)
	return nil
}

func (m *TaskRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Task
	for _, id := range m.order {
		if task, ok := m.tasks[id]; ok && task.PatientID == patientID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (m *TaskRepository) ResetRecurring(ctx context.Context, patientID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, task := range m.tasks {
		if task.PatientID == patientID && task.Recurring && task.Completed {
			task.Completed = false
			task.CompletedAt = nil
			task.CompletedBy = nil
			n++
		}
	}
	return n, nil
}

func (m *TaskRepository) MarkAllComplete(ctx context.Context, patientID uuid.UUID, actor string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for _, task := range m.tasks {
		if task.PatientID == patientID && !task.Completed {
			task.Completed = true
			task.CompletedAt = &now
			by := actor
			task.CompletedBy = &by
			n++
		}
	}
	return n, nil
}

type DailyLogRepository struct {
	mu   sync.RWMutex
	logs []*model.DailyLog
}

var _ repository.DailyLogRepository = (*DailyLogRepository)(nil)

func NewDailyLogRepository() *DailyLogRepository {
	return &DailyLogRepository{}
}

func (m *DailyLogRepository) Create(ctx context.Context, log *model.DailyLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.CreatedAt = time.Now()
	m.logs = append(m.logs, log)
	return nil
}

func (m *DailyLogRepository) Get(ctx context.Context, id uuid.UUID) (*model.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, log := range m.logs {
		if log.ID == id {
			return log, nil
		}
	}
	return nil, apperrors.NotFound("daily log")
}

func (m *DailyLogRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, dateRange *model.DateRange) ([]*model.DailyLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.DailyLog
	for _, log := range m.logs {
		if log.PatientID != patientID {
			continue
		}
		if dateRange != nil && !dateRange.IsZero() && !dateRange.Contains(log.LogDate) {
			continue
		}
		out = append(out, log)
	}
	// Newest first, matching the query ordering.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LogDate != out[j].LogDate {
			return out[i].LogDate > out[j].LogDate
		}
		return out[i].LogTime > out[j].LogTime
	})
	return out, nil
}

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*model.MemoryItem
	order []uuid.UUID
}

var _ repository.MemoryRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[uuid.UUID]*model.MemoryItem)}
}

func (m *MemoryRepository) Create(ctx context.Context, item *model.MemoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*model.MemoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, apperrors.NotFound("memory item")
	}
	return item, nil
}

func (m *MemoryRepository) List(ctx context.Context, patientID uuid.UUID, category string) ([]*model.MemoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.MemoryItem
	for i := len(m.order) - 1; i >= 0; i-- {
		item, ok := m.items[m.order[i]]
		if !ok || item.PatientID != patientID {
			continue
		}
		if category != "" && category != "All" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperrors.NotFound("memory item")
	}
	delete(m.items, id)
	return nil
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
	links map[uuid.UUID]map[uuid.UUID]bool

	// Patients backs ListFamilyPatients; tests that exercise the
	// family listing point it at the shared patient mock.
	Patients *PatientRepository
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*model.User),
		links: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperrors.Conflict("email already registered")
		}
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *UserRepository) CreateFamilyLink(ctx context.Context, link *model.FamilyLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links[link.UserID] == nil {
		m.links[link.UserID] = make(map[uuid.UUID]bool)
	}
	m.links[link.UserID][link.PatientID] = true
	return nil
}

func (m *UserRepository) HasFamilyLink(ctx context.Context, userID, patientID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.links[userID][patientID], nil
}

func (m *UserRepository) ListFamilyPatients(ctx context.Context, userID uuid.UUID) ([]*model.Patient, error) {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.links[userID]))
	for id := range m.links[userID] {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	out := make([]*model.Patient, 0, len(ids))
	if m.Patients == nil {
		return out, nil
	}
	for _, id := range ids {
		p, err := m.Patients.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

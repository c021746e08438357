package service

import (
	"context"
	"sync"
	"time"

	"github.com/edulink/school-system/internal/core/domain"
	"github.com/edulink/school-system/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) put(a *domain.Account) {
	if a.ID == "" {
		a.ID = "id_" + a.Username
	}
	r.accounts[a.Username] = cloneAccount(a)
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrAccountExists
	}
	copy := cloneAccount(account)
	if copy.ID == "" {
		copy.ID = "id_" + copy.Username
	}
	r.accounts[copy.Username] = cloneAccount(copy)
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) RecordLoginFailure(_ context.Context, username string, attempts int, at time.Time, deactivate bool) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.FailedLoginAttempts = attempts
	a.LastLoginAttempt = &at
	if deactivate {
		a.IsActive = false
	}
	return nil
}

func (r *stubAccountRepo) RecordLoginSuccess(_ context.Context, username string, at time.Time) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.FailedLoginAttempts = 0
	a.LastLoginAttempt = &at
	return nil
}

func (r *stubAccountRepo) SetTokenRevokedAt(_ context.Context, username string, at time.Time) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.TokenRevokedAt = &at
	return nil
}

type stubAccountCache struct {
	entries map[string]*domain.Account
	getErr  error
	gets    int
	puts    int
}

func newStubAccountCache() *stubAccountCache {
	return &stubAccountCache{entries: make(map[string]*domain.Account)}
}

func (c *stubAccountCache) Get(_ context.Context, username string) (*domain.Account, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	a, ok := c.entries[username]
	if !ok {
		return nil, false, nil
	}
	return cloneAccount(a), true, nil
}

func (c *stubAccountCache) Put(_ context.Context, account *domain.Account) error {
	c.puts++
	c.entries[account.Username] = cloneAccount(account)
	return nil
}

func (c *stubAccountCache) Invalidate(_ context.Context, username string) error {
	delete(c.entries, username)
	return nil
}

type stubBindingRepo struct {
	staff      map[string][]*domain.StaffRecord
	professors map[string]*domain.ProfessorRecord
	students   map[string]*domain.StudentRecord
}

func newStubBindingRepo() *stubBindingRepo {
	return &stubBindingRepo{
		staff:      make(map[string][]*domain.StaffRecord),
		professors: make(map[string]*domain.ProfessorRecord),
		students:   make(map[string]*domain.StudentRecord),
	}
}

func (r *stubBindingRepo) FindStaffByAccount(_ context.Context, accountID string) ([]*domain.StaffRecord, error) {
	recs := r.staff[accountID]
	if len(recs) == 0 {
		return nil, domain.ErrBindingNotFound
	}
	return recs, nil
}

func (r *stubBindingRepo) FindProfessorByAccount(_ context.Context, accountID string) (*domain.ProfessorRecord, error) {
	rec, ok := r.professors[accountID]
	if !ok {
		return nil, domain.ErrBindingNotFound
	}
	return rec, nil
}

func (r *stubBindingRepo) FindStudentByAccount(_ context.Context, accountID string) (*domain.StudentRecord, error) {
	rec, ok := r.students[accountID]
	if !ok {
		return nil, domain.ErrBindingNotFound
	}
	return rec, nil
}

func (r *stubBindingRepo) CreateStaff(_ context.Context, rec *domain.StaffRecord) (*domain.StaffRecord, error) {
	r.staff[rec.AccountID] = append(r.staff[rec.AccountID], rec)
	return rec, nil
}

func (r *stubBindingRepo) CreateProfessor(_ context.Context, rec *domain.ProfessorRecord) (*domain.ProfessorRecord, error) {
	r.professors[rec.AccountID] = rec
	return rec, nil
}

func (r *stubBindingRepo) CreateStudent(_ context.Context, rec *domain.StudentRecord) (*domain.StudentRecord, error) {
	r.students[rec.AccountID] = rec
	return rec, nil
}

type stubSchoolRepo struct {
	byID    map[string]*domain.School
	byAdmin map[string]*domain.School
}

func newStubSchoolRepo() *stubSchoolRepo {
	return &stubSchoolRepo{
		byID:    make(map[string]*domain.School),
		byAdmin: make(map[string]*domain.School),
	}
}

func (r *stubSchoolRepo) add(s *domain.School) {
	r.byID[s.ID] = s
	if s.AdminAccountID != "" {
		r.byAdmin[s.AdminAccountID] = s
	}
}

func (r *stubSchoolRepo) Create(_ context.Context, school *domain.School) (*domain.School, error) {
	if school.ID == "" {
		school.ID = "school_" + school.Name
	}
	r.add(school)
	return school, nil
}

func (r *stubSchoolRepo) FindByID(_ context.Context, id string) (*domain.School, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSchoolNotFound
	}
	return s, nil
}

func (r *stubSchoolRepo) FindByAdminAccountID(_ context.Context, accountID string) (*domain.School, error) {
	s, ok := r.byAdmin[accountID]
	if !ok {
		return nil, domain.ErrSchoolNotFound
	}
	return s, nil
}

func (r *stubSchoolRepo) List(_ context.Context) ([]*domain.School, error) {
	out := make([]*domain.School, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

type stubAuditRecorder struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (r *stubAuditRecorder) Record(event ports.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *stubAuditRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

func (r *stubAuditRecorder) has(action string) bool {
	for _, a := range r.actions() {
		if a == action {
			return true
		}
	}
	return false
}

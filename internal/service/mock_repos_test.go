package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/budyakovan/shift-tracker-bot/internal/model"
	"github.com/budyakovan/shift-tracker-bot/internal/repository"
)

// ── shared fixture ──

type mockRepos struct {
	user           *mockUserRepo
	profile        *mockProfileRepo
	group          *mockGroupRepo
	duty           *mockDutyRepo
	exclusion      *mockExclusionRepo
	rank           *mockRankRepo
	assignment     *mockAssignmentRepo
	dutyCursor     *mockDutyCursorRepo
	location       *mockLocationRepo
	locationCursor *mockLocationCursorRepo
	calendar       *mockCalendarRepo
}

func newMockRepository() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		user:           newMockUserRepo(),
		profile:        newMockProfileRepo(),
		group:          newMockGroupRepo(),
		duty:           newMockDutyRepo(),
		exclusion:      newMockExclusionRepo(),
		rank:           newMockRankRepo(),
		assignment:     newMockAssignmentRepo(),
		dutyCursor:     newMockDutyCursorRepo(),
		location:       newMockLocationRepo(),
		locationCursor: newMockLocationCursorRepo(),
		calendar:       newMockCalendarRepo(),
	}
	repo := &repository.Repository{
		User:           m.user,
		Profile:        m.profile,
		Group:          m.group,
		Duty:           m.duty,
		Exclusion:      m.exclusion,
		Rank:           m.rank,
		Assignment:     m.assignment,
		DutyCursor:     m.dutyCursor,
		Location:       m.location,
		LocationCursor: m.locationCursor,
		Calendar:       m.calendar,
	}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[int64]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, userID int64) (*model.User, error) {
	if u, ok := m.users[userID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.UserID] = user
	return nil
}

// ── Mock TimeProfileRepository ──

type mockProfileRepo struct {
	profiles map[string]*model.TimeProfile
	nextID   int64
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*model.TimeProfile), nextID: 1}
}

func (m *mockProfileRepo) Upsert(_ context.Context, profile *model.TimeProfile) error {
	if existing, ok := m.profiles[profile.Key]; ok {
		profile.ID = existing.ID
	} else {
		profile.ID = m.nextID
		m.nextID++
	}
	m.profiles[profile.Key] = profile
	return nil
}

func (m *mockProfileRepo) GetByKey(_ context.Context, key string) (*model.TimeProfile, error) {
	if p, ok := m.profiles[key]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) List(_ context.Context) ([]model.TimeProfile, error) {
	var result []model.TimeProfile
	for _, p := range m.profiles {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *mockProfileRepo) Delete(_ context.Context, key string) error {
	delete(m.profiles, key)
	return nil
}

func (m *mockProfileRepo) ReplaceSlots(_ context.Context, profileID int64, slots []model.TimeSlot) error {
	for _, p := range m.profiles {
		if p.ID == profileID {
			for i := range slots {
				slots[i].ProfileID = profileID
			}
			p.Slots = slots
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockProfileRepo) ListSlots(_ context.Context, profileID int64) ([]model.TimeSlot, error) {
	for _, p := range m.profiles {
		if p.ID == profileID {
			return p.Slots, nil
		}
	}
	return nil, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.Group
	members map[int64][]model.GroupMember
	nextID  int64
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{
		groups:  make(map[string]*model.Group),
		members: make(map[int64][]model.GroupMember),
		nextID:  1,
	}
}

func (m *mockGroupRepo) Upsert(_ context.Context, group *model.Group) error {
	if existing, ok := m.groups[group.Key]; ok {
		group.ID = existing.ID
	} else {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.Key] = group
	return nil
}

func (m *mockGroupRepo) GetByKey(_ context.Context, key string) (*model.Group, error) {
	if g, ok := m.groups[key]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

func (m *mockGroupRepo) Delete(_ context.Context, key string) error {
	if g, ok := m.groups[key]; ok {
		delete(m.members, g.ID)
	}
	delete(m.groups, key)
	return nil
}

func (m *mockGroupRepo) AddMember(_ context.Context, groupID, userID int64, basePos, rank int) error {
	for i, mem := range m.members[groupID] {
		if mem.UserID == userID {
			m.members[groupID][i].BasePos = basePos
			m.members[groupID][i].Rank = rank
			return nil
		}
	}
	m.members[groupID] = append(m.members[groupID], model.GroupMember{
		GroupID: groupID, UserID: userID, BasePos: basePos, Rank: rank,
	})
	return nil
}

func (m *mockGroupRepo) RemoveMember(_ context.Context, groupID, userID int64) error {
	rows := m.members[groupID]
	for i := range rows {
		if rows[i].UserID == userID {
			m.members[groupID] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockGroupRepo) ListMembers(_ context.Context, groupID int64) ([]model.GroupMember, error) {
	rows := append([]model.GroupMember(nil), m.members[groupID]...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BasePos != rows[j].BasePos {
			return rows[i].BasePos < rows[j].BasePos
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows, nil
}

// ── Mock DutyRepository ──

type mockDutyRepo struct {
	duties map[int64]*model.Duty
	nextID int64
}

func newMockDutyRepo() *mockDutyRepo {
	return &mockDutyRepo{duties: make(map[int64]*model.Duty), nextID: 1}
}

func (m *mockDutyRepo) Create(_ context.Context, duty *model.Duty) error {
	for _, d := range m.duties {
		if duty.Code != "" && d.Code == duty.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	duty.ID = m.nextID
	m.nextID++
	m.duties[duty.ID] = duty
	return nil
}

func (m *mockDutyRepo) GetByID(_ context.Context, id int64) (*model.Duty, error) {
	if d, ok := m.duties[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDutyRepo) ListActive(_ context.Context, kind string) ([]model.Duty, error) {
	var result []model.Duty
	for _, d := range m.duties {
		if !d.IsActive {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockDutyRepo) List(_ context.Context) ([]model.Duty, error) {
	var result []model.Duty
	for _, d := range m.duties {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockDutyRepo) Update(_ context.Context, duty *model.Duty) error {
	if _, ok := m.duties[duty.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.duties[duty.ID] = duty
	return nil
}

func (m *mockDutyRepo) Delete(_ context.Context, id int64) error {
	delete(m.duties, id)
	return nil
}

// ── Mock ExclusionRepository ──

type mockExclusionRepo struct {
	exclusions map[int64]*model.Exclusion
	nextID     int64
}

func newMockExclusionRepo() *mockExclusionRepo {
	return &mockExclusionRepo{exclusions: make(map[int64]*model.Exclusion), nextID: 1}
}

func (m *mockExclusionRepo) Add(_ context.Context, excl *model.Exclusion) error {
	excl.ID = m.nextID
	m.nextID++
	m.exclusions[excl.ID] = excl
	return nil
}

func (m *mockExclusionRepo) Remove(_ context.Context, id int64) (bool, error) {
	if _, ok := m.exclusions[id]; !ok {
		return false, nil
	}
	delete(m.exclusions, id)
	return true, nil
}

func (m *mockExclusionRepo) List(_ context.Context, onDate *time.Time, groupKey string, userID int64) ([]model.Exclusion, error) {
	var result []model.Exclusion
	for _, e := range m.exclusions {
		if onDate != nil && !e.Covers(*onDate) {
			continue
		}
		if groupKey != "" && e.GroupKey != nil && *e.GroupKey != groupKey {
			continue
		}
		if userID != 0 && e.UserID != userID {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockExclusionRepo) IsExcluded(_ context.Context, groupKey string, userID int64, onDate time.Time) (bool, error) {
	for _, e := range m.exclusions {
		if e.UserID != userID {
			continue
		}
		if e.GroupKey != nil && *e.GroupKey != groupKey {
			continue
		}
		if e.Covers(onDate) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock RankRepository ──

type rankKeyT struct {
	groupKey string
	userID   int64
}

type mockRankRepo struct {
	ranks map[rankKeyT]int
}

func newMockRankRepo() *mockRankRepo {
	return &mockRankRepo{ranks: make(map[rankKeyT]int)}
}

func (m *mockRankRepo) Set(_ context.Context, override *model.RankOverride) error {
	m.ranks[rankKeyT{override.GroupKey, override.UserID}] = override.Rank
	return nil
}

func (m *mockRankRepo) Get(_ context.Context, groupKey string, userID int64) (*int, error) {
	if r, ok := m.ranks[rankKeyT{groupKey, userID}]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *mockRankRepo) ListByGroup(_ context.Context, groupKey string) ([]model.RankOverride, error) {
	var result []model.RankOverride
	for k, r := range m.ranks {
		if k.groupKey != groupKey {
			continue
		}
		result = append(result, model.RankOverride{GroupKey: k.groupKey, UserID: k.userID, Rank: r})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock AssignmentRepository ──

type assignmentTriple struct {
	dutyID   int64
	groupKey string
	date     string
}

type mockAssignmentRepo struct {
	rows      map[assignmentTriple]*model.DutyAssignment
	failWrite bool
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{rows: make(map[assignmentTriple]*model.DutyAssignment)}
}

func (m *mockAssignmentRepo) Upsert(_ context.Context, a *model.DutyAssignment) error {
	if m.failWrite {
		return gorm.ErrInvalidData
	}
	key := assignmentTriple{a.DutyID, a.GroupKey, a.OnDate.Format("2006-01-02")}
	m.rows[key] = a
	return nil
}

func (m *mockAssignmentRepo) ListByDate(_ context.Context, onDate time.Time, groupKey string) ([]model.DutyAssignment, error) {
	var result []model.DutyAssignment
	for key, a := range m.rows {
		if key.date != onDate.Format("2006-01-02") {
			continue
		}
		if groupKey != "" && key.groupKey != groupKey {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyID < result[j].DutyID })
	return result, nil
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, userID int64, from, to time.Time) ([]model.DutyAssignment, error) {
	var result []model.DutyAssignment
	for _, a := range m.rows {
		if a.UserID != userID || a.OnDate.Before(from) || a.OnDate.After(to) {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockAssignmentRepo) CountSince(_ context.Context, groupKey string, dutyID int64, since time.Time) (map[int64]int, error) {
	counts := make(map[int64]int)
	for key, a := range m.rows {
		if key.groupKey != groupKey || key.dutyID != dutyID || a.OnDate.Before(since) {
			continue
		}
		counts[a.UserID]++
	}
	return counts, nil
}

// ── Mock DutyCursorRepository ──

type cursorKeyT struct {
	groupKey string
	dutyID   int64
}

type mockDutyCursorRepo struct {
	cursors map[cursorKeyT]int64
}

func newMockDutyCursorRepo() *mockDutyCursorRepo {
	return &mockDutyCursorRepo{cursors: make(map[cursorKeyT]int64)}
}

func (m *mockDutyCursorRepo) Get(_ context.Context, groupKey string, dutyID int64) (*int64, error) {
	if v, ok := m.cursors[cursorKeyT{groupKey, dutyID}]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *mockDutyCursorRepo) Set(_ context.Context, groupKey string, dutyID int64, lastUserID int64) error {
	m.cursors[cursorKeyT{groupKey, dutyID}] = lastUserID
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	rows []model.LocationAssignment
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{}
}

func (m *mockLocationRepo) ClearAndWrite(_ context.Context, groupKey string, onDate time.Time, rows []model.LocationAssignment) (int, error) {
	var kept []model.LocationAssignment
	for _, r := range m.rows {
		if r.GroupKey == groupKey && r.OnDate.Equal(onDate) {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = append(kept, rows...)
	return len(rows), nil
}

func (m *mockLocationRepo) ListByDate(_ context.Context, onDate time.Time, groupKey string) ([]model.LocationAssignment, error) {
	var result []model.LocationAssignment
	for _, r := range m.rows {
		if !r.OnDate.Equal(onDate) {
			continue
		}
		if groupKey != "" && r.GroupKey != groupKey {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockLocationRepo) OfficeDayCount(_ context.Context, groupKey string, userID int64, until *time.Time) (int, error) {
	count := 0
	for _, r := range m.rows {
		if r.GroupKey != groupKey || r.UserID != userID || r.Location != model.LocationOffice {
			continue
		}
		if until != nil && r.OnDate.After(*until) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockLocationRepo) OfficeReport(_ context.Context, groupKey string, from, to time.Time) ([]repository.OfficeDays, error) {
	counts := make(map[int64]int)
	for _, r := range m.rows {
		if r.GroupKey != groupKey || r.Location != model.LocationOffice {
			continue
		}
		if r.OnDate.Before(from) || r.OnDate.After(to) {
			continue
		}
		counts[r.UserID]++
	}
	var result []repository.OfficeDays
	for uid, n := range counts {
		result = append(result, repository.OfficeDays{UserID: uid, OfficeDays: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].OfficeDays != result[j].OfficeDays {
			return result[i].OfficeDays > result[j].OfficeDays
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

// ── Mock LocationCursorRepository ──

type mockLocationCursorRepo struct {
	cursors map[string]int64
}

func newMockLocationCursorRepo() *mockLocationCursorRepo {
	return &mockLocationCursorRepo{cursors: make(map[string]int64)}
}

func (m *mockLocationCursorRepo) Get(_ context.Context, groupKey string) (*int64, error) {
	if v, ok := m.cursors[groupKey]; ok {
		return &v, nil
	}
	return nil, nil
}

func (m *mockLocationCursorRepo) Set(_ context.Context, groupKey string, lastUserID int64) error {
	m.cursors[groupKey] = lastUserID
	return nil
}

// ── Mock CalendarRepository ──

type mockCalendarRepo struct {
	holidays map[string]bool // "2006-01-02" → is_holiday
}

func newMockCalendarRepo() *mockCalendarRepo {
	return &mockCalendarRepo{holidays: make(map[string]bool)}
}

func (m *mockCalendarRepo) IsHolidayOrWeekend(_ context.Context, d time.Time) (bool, error) {
	if isHoliday, ok := m.holidays[d.Format("2006-01-02")]; ok {
		return isHoliday, nil
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday, nil
}

func (m *mockCalendarRepo) SetHoliday(_ context.Context, d time.Time, isHoliday bool) error {
	m.holidays[d.Format("2006-01-02")] = isHoliday
	return nil
}

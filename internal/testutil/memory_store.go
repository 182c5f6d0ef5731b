package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"toolinventory/internal/domain"
	"toolinventory/internal/repository"
)

// MemoryStore is an in-process repository.ToolStore that mirrors the constraints of the SQL schema.
type MemoryStore struct {
	mu         sync.Mutex
	clock      time.Time
	nextID     int64
	categories map[int64]string
	tools      []*domain.Tool
	usageLogs  []domain.UsageLog

	// Err, when set, is returned by every operation.
	Err error
	// CreateErr and UpdateErr are returned by the corresponding write, after any pre-checks ran.
	CreateErr error
	UpdateErr error

	SnapshotCalls int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clock:      time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		categories: map[int64]string{},
	}
}

func (s *MemoryStore) AddCategory(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[id] = name
}

// AddTool stores a copy of tool as-is, assigning id and timestamps when missing.
func (s *MemoryStore) AddTool(tool domain.Tool) *domain.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tool.ID == 0 {
		s.nextID++
		tool.ID = s.nextID
	} else if tool.ID > s.nextID {
		s.nextID = tool.ID
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = s.tick()
		tool.UpdatedAt = tool.CreatedAt
	}
	tool.Category = s.categories[tool.CategoryID]
	s.tools = append(s.tools, &tool)
	return s.copyOf(&tool)
}

func (s *MemoryStore) AddUsageLog(toolID int64, sessionDate time.Time, minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usageLogs = append(s.usageLogs, domain.UsageLog{ToolID: toolID, SessionDate: sessionDate, UsageMinutes: minutes})
}

func (s *MemoryStore) CountTools(_ context.Context, filter domain.ToolFilter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return len(s.match(filter)), nil
}

func (s *MemoryStore) FindTools(_ context.Context, filter domain.ToolFilter, order domain.ToolOrder, offset, limit int) ([]*domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	matched := s.match(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if order.Desc {
			a, b = b, a
		}
		switch order.Key {
		case domain.SortByName:
			return a.Name < b.Name
		case domain.SortByCost:
			return a.MonthlyCost.LessThan(b.MonthlyCost)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	result := []*domain.Tool{}
	for i := offset; i < len(matched) && len(result) < limit; i++ {
		result = append(result, s.copyOf(matched[i]))
	}
	return result, nil
}

func (s *MemoryStore) FindToolByID(_ context.Context, id int64) (*domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if tool := s.byID(id); tool != nil {
		return s.copyOf(tool), nil
	}
	return nil, repository.ErrToolNotFound
}

func (s *MemoryStore) FindToolByName(_ context.Context, name string) (*domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, tool := range s.tools {
		if tool.Name == name {
			return s.copyOf(tool), nil
		}
	}
	return nil, repository.ErrToolNotFound
}

func (s *MemoryStore) CategoryExists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.categories[id]
	return ok, nil
}

func (s *MemoryStore) SummarizeUsage(_ context.Context, toolID int64, from, to time.Time) (domain.UsageSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return domain.UsageSummary{}, s.Err
	}

	var summary domain.UsageSummary
	for _, log := range s.usageLogs {
		if log.ToolID != toolID || log.SessionDate.Before(from) || !log.SessionDate.Before(to) {
			continue
		}
		summary.Sessions++
		summary.TotalMinutes += float64(log.UsageMinutes)
	}
	return summary, nil
}

func (s *MemoryStore) CreateTool(_ context.Context, tool *domain.Tool) (*domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	for _, existing := range s.tools {
		if existing.Name == tool.Name {
			return nil, repository.ErrDuplicateToolName
		}
	}
	if _, ok := s.categories[tool.CategoryID]; !ok {
		return nil, repository.ErrCategoryNotFound
	}

	created := *tool
	s.nextID++
	created.ID = s.nextID
	created.CreatedAt = s.tick()
	created.UpdatedAt = created.CreatedAt
	s.tools = append(s.tools, &created)
	return s.copyOf(&created), nil
}

func (s *MemoryStore) UpdateTool(_ context.Context, id int64, patch domain.ToolPatch) (*domain.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}

	tool := s.byID(id)
	if tool == nil {
		return nil, repository.ErrToolNotFound
	}
	if patch.Name != nil {
		for _, existing := range s.tools {
			if existing.ID != id && existing.Name == *patch.Name {
				return nil, repository.ErrDuplicateToolName
			}
		}
	}
	if patch.CategoryID != nil {
		if _, ok := s.categories[*patch.CategoryID]; !ok {
			return nil, repository.ErrCategoryNotFound
		}
	}

	updated := *tool
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Description != nil {
		updated.Description = patch.Description
	}
	if patch.Vendor != nil {
		updated.Vendor = *patch.Vendor
	}
	if patch.WebsiteURL != nil {
		updated.WebsiteURL = patch.WebsiteURL
	}
	if patch.CategoryID != nil {
		updated.CategoryID = *patch.CategoryID
	}
	if patch.MonthlyCost != nil {
		updated.MonthlyCost = *patch.MonthlyCost
	}
	if patch.OwnerDepartment != nil {
		updated.OwnerDepartment = *patch.OwnerDepartment
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	updated.UpdatedAt = s.tick()
	*tool = updated
	return s.copyOf(tool), nil
}

// ReadSnapshot reads the live data; tests do not write concurrently with a snapshot.
func (s *MemoryStore) ReadSnapshot(ctx context.Context, fn func(repository.ToolReader) error) error {
	s.mu.Lock()
	s.SnapshotCalls++
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(s)
}

func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MemoryStore) byID(id int64) *domain.Tool {
	for _, tool := range s.tools {
		if tool.ID == id {
			return tool
		}
	}
	return nil
}

func (s *MemoryStore) copyOf(tool *domain.Tool) *domain.Tool {
	c := *tool
	c.Category = s.categories[c.CategoryID]
	return &c
}

func (s *MemoryStore) match(filter domain.ToolFilter) []*domain.Tool {
	var matched []*domain.Tool
	for _, tool := range s.tools {
		if filter.Department != nil && tool.OwnerDepartment != *filter.Department {
			continue
		}
		if filter.Status != nil && tool.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && s.categories[tool.CategoryID] != *filter.Category {
			continue
		}
		if filter.MinCost != nil && tool.MonthlyCost.LessThan(*filter.MinCost) {
			continue
		}
		if filter.MaxCost != nil && tool.MonthlyCost.GreaterThan(*filter.MaxCost) {
			continue
		}
		matched = append(matched, tool)
	}
	return matched
}

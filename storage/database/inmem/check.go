package inmem

import (
	"context"
	"sort"

	"github.com/normoctl/normocontrol/core/check"
)

type checkRepository struct {
	db *DB
}

var _ check.Repository = (*checkRepository)(nil)

func NewCheckRepository(db *DB) *checkRepository {
	return &checkRepository{db: db}
}

func (repo checkRepository) CreateCheck(ctx context.Context, chk check.Check) (check.Check, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	chk.ID = repo.db.nextID()
	if chk.StudentUsername == "" {
		if usr, ok := repo.db.users[chk.StudentID]; ok {
			chk.StudentUsername = usr.Username
		}
	}
	repo.db.checks[chk.ID] = chk
	return chk, nil
}

func (repo checkRepository) GetCheckByID(ctx context.Context, id int) (check.Check, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if chk, ok := repo.db.checks[id]; ok {
		return chk, nil
	}
	return check.Check{}, check.ErrNotFound
}

func (repo checkRepository) GetActiveCheckByStudentID(ctx context.Context, studentID int) (check.Check, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, chk := range repo.db.checks {
		if chk.StudentID == studentID && !chk.IsArchived {
			return chk, nil
		}
	}
	return check.Check{}, check.ErrNotFound
}

func (repo checkRepository) FilterChecks(ctx context.Context, filter check.QueryFilter) ([]check.Check, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	checks := make([]check.Check, 0)
	for _, chk := range repo.db.checks {
		if chk.IsArchived != filter.Archived {
			continue
		}
		if filter.StudentUsername != "" && chk.StudentUsername != filter.StudentUsername {
			continue
		}
		checks = append(checks, chk)
	}
	sort.Slice(checks, func(i, j int) bool {
		if checks[i].CreatedAt.Equal(checks[j].CreatedAt) {
			return checks[i].ID < checks[j].ID
		}
		return checks[i].CreatedAt.Before(checks[j].CreatedAt)
	})
	return checks, nil
}

func (repo checkRepository) SetCheckArchived(ctx context.Context, id int, archived bool) (check.Check, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	chk, ok := repo.db.checks[id]
	if !ok {
		return check.Check{}, check.ErrNotFound
	}
	chk.IsArchived = archived
	repo.db.checks[id] = chk
	return chk, nil
}

func (repo checkRepository) DeleteCheck(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	delete(repo.db.checks, id)
	for rID, rmk := range repo.db.remarks {
		if rmk.CheckID == id {
			delete(repo.db.remarks, rID)
		}
	}
	return nil
}

func (repo checkRepository) CreateRemark(ctx context.Context, rmk check.Remark) (check.Remark, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	rmk.ID = repo.db.nextID()
	repo.db.remarks[rmk.ID] = rmk
	return rmk, nil
}

func (repo checkRepository) GetRemarkByID(ctx context.Context, id int) (check.Remark, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if rmk, ok := repo.db.remarks[id]; ok {
		return rmk, nil
	}
	return check.Remark{}, check.ErrRemarkNotFound
}

func (repo checkRepository) QueryRemarksByCheckID(ctx context.Context, checkID int) ([]check.Remark, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	remarks := make([]check.Remark, 0)
	for _, rmk := range repo.db.remarks {
		if rmk.CheckID == checkID {
			remarks = append(remarks, rmk)
		}
	}
	sort.Slice(remarks, func(i, j int) bool {
		if remarks[i].CreatedAt.Equal(remarks[j].CreatedAt) {
			return remarks[i].ID < remarks[j].ID
		}
		return remarks[i].CreatedAt.Before(remarks[j].CreatedAt)
	})
	return remarks, nil
}

func (repo checkRepository) UpdateRemark(ctx context.Context, rmk check.Remark) (check.Remark, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.remarks[rmk.ID]; !ok {
		return check.Remark{}, check.ErrRemarkNotFound
	}
	repo.db.remarks[rmk.ID] = rmk
	return rmk, nil
}

func (repo checkRepository) DeleteRemark(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	delete(repo.db.remarks, id)
	return nil
}

package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/teamtacles/teamtacles-api/dao/model"
)

// ProjectStore owns project rows and the project_members join table.
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// GetByID loads a project with its creator and team. Callers translate
// gorm.ErrRecordNotFound into the domain taxonomy.
func (s *ProjectStore) GetByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := s.db.WithContext(ctx).
		Preload("Creator.Roles").
		Preload("Team").
		First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *ProjectStore) Create(ctx context.Context, project *model.Project) error {
	return s.db.WithContext(ctx).Create(project).Error
}

// Update persists scalar fields. Team changes go through ReplaceTeam.
func (s *ProjectStore) Update(ctx context.Context, project *model.Project) error {
	return s.db.WithContext(ctx).Omit("Team", "Creator").Save(project).Error
}

// ReplaceTeam swaps the membership set in full.
func (s *ProjectStore) ReplaceTeam(ctx context.Context, project *model.Project, team []model.User) error {
	if err := s.db.WithContext(ctx).Model(project).Association("Team").Replace(team); err != nil {
		return err
	}
	project.Team = team
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Project{}, id).Error
}

// ListAll returns every project, paginated. Admin view.
func (s *ProjectStore) ListAll(ctx context.Context, offset, limit int) ([]model.Project, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Project{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Team").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, count, nil
}

// ListAccessible returns the union of projects the user created and projects
// where the user is a team member, paginated with a stable order.
func (s *ProjectStore) ListAccessible(ctx context.Context, userID uint, offset, limit int) ([]model.Project, int64, error) {
	memberOf := s.db.Table("project_members").
		Select("project_id").
		Where("user_id = ?", userID)
	cond := s.db.Where("creator_id = ?", userID).Or("id IN (?)", memberOf)

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Project{}).
		Where(cond).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Team").
		Where(cond).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}
	return projects, count, nil
}

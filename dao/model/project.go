package model

import "gorm.io/gorm"

type Project struct {
	gorm.Model
	Name        string  `gorm:"type:varchar(32);not null;comment:项目名"`
	Description *string `gorm:"type:varchar(128);comment:项目描述"`
	Status      Status  `gorm:"not null;comment:项目状态 (active, inactive)"`
	// CreatorID is immutable after creation. The creator is privileged on
	// the project even when not listed in Team.
	CreatorID uint `gorm:"not null;index;comment:创建者"`
	Creator   User
	Team      []User `gorm:"many2many:project_members"`
}

// IsTeamMember reports whether the user appears in the explicit team set.
func (p *Project) IsTeamMember(userID uint) bool {
	for i := range p.Team {
		if p.Team[i].ID == userID {
			return true
		}
	}
	return false
}

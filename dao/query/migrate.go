package query

import (
	"gorm.io/gorm"

	"github.com/teamtacles/teamtacles-api/dao/model"
)

// Migrate creates the schema and seeds the closed role table.
// The role set is fixed; unknown role names must never resolve at runtime.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Project{},
	); err != nil {
		return err
	}

	for _, name := range []model.RoleName{model.RoleNameUser, model.RoleNameAdmin} {
		role := model.Role{Name: name}
		if err := db.Where(&model.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

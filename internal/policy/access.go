// Package policy holds the pure authorization decision function. Every
// orchestrator operation consults it before mutating state; it never
// mutates anything itself and never fails for well-formed input.
package policy

import (
	"github.com/teamtacles/teamtacles-api/dao/model"
)

// Principal is the authenticated identity and role set carried by a request.
type Principal struct {
	UserID   uint
	Username string
	Roles    []model.RoleName
}

type AccessPolicy struct{}

func New() AccessPolicy { return AccessPolicy{} }

// CanAdminister is true iff the principal holds the administrative role.
func (AccessPolicy) CanAdminister(p Principal) bool {
	for _, role := range p.Roles {
		if role == model.RoleNameAdmin {
			return true
		}
	}
	return false
}

// CanModify is true iff the principal is the project's creator or an admin.
// Team membership alone is insufficient.
func (a AccessPolicy) CanModify(p Principal, project *model.Project) bool {
	return p.UserID == project.CreatorID || a.CanAdminister(p)
}

// CanView is true iff the principal is the creator, a team member, or an
// admin. The creator is privileged even when not listed in the team.
func (a AccessPolicy) CanView(p Principal, project *model.Project) bool {
	return p.UserID == project.CreatorID ||
		project.IsTeamMember(p.UserID) ||
		a.CanAdminister(p)
}

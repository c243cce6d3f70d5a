package workspace

import "github.com/parallelhq/parallel-cli/internal/api"

// Roster holds the team membership panel state. Membership is
// refreshed wholesale each poll; role changes are applied optimistically
// and corrected by the next snapshot if the write failed.
type Roster struct {
	members      []api.TeamMember
	changingRole bool
}

// NewRoster returns an empty roster.
func NewRoster() *Roster { return &Roster{} }

// Members returns the roster in backend order.
func (r *Roster) Members() []api.TeamMember { return r.members }

// ChangingRole reports whether a role update is in flight.
func (r *Roster) ChangingRole() bool { return r.changingRole }

// Replace commits a polled snapshot wholesale.
func (r *Roster) Replace(members []api.TeamMember) {
	r.members = members
}

// BeginRoleChange applies the new role locally and takes the busy
// flag. The role moves to the front of the member's ordered role list.
func (r *Roster) BeginRoleChange(memberID, role string) bool {
	if r.changingRole || role == "" {
		return false
	}
	for i := range r.members {
		if r.members[i].ID != memberID {
			continue
		}
		roles := []string{role}
		for _, existing := range r.members[i].Roles {
			if existing != role {
				roles = append(roles, existing)
			}
		}
		r.members[i].Roles = roles
		r.changingRole = true
		return true
	}
	return false
}

// FinishRoleChange releases the busy flag. Role updates have no
// sensible mock, so the caller surfaces err to the user; the next
// roster snapshot restores the authoritative role either way.
func (r *Roster) FinishRoleChange() {
	r.changingRole = false
}

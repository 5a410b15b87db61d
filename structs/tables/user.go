package tables

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleWaitStaff      Role = "wait_staff"
	RoleKitchenStaff   Role = "kitchen_staff"
	RoleCustomerTablet Role = "customer_tablet"
)

var AllRoles = []Role{RoleAdmin, RoleManager, RoleWaitStaff, RoleKitchenStaff, RoleCustomerTablet}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(AllRoles, r)
}

// User is an identity record. ActiveSession is a weak reference to the
// session currently bound to a customer tablet; it is nil for every other
// role and for tablets without an open seating.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	Id            uuid.UUID  `json:"id" bun:"id,pk,type:uuid"`
	Username      string     `json:"username" bun:"username,unique,notnull"`
	Role          Role       `json:"role" bun:"role,notnull"`
	ActiveSession *uuid.UUID `json:"active_session" bun:"active_session,type:uuid,nullzero"`
	CreatedAt     time.Time  `json:"created_at" bun:"created_at,notnull,default:current_timestamp"`
}

func (u *User) IsTablet() bool {
	return u.Role == RoleCustomerTablet
}

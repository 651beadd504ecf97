package model

import "github.com/secmon-lab/riskaccept/pkg/domain/types"

// User is the collaborator user record, read for role checks and
// notification addressing
type User struct {
	ID    types.UserID
	Name  string
	Email string `masq:"secret"`
	Role  types.Role
}

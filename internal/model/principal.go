package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleForeman    Role = "FOREMAN"
	RoleContractor Role = "CONTRACTOR"
)

// Principal is the authenticated caller extracted from the bearer token.
type Principal struct {
	UserID         uuid.UUID
	Role           Role
	ContractorName string
}

func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
func (p Principal) IsForeman() bool    { return p.Role == RoleForeman }
func (p Principal) IsContractor() bool { return p.Role == RoleContractor }

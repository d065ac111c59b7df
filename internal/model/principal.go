package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (p Principal) IsViewer() bool {
	return p.Role == "VIEWER"
}

func (p Principal) IsAnalyst() bool {
	return p.Role == "ANALYST"
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

package service

import "github.com/nurpe/wasteops-admin/internal/model"

// UpdateResult is the outcome of a field-level update. NoOp is set when the
// request supplied nothing the actor may change; Data is then the unmodified
// entity.
type UpdateResult struct {
	Kind                 model.EntityKind
	Data                 interface{}
	Mutated              []Field
	Denied               []Field
	NoOp                 bool
	NotificationsEmitted int
}

type CreateResult struct {
	Data                 interface{}
	NotificationsEmitted int
}

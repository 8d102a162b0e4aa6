package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type Decision bool

const (
	Deny  Decision = false
	Allow Decision = true
)

func (d Decision) String() string {
	if d {
		return "ALLOW"
	}
	return "DENY"
}

// AccessCheck carries everything the matrix needs to rule on one field of one
// entity. OwnerID is the reporter for reports and the assigned collector for
// schedules; CurrentStatus is the stored status before the update.
type AccessCheck struct {
	Principal     model.Principal
	Kind          model.EntityKind
	OwnerID       *uuid.UUID
	CurrentStatus string
}

func (c AccessCheck) ownedByActor() bool {
	return c.OwnerID != nil && *c.OwnerID == c.Principal.UserID && c.Principal.UserID != uuid.Nil
}

// Authorize rules on a single requested field. value is the parsed new value;
// it only matters for status fields whose admission depends on the transition.
func Authorize(check AccessCheck, field Field, value interface{}) Decision {
	switch check.Kind {
	case model.EntityReport:
		return authorizeReport(check, field)
	case model.EntitySchedule:
		return authorizeSchedule(check, field, value)
	case model.EntityBin:
		return authorizeBin(check, field)
	}
	return Deny
}

func authorizeReport(check AccessCheck, field Field) Decision {
	switch field {
	case FieldBinID, FieldIssueType, FieldDescription, FieldPriority:
		switch check.Principal.Role {
		case model.RoleAdmin:
			return Allow
		case model.RoleCitizen:
			if check.ownedByActor() && !model.ReportStatus(check.CurrentStatus).Terminal() {
				return Allow
			}
			return Deny
		case model.RoleCollector:
			return Deny
		}
	case FieldStatus, FieldResolutionNotes:
		switch check.Principal.Role {
		case model.RoleAdmin, model.RoleCollector:
			return Allow
		case model.RoleCitizen:
			return Deny
		}
	}
	return Deny
}

func authorizeSchedule(check AccessCheck, field Field, value interface{}) Decision {
	switch check.Principal.Role {
	case model.RoleAdmin:
		for _, f := range scheduleFields {
			if f == field {
				return Allow
			}
		}
		return Deny
	case model.RoleCollector:
		if field != FieldStatus || !check.ownedByActor() {
			return Deny
		}
		next, ok := value.(model.ScheduleStatus)
		if !ok {
			return Deny
		}
		if ScheduleAdvanceAllowed(model.ScheduleStatus(check.CurrentStatus), next) {
			return Allow
		}
		return Deny
	case model.RoleCitizen:
		return Deny
	}
	return Deny
}

func authorizeBin(check AccessCheck, field Field) Decision {
	switch check.Principal.Role {
	case model.RoleAdmin, model.RoleCollector:
		for _, f := range binFields {
			if f == field {
				return Allow
			}
		}
		return Deny
	case model.RoleCitizen:
		return Deny
	}
	return Deny
}

var schedulePipelineRank = map[model.ScheduleStatus]int{
	model.ScheduleStatusPending:    0,
	model.ScheduleStatusInProgress: 1,
	model.ScheduleStatusCompleted:  2,
}

// ScheduleAdvanceAllowed reports whether a collector may move a schedule from
// one status to another: forward along pending -> in_progress -> completed,
// or to cancelled while the schedule is still open. Re-submitting the current
// status is accepted.
func ScheduleAdvanceAllowed(from, to model.ScheduleStatus) bool {
	if from == to {
		return true
	}
	if to == model.ScheduleStatusCancelled {
		return from == model.ScheduleStatusPending || from == model.ScheduleStatusInProgress
	}
	fromRank, okFrom := schedulePipelineRank[from]
	toRank, okTo := schedulePipelineRank[to]
	return okFrom && okTo && toRank > fromRank
}

// Admit filters requested into the admitted field set. Denied fields are
// returned so callers can log what was dropped.
func Admit(check AccessCheck, requested FieldSet) (FieldSet, []Field) {
	admitted := make(FieldSet, len(requested))
	var denied []Field
	for _, field := range requested.Fields() {
		value := requested[field]
		if Authorize(check, field, value) == Allow {
			admitted[field] = value
			continue
		}
		denied = append(denied, field)
	}
	return admitted, denied
}

// AdmitRaw parses raw and filters it through the matrix. A malformed value
// fails the request only when the principal may write that field; otherwise it
// is reported as denied like any other dropped field.
func AdmitRaw(check AccessCheck, raw map[string]interface{}) (FieldSet, []Field, error) {
	requested, invalid, err := parseRequested(check.Kind, raw)
	if err != nil {
		return nil, nil, err
	}
	var unwritable []Field
	for _, field := range fieldsFor(check.Kind) {
		fieldErr, ok := invalid[field]
		if !ok {
			continue
		}
		if mayWrite(check, field) {
			return nil, nil, fieldErr
		}
		unwritable = append(unwritable, field)
	}

	admitted, denied := Admit(check, requested)
	if len(unwritable) > 0 {
		denied = append(denied, unwritable...)
		sort.Slice(denied, func(i, j int) bool { return denied[i] < denied[j] })
	}
	return admitted, denied, nil
}

// mayWrite rules on a field regardless of its new value. A collector's own
// schedule status counts as writable even though the transition is checked
// later.
func mayWrite(check AccessCheck, field Field) bool {
	if check.Kind == model.EntitySchedule && field == FieldStatus && check.Principal.IsCollector() {
		return check.ownedByActor()
	}
	return Authorize(check, field, nil) == Allow
}

// requireRole gates whole operations that are not field-filtered.
func requireRole(principal model.Principal, roles ...model.Role) error {
	if principal.HasRole(roles...) {
		return nil
	}
	return ErrPermissionDenied
}

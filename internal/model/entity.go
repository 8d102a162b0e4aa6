package model

type EntityKind string

const (
	EntityReport   EntityKind = "report"
	EntitySchedule EntityKind = "schedule"
	EntityBin      EntityKind = "bin"
)

func ParseEntityKind(raw string) (EntityKind, bool) {
	switch EntityKind(raw) {
	case EntityReport, EntitySchedule, EntityBin:
		return EntityKind(raw), true
	}
	return "", false
}

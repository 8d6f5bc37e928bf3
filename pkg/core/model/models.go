package model

import "time"

type Role string

const (
	RolePhD       Role = "PhD Student"
	RolePostDoc   Role = "Post-Doc"
	RoleUndergrad Role = "Undergraduate Student"
	RoleMasters   Role = "Masters Student"
	RoleFaculty   Role = "Faculty"
)

// Member represents a lab member from the roster config.
// Roster order is significant: it defines the rotation order.
type Member struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

type DutyType string

const (
	DutyPresentation DutyType = "presentation"
	DutyMaintenance  DutyType = "maintenance"
	DutySnacks       DutyType = "snacks"
)

// AllDuties lists the duty types in evaluation order.
var AllDuties = []DutyType{DutyPresentation, DutyMaintenance, DutySnacks}

func (d DutyType) IsValid() bool {
	return d == DutyPresentation || d == DutyMaintenance || d == DutySnacks
}

// DutySchedule describes when a duty fires and who is eligible for it.
type DutySchedule struct {
	Duty        DutyType
	FireWeekday int // Monday=0 .. Sunday=6
	Eligible    func(Role) bool
	// GroupRole is the role whose members rotate as one batch, empty when
	// the duty has no group mode.
	GroupRole Role
	// CheckBlackout enables holiday / Lab Citizen Day suppression.
	CheckBlackout bool
}

// Suppression names why a duty did not fire on its scheduled day.
type Suppression string

const (
	SuppressedNone       Suppression = "none"
	SuppressedHoliday    Suppression = "holiday"
	SuppressedCitizenDay Suppression = "citizen_day"
)

// RotationDecision is the outcome of evaluating one duty for one day.
// Exactly one of Fires=false or len(Selected)>0 holds.
type RotationDecision struct {
	Duty             DutyType
	Fires            bool
	SuppressedReason Suppression
	SuppressedLabel  string
	Selected         []Member
	NextTrackerValue string
	// EventDate is the date the duty is about: the meeting date for
	// presentation and snacks, the start of the maintenance window.
	EventDate time.Time
	// EventEndDate is set for duties with a date range (maintenance).
	EventEndDate time.Time
}

// RotationState is the persisted duty tracker: duty type to the id of the
// member the tracker last advanced to. Missing entries mean the duty has
// never been assigned.
type RotationState map[DutyType]string

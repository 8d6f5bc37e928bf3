package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/lfl-lab/dutybot/pkg/core/model"
)

const (
	botName           = "Lab Bot"
	meetingDateLayout = "Monday, January 02"

	presentationSubject = "Lab Meeting Presentation"
	maintenanceSubject  = "Lab Maintenance Reminder"
	snacksSubject       = "Lab Snacks Reminder"
)

var maintenanceInstructions = []string{
	"Schedule a liquid nitrogen fill up and refill the tank",
	"Purchase any outstanding item left on the purchasing wish list",
	"After you purchase something, post it on the #purchasing channel",
	"Check lab inventory: napkins, water filters, gloves, masks, printing supply, compressed air",
	"Check chemical inventory",
	"Assess water filter status",
	"Check cooling water temperature and pressure",
	"Fill up traps and dewars with LN2",
	"General cleanup of the lab (call people out if needed)",
	"Monitor waste labels and complete them if they are missing any information",
	"Issue a waste pick up request with EH&S if an accumulation date is almost 9 months old or waste must go ASAP",
	"Version control and back up the code base on GitHub",
}

var maintenanceSafetyReminders = []string{
	"🌳 Wear an O2 monitor while doing the LN2 fill up",
	"🚪 Keep the back room door open while doing the LN2 fill up",
	"🪤 Don't position yourself such that you are trapped by the dewar",
	"👖 Wear full pants on lab maintenance day",
	"🚫 Don't reuse gloves",
	"🦠 Don't touch non-contaminated items with gloves",
	"🧤 Wear thermal gloves when working with LN2",
	"🥼🥽 Wear safety coat and goggles",
	"👥 Use the buddy system if not comfortable doing a task alone",
}

func meetingSignature() string {
	return fmt.Sprintf("\n\nLooking forward to it 🤩,\n%s", botName)
}

func serviceSignature() string {
	return fmt.Sprintf("\n\nThank you for your service 🫡,\n%s", botName)
}

func presentationEmailBody(name string, meetingDate time.Time) string {
	return fmt.Sprintf(
		"Hello %s,\n\nYou are scheduled to present at next week's lab meeting - %s.%s",
		name, meetingDate.Format(meetingDateLayout), meetingSignature())
}

func maintenanceEmailBody(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThis is a reminder that next week it is your turn to do the lab maintenance. Please refer to the following checklist.\n\n", name)
	for _, instruction := range maintenanceInstructions {
		fmt.Fprintf(&b, "☐ %s\n", instruction)
	}
	b.WriteString("\n\nSome safety considerations from EH&S:\n")
	for _, reminder := range maintenanceSafetyReminders {
		fmt.Fprintf(&b, "- %s\n", reminder)
	}
	b.WriteString("\n")
	b.WriteString(serviceSignature())
	return b.String()
}

func snacksEmailBody(name string, meetingDate time.Time) string {
	return fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder for you to bring snacks for the lab meeting tomorrow (%s).%s",
		name, meetingDate.Format(meetingDateLayout), serviceSignature())
}

// chatSummary renders the one-line channel announcement for a firing duty.
func chatSummary(decision model.RotationDecision) string {
	switch decision.Duty {
	case model.DutyPresentation:
		if len(decision.Selected) > 1 {
			return fmt.Sprintf("Reminder: undergraduate group presentation at next week's lab meeting (%s).",
				decision.EventDate.Format(meetingDateLayout))
		}
		return fmt.Sprintf("Reminder: %s presents at next week's lab meeting (%s).",
			decision.Selected[0].Name, decision.EventDate.Format(meetingDateLayout))
	case model.DutyMaintenance:
		return fmt.Sprintf("Reminder: %s is on lab maintenance duty next week.", decision.Selected[0].Name)
	case model.DutySnacks:
		return fmt.Sprintf("Reminder: %s brings snacks for tomorrow's lab meeting (%s).",
			decision.Selected[0].Name, decision.EventDate.Format(meetingDateLayout))
	}
	return ""
}

package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/campus-helpdesk/backend/internal/storage/models"
)

// Map iteration order is randomized in Go, so directory and faculty
// listings walk sorted keys to keep responses stable between requests.
func sortedRoomKeys(directory map[string]models.RoomInfo) []string {
	keys := make([]string, 0, len(directory))
	for key := range directory {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sortedFacultyKeys(faculty map[string][]models.FacultyMember) []string {
	keys := make([]string, 0, len(faculty))
	for key := range faculty {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var roomTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`room\s*(?:no\.?\s*)?(\d+)`),
	regexp.MustCompile(`(\d{3})`),
	regexp.MustCompile(`(lab\s*\d+)`),
}

const roomListingLimit = 10

// roomLocation resolves a room query against the directory. It returns
// "" when the query has no extractable room token and is not a generic
// room question, so the caller falls through to the next branch.
func roomLocation(admin *models.AdminData, query string) string {
	if len(admin.RoomDirectory) == 0 {
		return ""
	}

	queryLower := strings.ToLower(query)

	var roomNum string
	for _, pattern := range roomTokenPatterns {
		if m := pattern.FindStringSubmatch(queryLower); m != nil {
			roomNum = m[1]
			break
		}
	}

	// A literal key mention wins over the regex extraction.
	for _, key := range sortedRoomKeys(admin.RoomDirectory) {
		if strings.Contains(queryLower, strings.ToLower(key)) {
			roomNum = key
			break
		}
	}

	if roomNum == "" {
		if containsAny(queryLower, []string{"room", "where", "location", "building"}) {
			return roomListing(admin.RoomDirectory)
		}
		return ""
	}

	for _, key := range sortedRoomKeys(admin.RoomDirectory) {
		if strings.EqualFold(key, roomNum) {
			info := admin.RoomDirectory[key]
			var b strings.Builder
			fmt.Fprintf(&b, "**Room %s**\n\n", key)
			fmt.Fprintf(&b, "- **Floor:** %s\n", info.Floor)
			fmt.Fprintf(&b, "- **Wing:** %s\n", info.Wing)
			fmt.Fprintf(&b, "- **Type:** %s\n", info.Type)
			fmt.Fprintf(&b, "- **Capacity:** %d students\n", info.Capacity)
			return b.String()
		}
	}

	return fmt.Sprintf("Room %s not found in directory. Please check with the admin office.", roomNum)
}

func roomListing(directory map[string]models.RoomInfo) string {
	var b strings.Builder
	b.WriteString("**ROOM DIRECTORY:**\n\n")
	for i, key := range sortedRoomKeys(directory) {
		if i >= roomListingLimit {
			break
		}
		info := directory[key]
		fmt.Fprintf(&b, "- **Room %s**: %s, %s (%s)\n", key, info.Floor, info.Wing, info.Type)
	}
	b.WriteString("\n...and more. Ask about a specific room number.")
	return b.String()
}

// todaysClasses always answers; missing profile or a free weekday
// degrade to an explanatory message rather than a miss.
func todaysClasses(admin *models.AdminData, profile *models.StudentProfile, weekday string) string {
	if profile == nil || profile.Dept == "" {
		return "Please set your profile (dept/sem/section) to see today's classes."
	}

	schedule, ok := admin.Timetables[profile.TimetableKey()]
	if !ok {
		return "No timetable found for your class."
	}

	classes, ok := schedule[weekday]
	if !ok {
		return fmt.Sprintf("No classes scheduled for today (%s).", weekday)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**TODAY'S CLASSES (%s)**\n", weekday)
	fmt.Fprintf(&b, "%s | Sem %s | Sec %s\n\n", profile.DisplayName(), profile.Semester, profile.Section)
	writePeriodList(&b, classes)
	return b.String()
}

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// personalizedTimetable renders the full Monday-Friday schedule for the
// profile's class. Weekend entries in the data are never rendered.
func personalizedTimetable(admin *models.AdminData, profile *models.StudentProfile) string {
	key := profile.TimetableKey()
	schedule, ok := admin.Timetables[key]
	if !ok {
		return fmt.Sprintf(
			"No timetable found for %s Semester %s Section %s.\n\nPlease contact the admin to add your timetable.",
			profile.DisplayName(), profile.Semester, profile.Section,
		)
	}

	lastUpdated := admin.LastUpdated
	if lastUpdated == "" {
		lastUpdated = "N/A"
	}

	var b strings.Builder
	b.WriteString("**YOUR TIMETABLE**\n")
	fmt.Fprintf(&b, "(%s | Sem %s | Sec %s)\n", profile.DisplayName(), profile.Semester, profile.Section)
	fmt.Fprintf(&b, "Last Updated: %s\n\n", lastUpdated)

	if len(admin.PeriodTimings) > 0 {
		b.WriteString("**Period Timings:**\n")
		for _, p := range admin.PeriodTimings {
			fmt.Fprintf(&b, "- Period %d: %s - %s\n", p.Period, p.Start, p.End)
		}
		b.WriteString("\n")
	}

	b.WriteString("**Weekly Schedule:**\n\n")
	for _, day := range weekdayOrder {
		classes, ok := schedule[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "**%s:**\n", day)
		writePeriodList(&b, classes)
		b.WriteString("\n")
	}

	return b.String()
}

// writePeriodList numbers each schedule entry as a double period:
// entry i covers periods 2i-1 to 2i.
func writePeriodList(b *strings.Builder, classes []string) {
	for i, class := range classes {
		fmt.Fprintf(b, "- Period %d-%d: %s\n", (i+1)*2-1, (i+1)*2, class)
	}
}

// studentNotifications filters notifications to those targeting the
// profile's dept/semester/section (or "all").
func studentNotifications(admin *models.AdminData, profile *models.StudentProfile) string {
	if profile == nil || profile.Dept == "" {
		return "Please set your profile to see notifications."
	}

	if len(admin.Notifications) == 0 {
		return "No notifications at the moment."
	}

	var mine []models.Notification
	for _, notif := range admin.Notifications {
		if targetMatches(notif.Target.Dept, profile.Dept) &&
			targetMatches(notif.Target.Semester, profile.Semester.String()) &&
			targetMatches(notif.Target.Section, profile.Section) {
			mine = append(mine, notif)
		}
	}

	if len(mine) == 0 {
		return "No notifications for you at the moment."
	}

	var b strings.Builder
	b.WriteString("**YOUR NOTIFICATIONS:**\n\n")
	for _, notif := range mine {
		priorityTag := ""
		if notif.Priority == "high" {
			priorityTag = "[IMPORTANT] "
		}
		notifType := notif.Type
		if notifType == "" {
			notifType = "info"
		}
		fmt.Fprintf(&b, "**%s%s** (%s)\n", priorityTag, notif.Title, strings.ToUpper(notifType))
		fmt.Fprintf(&b, "%s\n", notif.Message)
		fmt.Fprintf(&b, "Date: %s\n\n", notif.Date)
	}
	return b.String()
}

func targetMatches(target models.FlexString, value string) bool {
	return target.String() == "all" || target.String() == value
}

// examSchedule returns "" when no schedule is configured, letting the
// query fall through to later branches.
func examSchedule(admin *models.AdminData, profile *models.StudentProfile) string {
	exams := admin.ExamSchedule
	if exams == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("**EXAMINATION SCHEDULE:**\n\n")
	fmt.Fprintf(&b, "- Internal Exams: %s\n", orNA(exams.InternalExams))
	fmt.Fprintf(&b, "- Odd Semester Exams: %s\n", orNA(exams.OddSemesterExams))
	fmt.Fprintf(&b, "- Even Semester Exams: %s\n\n", orNA(exams.EvenSemesterExams))

	if len(exams.Upcoming) > 0 {
		b.WriteString("**Upcoming Exams:**\n")
		for _, exam := range exams.Upcoming {
			target := exam.Target
			if target == "" {
				target = "all"
			}
			if profile != nil && profile.Dept != "" {
				if target != "all" && !strings.Contains(target, profile.Dept) {
					continue
				}
			}
			fmt.Fprintf(&b, "- %s: %s\n", exam.Name, exam.Date)
		}
	}

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// facultyInfo lists the profile department's faculty in full, or a
// compact all-departments listing when the department is unknown.
func facultyInfo(admin *models.AdminData, profile *models.StudentProfile) string {
	if len(admin.Faculty) == 0 {
		return ""
	}

	dept := ""
	if profile != nil {
		dept = profile.Dept
	}

	if members, ok := admin.Faculty[dept]; ok && dept != "" {
		var b strings.Builder
		fmt.Fprintf(&b, "**%s FACULTY:**\n\n", profile.DisplayName())
		for _, f := range members {
			fmt.Fprintf(&b, "- **%s**\n", f.Name)
			fmt.Fprintf(&b, "  Subject: %s\n", f.Subject)
			fmt.Fprintf(&b, "  Cabin: %s\n\n", f.Cabin)
		}
		return b.String()
	}

	var b strings.Builder
	b.WriteString("**FACULTY INFORMATION:**\n\n")
	for _, deptName := range sortedFacultyKeys(admin.Faculty) {
		fmt.Fprintf(&b, "**%s Department:**\n", deptName)
		for _, f := range admin.Faculty[deptName] {
			fmt.Fprintf(&b, "- %s (%s)\n", f.Name, f.Subject)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// customSection answers from admin-defined FAQ blocks; a single keyword
// overlap is enough.
func customSection(admin *models.AdminData, userKeywords []string) string {
	for _, section := range admin.CustomSections {
		if keywordSetHasAny(userKeywords, section.Keywords) {
			name := section.Name
			if name == "" {
				name = "Information"
			}
			return fmt.Sprintf("**%s:**\n\n%s", strings.ToUpper(name), section.Content)
		}
	}
	return ""
}

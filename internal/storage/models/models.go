package models

import (
	"encoding/json"
	"time"
)

// Intent is a knowledge-base entry: example phrasings and the candidate
// replies the bot may pick from when one of them matches.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

type KnowledgeBase struct {
	Intents []Intent `json:"intents"`
}

// StudentProfile is caller-supplied context used to personalize lookups.
// It is never persisted.
// FlexString decodes from a JSON string or number. Profile semesters
// and notification targets arrive in both forms ("3", 3, "all").
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

type StudentProfile struct {
	Dept     string     `json:"dept"`
	DeptName string     `json:"deptName"`
	Semester FlexString `json:"semester"`
	Section  string     `json:"section"`
}

// TimetableKey builds the positional "{dept}_{semester}_{section}" key
// used by the admin panel. A profile with a missing field produces a key
// that cannot match any stored timetable, which is a lookup miss rather
// than an error.
func (p *StudentProfile) TimetableKey() string {
	return p.Dept + "_" + p.Semester.String() + "_" + p.Section
}

// DisplayName prefers the long department name when the frontend sent
// one.
func (p *StudentProfile) DisplayName() string {
	if p.DeptName != "" {
		return p.DeptName
	}
	return p.Dept
}

type RoomInfo struct {
	Floor    string `json:"floor"`
	Wing     string `json:"wing"`
	Type     string `json:"type"`
	Capacity int    `json:"capacity"`
}

type NotificationTarget struct {
	Dept     FlexString `json:"dept"`
	Semester FlexString `json:"semester"`
	Section  FlexString `json:"section"`
}

type Notification struct {
	Title    string             `json:"title"`
	Message  string             `json:"message"`
	Date     string             `json:"date"`
	Priority string             `json:"priority"`
	Type     string             `json:"type"`
	Target   NotificationTarget `json:"target"`
}

type UpcomingExam struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Target string `json:"target"`
}

type ExamSchedule struct {
	InternalExams     string         `json:"internal_exams"`
	OddSemesterExams  string         `json:"odd_semester_exams"`
	EvenSemesterExams string         `json:"even_semester_exams"`
	Upcoming          []UpcomingExam `json:"upcoming"`
}

type FacultyMember struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Cabin   string `json:"cabin"`
}

// CustomSection is an admin-defined FAQ block triggered by keyword
// overlap with the user's message.
type CustomSection struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Content  string   `json:"content"`
}

type PeriodTiming struct {
	Period int    `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// AdminData is the operational bag maintained by the admin panel. The
// chatbot core only reads it; a missing or corrupt file is treated as
// the zero value.
type AdminData struct {
	Departments   []string                       `json:"departments"`
	Semesters     []string                       `json:"semesters"`
	Sections      []string                       `json:"sections"`
	Timetables    map[string]map[string][]string `json:"timetables"`
	PeriodTimings []PeriodTiming                 `json:"period_timings"`
	RoomDirectory map[string]RoomInfo            `json:"room_directory"`
	Notifications []Notification                 `json:"notifications"`
	ExamSchedule  *ExamSchedule                  `json:"exam_schedule"`
	Faculty       map[string][]FacultyMember     `json:"faculty"`
	CustomSections []CustomSection               `json:"custom_sections"`
	LastUpdated   string                         `json:"last_updated"`
}

// ChatRecord is one processed message, persisted for the history API.
type ChatRecord struct {
	ID         string
	Message    string
	Response   string
	Source     string
	Intent     string
	Confidence float64
	LatencyMS  int
	CreatedAt  time.Time
}

type Feedback struct {
	ID        int64
	ChatID    string
	Helpful   bool
	Comment   string
	CreatedAt time.Time
}

// Package engine answers messages from admin-maintained data and the
// knowledge base, without AI. Branches run in strict priority order and
// a specialized branch that cannot answer falls through silently to the
// next one; only the final knowledge-base fallback reports a miss.
package engine

import (
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/internal/storage/models"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

const (
	IntentRoomLocation    = "room_location"
	IntentTodaysClasses   = "todays_classes"
	IntentTimetable       = "timetable"
	IntentProfileRequired = "profile_required"
	IntentNotifications   = "notifications"
	IntentExamSchedule    = "exam_schedule"
	IntentFaculty         = "faculty"
	IntentCustomSection   = "custom_section"
)

// Blended score weights and the floor applied when every pattern
// keyword appears in the message.
const (
	stringSimilarityWeight = 0.4
	keywordOverlapWeight   = 0.6
	fullCoverageFloor      = 0.85
	lookupConfidence       = 0.95
	listingConfidence      = 0.90
)

var threeDigitPattern = regexp.MustCompile(`\d{3}`)

var (
	roomKeywords         = []string{"room", "where", "location", "floor", "wing", "lab", "find"}
	todayMarkers         = []string{"today", "today's", "now", "current class"}
	classKeywords        = []string{"class", "classes", "timetable", "schedule"}
	timetableKeywords    = []string{"timetable", "schedule", "classes", "weekly"}
	notificationKeywords = []string{"notification", "notifications", "notice", "update", "updates", "announcement"}
	examKeywords         = []string{"exam", "exams", "examination", "test", "midterm", "final"}
	facultyKeywords      = []string{"faculty", "teacher", "professor", "prof", "staff", "cabin"}
)

// MatchResult reports the best answer the engine could produce.
// Confidence carries the best score observed even when Found is false.
type MatchResult struct {
	Found      bool
	Answer     string
	Confidence float64
	Intent     string
}

type KnowledgeBaseSource interface {
	KnowledgeBase() *models.KnowledgeBase
}

type AdminDataSource interface {
	AdminData() *models.AdminData
}

// Selector picks an index in [0,n) among a matched intent's responses.
// Injected so tests can pin the choice.
type Selector func(n int) int

type Engine struct {
	kb        KnowledgeBaseSource
	admin     AdminDataSource
	threshold float64
	selector  Selector
	now       func() time.Time
}

type Option func(*Engine)

func WithSelector(selector Selector) Option {
	return func(e *Engine) { e.selector = selector }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(kb KnowledgeBaseSource, admin AdminDataSource, threshold float64, opts ...Option) *Engine {
	e := &Engine{
		kb:        kb,
		admin:     admin,
		threshold: threshold,
		selector:  rand.Intn,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindAnswer runs the priority pipeline for one message.
func (e *Engine) FindAnswer(message string, profile *models.StudentProfile) MatchResult {
	queryLower := strings.ToLower(message)
	userKeywords := extractKeywords(message)
	admin := e.admin.AdminData()

	// Priority 1: room location.
	if keywordSetHasAny(userKeywords, roomKeywords) || threeDigitPattern.MatchString(queryLower) {
		if answer := roomLocation(admin, message); answer != "" {
			return e.hit(IntentRoomLocation, answer, lookupConfidence)
		}
	}

	// Priority 2: today's classes.
	if containsAny(queryLower, todayMarkers) && keywordSetHasAny(userKeywords, classKeywords) {
		weekday := e.now().Weekday().String()
		return e.hit(IntentTodaysClasses, todaysClasses(admin, profile, weekday), lookupConfidence)
	}

	// Priority 3: full timetable.
	if keywordSetHasAny(userKeywords, timetableKeywords) {
		if profile != nil && profile.Dept != "" {
			return e.hit(IntentTimetable, personalizedTimetable(admin, profile), lookupConfidence)
		}
		return e.hit(IntentProfileRequired,
			"Please set your profile (Department, Semester, Section) to see your personalized timetable.",
			lookupConfidence)
	}

	// Priority 4: notifications.
	if keywordSetHasAny(userKeywords, notificationKeywords) {
		return e.hit(IntentNotifications, studentNotifications(admin, profile), lookupConfidence)
	}

	// Priority 5: exam schedule.
	if keywordSetHasAny(userKeywords, examKeywords) {
		if answer := examSchedule(admin, profile); answer != "" {
			return e.hit(IntentExamSchedule, answer, lookupConfidence)
		}
	}

	// Priority 6: faculty info.
	if keywordSetHasAny(userKeywords, facultyKeywords) {
		if answer := facultyInfo(admin, profile); answer != "" {
			return e.hit(IntentFaculty, answer, listingConfidence)
		}
	}

	// Priority 7: custom sections.
	if answer := customSection(admin, userKeywords); answer != "" {
		return e.hit(IntentCustomSection, answer, listingConfidence)
	}

	// Priority 8: knowledge-base similarity matching.
	return e.matchKnowledgeBase(message, userKeywords)
}

func (e *Engine) hit(intent, answer string, confidence float64) MatchResult {
	logger.Debug("Rule engine matched", zap.String("intent", intent))
	return MatchResult{
		Found:      true,
		Answer:     answer,
		Confidence: confidence,
		Intent:     intent,
	}
}

// matchKnowledgeBase scores every pattern of every intent and keeps the
// single best; ties keep the first encountered.
func (e *Engine) matchKnowledgeBase(message string, userKeywords []string) MatchResult {
	processedQuery := preprocess(message)
	userSet := make(map[string]struct{}, len(userKeywords))
	for _, kw := range userKeywords {
		userSet[kw] = struct{}{}
	}

	bestScore := 0.0
	bestIntent := ""
	var bestResponses []string

	for _, intent := range e.kb.KnowledgeBase().Intents {
		for _, pattern := range intent.Patterns {
			processedPattern := preprocess(pattern)
			patternKeywords := extractKeywords(pattern)

			stringSim := similarity(processedQuery, processedPattern)

			keywordSim := 0.0
			if len(patternKeywords) > 0 {
				matches := 0
				for _, kw := range patternKeywords {
					if _, ok := userSet[kw]; ok {
						matches++
					}
				}
				keywordSim = float64(matches) / float64(len(patternKeywords))
			}

			score := stringSim*stringSimilarityWeight + keywordSim*keywordOverlapWeight

			if len(patternKeywords) > 0 && keywordSim == 1.0 && score < fullCoverageFloor {
				score = fullCoverageFloor
			}

			if score > bestScore {
				bestScore = score
				bestIntent = intent.Tag
				bestResponses = intent.Responses
			}
		}
	}

	if bestScore >= e.threshold && len(bestResponses) > 0 {
		answer := bestResponses[e.selector(len(bestResponses))]
		logger.Debug("Knowledge base matched",
			zap.String("intent", bestIntent),
			zap.Float64("score", bestScore),
		)
		return MatchResult{
			Found:      true,
			Answer:     answer,
			Confidence: round2(bestScore),
			Intent:     bestIntent,
		}
	}

	return MatchResult{
		Found:      false,
		Confidence: round2(bestScore),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package guardrail filters user input before it reaches matching or AI.
// Checks run in a fixed order and the first failure short-circuits; the
// returned message is always a fixed category text, never derived from
// the input.
package guardrail

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/campus-helpdesk/backend/pkg/config"
	"github.com/campus-helpdesk/backend/pkg/logger"
)

const (
	CheckInputValidation  = "input_validation"
	CheckSpamDetection    = "spam_detection"
	CheckBlockedWords     = "blocked_words"
	CheckPersonalQuestion = "personal_question"
	CheckOffTopic         = "off_topic"
	CheckPersonalInfo     = "personal_info"
)

const (
	minMessageLength = 2
	maxMessageLength = 500
	maxRepeatRun     = 6
	shoutingMinLen   = 10
	maxPunctuation   = 10
)

// Result is produced fresh per call. FailedCheck is empty when the
// message passed every check.
type Result struct {
	IsSafe      bool
	Message     string
	FailedCheck string
}

type Filter struct {
	cfg             config.GuardrailConfig
	blockedPatterns []*regexp.Regexp
}

func NewFilter(cfg config.GuardrailConfig) *Filter {
	patterns := make([]*regexp.Regexp, 0, len(cfg.BlockedWords))
	for _, word := range cfg.BlockedWords {
		// Whole-word match so "hackathon" never trips "hack".
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(strings.ToLower(word))+`\b`))
	}

	return &Filter{
		cfg:             cfg,
		blockedPatterns: patterns,
	}
}

// Check runs all guardrails in order and stops at the first failure.
func (f *Filter) Check(message string) Result {
	if msg, ok := f.validateInput(message); !ok {
		return f.blocked(CheckInputValidation, msg)
	}

	if f.isSpam(message) {
		return f.blocked(CheckSpamDetection, f.cfg.Messages.Spam)
	}

	if f.containsBlockedWords(message) {
		return f.blocked(CheckBlockedWords, f.cfg.Messages.BlockedContent)
	}

	if f.isPersonalQuestion(message) {
		return f.blocked(CheckPersonalQuestion, f.cfg.Messages.PersonalQuestion)
	}

	if f.isOffTopic(message) {
		return f.blocked(CheckOffTopic, f.cfg.Messages.OffTopic)
	}

	if f.containsPersonalInfo(message) {
		return f.blocked(CheckPersonalInfo, f.cfg.Messages.Privacy)
	}

	return Result{IsSafe: true}
}

func (f *Filter) blocked(check, message string) Result {
	logger.Debug("Message blocked by guardrail", zap.String("check", check))
	return Result{
		IsSafe:      false,
		Message:     message,
		FailedCheck: check,
	}
}

// validateInput returns the category message for the first failing
// sub-case, or ok=true.
func (f *Filter) validateInput(message string) (string, bool) {
	cleaned := strings.TrimSpace(message)
	if cleaned == "" {
		return f.cfg.Messages.Empty, false
	}

	length := utf8.RuneCountInString(cleaned)
	if length < minMessageLength {
		return f.cfg.Messages.TooShort, false
	}
	if length > maxMessageLength {
		return f.cfg.Messages.TooLong, false
	}

	if !letterPattern.MatchString(cleaned) {
		return f.cfg.Messages.NoText, false
	}

	return "", true
}

func (f *Filter) isSpam(message string) bool {
	if hasRepeatedRun(message, maxRepeatRun) {
		return true
	}

	// All-caps shouting; short messages like "OK" or "YES" are fine.
	if utf8.RuneCountInString(message) > shoutingMinLen && isShouting(message) {
		return true
	}

	return len(punctuationPattern.FindAllString(message, -1)) > maxPunctuation
}

// hasRepeatedRun reports whether any single rune repeats at least n
// times consecutively. RE2 has no backreferences, so this is a loop.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// isShouting reports whether the message has at least one letter and no
// lower-case letters.
func isShouting(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func (f *Filter) containsBlockedWords(message string) bool {
	lower := strings.ToLower(message)
	for _, pattern := range f.blockedPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

func (f *Filter) isPersonalQuestion(message string) bool {
	lower := strings.ToLower(message)

	for _, keyword := range f.cfg.PersonalQuestionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, pattern := range personalQuestionPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}

	return false
}

func (f *Filter) isOffTopic(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range f.cfg.OffTopicKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func (f *Filter) containsPersonalInfo(message string) bool {
	return phonePattern.MatchString(message) ||
		emailPattern.MatchString(message) ||
		aadharPattern.MatchString(message) ||
		cardPattern.MatchString(message)
}

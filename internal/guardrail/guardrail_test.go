package guardrail

import (
	"strings"
	"testing"

	"github.com/campus-helpdesk/backend/pkg/config"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()

	cfg := config.GuardrailConfig{
		BlockedWords: []string{"hack", "cheat", "exploit", "kill", "stupid"},
		PersonalQuestionKeywords: []string{
			"girlfriend", "salary", "phone number of", "how old is", "where does",
		},
		OffTopicKeywords: []string{
			"election", "cricket", "bitcoin", "religion", "gambling",
		},
		Messages: config.GuardrailMessages{
			Empty:            "Please enter a message.",
			TooShort:         "Your message is too short. Please provide more details.",
			TooLong:          "Your message is too long. Please keep it under 500 characters.",
			NoText:           "Please enter a valid message with some text.",
			Spam:             "Please send a proper message without excessive repetition.",
			BlockedContent:   "I cannot respond to this type of query. Please keep your questions appropriate and college-related.",
			PersonalQuestion: "I cannot provide personal information about individuals. For faculty contact details, please visit the college website or contact the admin office.",
			OffTopic:         "I can only help with college-related queries. Please ask questions about admissions, courses, fees, timings, faculty, or other college matters.",
			Privacy:          "For your privacy and security, please don't share personal information like phone numbers, email addresses, or ID numbers in this chat.",
		},
	}

	return NewFilter(cfg)
}

func TestCheckOrderAndCategories(t *testing.T) {
	f := newTestFilter(t)

	tests := []struct {
		name        string
		message     string
		wantSafe    bool
		wantCheck   string
	}{
		{"empty", "", false, CheckInputValidation},
		{"whitespace only", "   ", false, CheckInputValidation},
		{"single char", "a", false, CheckInputValidation},
		{"two chars is enough", "ok", true, ""},
		{"over length limit", strings.Repeat("a", 501), false, CheckInputValidation},
		{"no letters", "12 45", false, CheckInputValidation},
		{"repeated characters", "aaaaaaaaaaaaaaa", false, CheckSpamDetection},
		{"shouting", "WHY IS NOBODY ANSWERING ME", false, CheckSpamDetection},
		{"short caps allowed", "OK THANKS", true, ""},
		{"excessive punctuation", "what time?!?!?!?!?!?!.., is it", false, CheckSpamDetection},
		{"blocked word", "how do I hack the portal", false, CheckBlockedWords},
		{"blocked word needs boundary", "I registered for the hackathon", true, ""},
		{"personal question keyword", "what is the phone number of the principal", false, CheckPersonalQuestion},
		{"personal question pattern", "is the librarian married or single", false, CheckPersonalQuestion},
		{"off topic", "who will win the election this year", false, CheckOffTopic},
		{"phone number", "call me on 9876543210", false, CheckPersonalInfo},
		{"email address", "reach me at student@example.com", false, CheckPersonalInfo},
		{"aadhar number", "my id is 1234 5678 9012", false, CheckPersonalInfo},
		{"normal question", "What are the library timings?", true, ""},
		{"course question", "Which courses are offered in the third semester?", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.Check(tt.message)
			if result.IsSafe != tt.wantSafe {
				t.Fatalf("Check(%q) IsSafe = %v, want %v", tt.message, result.IsSafe, tt.wantSafe)
			}
			if result.FailedCheck != tt.wantCheck {
				t.Errorf("Check(%q) FailedCheck = %q, want %q", tt.message, result.FailedCheck, tt.wantCheck)
			}
		})
	}
}

func TestCheckReturnsFixedMessages(t *testing.T) {
	f := newTestFilter(t)

	result := f.Check("tell me how to cheat in exams")
	if result.IsSafe {
		t.Fatal("expected blocked message")
	}
	if result.Message != f.cfg.Messages.BlockedContent {
		t.Errorf("Message = %q, want the fixed blocked-content text", result.Message)
	}
	if strings.Contains(result.Message, "cheat") {
		t.Error("blocked message must not echo the input")
	}

	result = f.Check("")
	if result.Message != f.cfg.Messages.Empty {
		t.Errorf("empty message text = %q, want %q", result.Message, f.cfg.Messages.Empty)
	}
}

func TestCheckFirstFailureWins(t *testing.T) {
	f := newTestFilter(t)

	// Contains both a blocked word and an off-topic keyword; the
	// earlier check decides the category.
	result := f.Check("hack the election results")
	if result.FailedCheck != CheckBlockedWords {
		t.Errorf("FailedCheck = %q, want %q", result.FailedCheck, CheckBlockedWords)
	}
}

func TestHasRepeatedRun(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"aaaaaa", true},
		{"aaaaa", false},
		{"abababababab", false},
		{"hello!!!!!!!", true},
		{"", false},
	}

	for _, tt := range tests {
		if got := hasRepeatedRun(tt.s, 6); got != tt.want {
			t.Errorf("hasRepeatedRun(%q, 6) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestPersonalInfoPatterns(t *testing.T) {
	f := newTestFilter(t)

	// Indian mobile numbers start with 6-9; anything else is not
	// treated as a phone number.
	result := f.Check("the course code is 5123456789")
	if !result.IsSafe {
		t.Errorf("10 digits starting with 5 should pass, got check %q", result.FailedCheck)
	}

	result = f.Check("course fee is 45000 rupees")
	if !result.IsSafe {
		t.Errorf("plain amounts should pass, got check %q", result.FailedCheck)
	}
}

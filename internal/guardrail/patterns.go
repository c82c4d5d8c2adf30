package guardrail

import "regexp"

// Literal pattern tables for the heuristic checks, kept together so they
// can be audited without reading the control flow.

// personalQuestionPatterns catch questions about a third party's phone,
// address, salary, residence, age, relationship status, or "personal"
// details that the keyword list alone misses.
var personalQuestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what is .+ (phone|number|address|salary)`),
	regexp.MustCompile(`where does .+ live`),
	regexp.MustCompile(`how old is`),
	regexp.MustCompile(`is .+ (married|single|dating)`),
	regexp.MustCompile(`tell me about .+ personal`),
}

var (
	// Indian mobile number: 10 digits, leading digit 6-9.
	phonePattern = regexp.MustCompile(`\b[6-9]\d{9}\b`)
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	// Aadhar-like: 12 digits, optionally grouped in 4s.
	aadharPattern = regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`)
	// Card-like: 16 digits, optional space/dash grouping.
	cardPattern = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
)

var (
	letterPattern      = regexp.MustCompile(`[a-zA-Z]`)
	punctuationPattern = regexp.MustCompile(`[!?.,]`)
)

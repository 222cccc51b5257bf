// Package grounding checks, after the fact, that the numbers a report quotes
// can be traced to what its generation call was shown. It only warns.
package grounding

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/usecase/digest"
)

// Integers up to this value are list markers and counts, not quoted facts.
const maxIgnoredInteger = 10

var numberPattern = regexp.MustCompile(`-?\d+(?:[.,]\d+)?%?`)

type Checker struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Checker {
	return &Checker{logger: logger}
}

// CheckDigest checks a race, sex or performance report against the facts
// that role was given.
func (c *Checker) CheckDigest(report entity.AgentReport, d entity.FactualDigest) entity.GroundingResult {
	return c.check(report, digest.Numbers(factsFor(report.Role, d)))
}

// CheckSources checks the supervisor report against the reports it
// consolidated.
func (c *Checker) CheckSources(report entity.AgentReport, sources ...entity.AgentReport) entity.GroundingResult {
	var allowed []string
	for _, s := range sources {
		allowed = append(allowed, NumbersIn(s.Text)...)
	}
	return c.check(report, allowed)
}

func (c *Checker) check(report entity.AgentReport, allowedTokens []string) entity.GroundingResult {
	allowed := make([]float64, 0, len(allowedTokens))
	for _, tok := range allowedTokens {
		if v, _, ok := parse(tok); ok {
			allowed = append(allowed, v)
		}
	}

	result := entity.GroundingResult{Role: report.Role, Grounded: true, Ungrounded: []string{}}
	seen := make(map[string]bool)
	for _, tok := range NumbersIn(report.Text) {
		v, decimals, ok := parse(tok)
		if !ok || ignored(tok, v, decimals) {
			continue
		}
		result.Checked++
		if matches(v, decimals, allowed) || seen[tok] {
			continue
		}
		seen[tok] = true
		result.Ungrounded = append(result.Ungrounded, tok)
	}
	result.Grounded = len(result.Ungrounded) == 0

	if !result.Grounded {
		c.logger.Warn("Report quotes numbers not found in its inputs",
			"role", report.Role,
			"ungrounded", strings.Join(result.Ungrounded, ","),
		)
	}
	return result
}

// NumbersIn returns every numeric token of text in order of appearance.
func NumbersIn(text string) []string {
	return numberPattern.FindAllString(text, -1)
}

// parse reads a token as a fraction. Percentages are divided by 100 and keep
// their precision, so "12.5%" is 0.125 known to three decimals.
func parse(tok string) (float64, int, bool) {
	percent := strings.HasSuffix(tok, "%")
	s := strings.ReplaceAll(strings.TrimSuffix(tok, "%"), ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, false
	}
	decimals := 0
	if i := strings.IndexByte(s, '.'); i >= 0 {
		decimals = len(s) - i - 1
	}
	if percent {
		v /= 100
		decimals += 2
	}
	return v, decimals, true
}

func ignored(tok string, v float64, decimals int) bool {
	if strings.HasSuffix(tok, "%") || decimals > 0 {
		return false
	}
	return math.Abs(v) <= maxIgnoredInteger
}

// matches reports whether some allowed value rounds to v at v's precision.
func matches(v float64, decimals int, allowed []float64) bool {
	tolerance := 0.5*math.Pow10(-decimals) + 1e-9
	for _, a := range allowed {
		if math.Abs(a-v) <= tolerance {
			return true
		}
	}
	return false
}

// factsFor narrows d to what the role's prompt carried.
func factsFor(role entity.AgentRole, d entity.FactualDigest) entity.FactualDigest {
	var key entity.GroupKey
	switch role {
	case entity.AgentRoleRace:
		key = entity.GroupRace
	case entity.AgentRoleSex:
		key = entity.GroupSex
	default:
		return d
	}

	narrowed := d
	narrowed.Attributes = nil
	if a, ok := d.Attribute(key); ok {
		narrowed.Attributes = []entity.AttributeDigest{a}
	}
	return narrowed
}

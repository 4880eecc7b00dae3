package ctest

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific case or not.
type Filter func(CaseID) bool

// RegexFilters selects cases by requiring or excluding regex pattern matches.
type RegexFilters struct {
	MustMatch    CasePatternList
	MustNotMatch CasePatternList
}

func (r RegexFilters) Match(id CaseID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)) &&
		!r.MustNotMatch.AnyMatch(id, false)
}

// CasePattern is a slash-delimited list of regexes, one per CaseID element.
type CasePattern []*regexp.Regexp

func (p CasePattern) Match(id CaseID, includeParents bool) bool {
	min := len(p)
	if min > len(id) {
		if !includeParents {
			return false
		}
		min = len(id)
	}
	for i := 0; i < min; i++ {
		if !p[i].MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p CasePattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

// ParseCasePattern compiles a slash-delimited pattern string.
func ParseCasePattern(s string) (CasePattern, error) {
	parts := strings.Split(s, "/")
	ret := make(CasePattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil, fmt.Errorf("invalid regex: %w", err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

type CasePatternList []CasePattern

func (l CasePatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (l *CasePatternList) Set(value string) error {
	p, err := ParseCasePattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func (l CasePatternList) IsDefined() bool {
	return len(l) != 0
}

func (l CasePatternList) AnyMatch(id CaseID, includeParents bool) bool {
	for _, p := range l {
		if p.Match(id, includeParents) {
			return true
		}
	}
	return false
}

package cartesian

import (
	"strconv"
	"strings"
)

// DefaultNamePattern is the display-name pattern used when a method does not
// declare one.
const DefaultNamePattern = "[{index}] {arguments}"

// FormatDisplayName renders one invocation's display name from a pattern. The
// recognized placeholders are {displayName}, {index}, {arguments}, and {k} for
// the k-th tuple element (0-based). A region between single quotes is literal
// text, and a doubled single quote renders as one literal quote. Unrecognized
// placeholders pass through unchanged; the only possible error is an
// unterminated quote region.
func FormatDisplayName(pattern string, displayName string, index int, args Tuple) (string, error) {
	p, err := parseNamePattern(pattern)
	if err != nil {
		return "", err
	}
	return p.format(displayName, index, args), nil
}

type segmentKind int

const (
	segLiteral segmentKind = iota
	segDisplayName
	segIndex
	segArguments
	segArgument
)

type nameSegment struct {
	kind     segmentKind
	text     string // for segLiteral; for segArgument, the original placeholder text
	argIndex int    // for segArgument
}

// namePattern is a parsed display-name pattern. It is parsed once per
// resolution and applied once per invocation record.
type namePattern struct {
	raw      string
	segments []nameSegment
}

func parseNamePattern(pattern string) (*namePattern, error) {
	p := &namePattern{raw: pattern}
	var literal strings.Builder
	flushLiteral := func() {
		if literal.Len() > 0 {
			p.segments = append(p.segments, nameSegment{kind: segLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '\'':
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				literal.WriteByte('\'')
				i += 2
				continue
			}
			end, ok := scanQuotedRegion(pattern, i+1, &literal)
			if !ok {
				return nil, FormatError{Pattern: pattern, Message: "unterminated quote region"}
			}
			i = end
		case '{':
			closing := strings.IndexByte(pattern[i:], '}')
			if closing < 0 {
				literal.WriteByte('{')
				i++
				continue
			}
			content := pattern[i+1 : i+closing]
			seg, recognized := placeholderSegment(content)
			if recognized {
				flushLiteral()
				p.segments = append(p.segments, seg)
			} else {
				literal.WriteString(pattern[i : i+closing+1])
			}
			i += closing + 1
		default:
			literal.WriteByte(pattern[i])
			i++
		}
	}
	flushLiteral()
	return p, nil
}

// scanQuotedRegion consumes a quoted literal region starting just after an
// opening quote, appending its contents to the literal buffer. A doubled quote
// inside the region is one literal quote. Returns the position after the
// closing quote, or ok=false if the region never closes.
func scanQuotedRegion(pattern string, start int, literal *strings.Builder) (int, bool) {
	for i := start; i < len(pattern); i++ {
		if pattern[i] != '\'' {
			literal.WriteByte(pattern[i])
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '\'' {
			literal.WriteByte('\'')
			i++
			continue
		}
		return i + 1, true
	}
	return 0, false
}

func placeholderSegment(content string) (nameSegment, bool) {
	switch content {
	case "displayName":
		return nameSegment{kind: segDisplayName}, true
	case "index":
		return nameSegment{kind: segIndex}, true
	case "arguments":
		return nameSegment{kind: segArguments}, true
	}
	if content != "" && strings.Trim(content, "0123456789") == "" {
		n, _ := strconv.Atoi(content)
		return nameSegment{kind: segArgument, argIndex: n, text: "{" + content + "}"}, true
	}
	return nameSegment{}, false
}

func (p *namePattern) format(displayName string, index int, args Tuple) string {
	var out strings.Builder
	for _, seg := range p.segments {
		switch seg.kind {
		case segLiteral:
			out.WriteString(seg.text)
		case segDisplayName:
			out.WriteString(displayName)
		case segIndex:
			out.WriteString(strconv.Itoa(index))
		case segArguments:
			out.WriteString(args.String())
		case segArgument:
			if seg.argIndex < len(args) {
				out.WriteString(describeValue(args[seg.argIndex]))
			} else {
				// out-of-range positions pass through as literal text
				out.WriteString(seg.text)
			}
		}
	}
	return out.String()
}

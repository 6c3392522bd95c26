package corpus

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sepme/sepme/internal/scoring"
)

const (
	// MinLines is the smallest record: five header lines plus one line of text.
	MinLines = 6

	// DefaultMinTextLength is the minimum essay length in runes.
	DefaultMinTextLength = 10
)

// Canonical record layout, 1-based line numbers.
const (
	lineID           = 1
	lineGrade        = 2
	lineContent      = 3
	lineOrganization = 4
	lineExpression   = 5
	lineTextStart    = 6
)

// ParseRecord turns decoded record text into an Item. Every record, whichever
// corpus it belongs to, carries all five numeric header lines:
//
//	line 1: id
//	line 2: grade (1-5)
//	line 3: content score (3-18)
//	line 4: organization score (2-12)
//	line 5: expression score (2-12)
//	line 6+: essay text
func ParseRecord(key, text string, category Category, minTextLength int) (Item, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) < MinLines {
		return Item{}, &RecordParseError{Key: key, Err: ErrTooFewLines}
	}

	id, err := parseField(key, lines, lineID, scoring.Range{Min: 0, Max: math.MaxInt})
	if err != nil {
		return Item{}, err
	}
	grade, err := parseField(key, lines, lineGrade, scoring.GradeRange)
	if err != nil {
		return Item{}, err
	}
	content, err := parseField(key, lines, lineContent, scoring.ContentRange)
	if err != nil {
		return Item{}, err
	}
	organization, err := parseField(key, lines, lineOrganization, scoring.OrganizationRange)
	if err != nil {
		return Item{}, err
	}
	expression, err := parseField(key, lines, lineExpression, scoring.ExpressionRange)
	if err != nil {
		return Item{}, err
	}

	body := strings.TrimSpace(strings.Join(lines[lineTextStart-1:], "\n"))
	if minTextLength <= 0 {
		minTextLength = 1
	}
	if utf8.RuneCountInString(body) < minTextLength {
		return Item{}, &RecordParseError{Key: key, Line: lineTextStart, Err: ErrTextTooShort}
	}

	return Item{
		ID:    id,
		Text:  body,
		Grade: grade,
		Scores: scoring.Scores{
			Content:      content,
			Organization: organization,
			Expression:   expression,
		},
		Category: category,
		Key:      key,
	}, nil
}

func parseField(key string, lines []string, line int, rng scoring.Range) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(lines[line-1], "\uFEFF")))
	if err != nil || !rng.Contains(v) {
		return 0, &RecordParseError{Key: key, Line: line, Err: ErrBadField}
	}
	return v, nil
}

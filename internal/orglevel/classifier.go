package orglevel

import (
	"regexp"
	"strings"

	"github.com/sells-group/kinerja-cli/internal/model"
)

var (
	unknownRe       = regexp.MustCompile(`(?i)unknown|tidak diketahui`)
	staffSubRe      = regexp.MustCompile(`(?i)staf`)
	departmentSubRe = regexp.MustCompile(`\b(bidang|sekretariat|bagian|seksi)\b`)
)

// PositionInput is what the position rules see.
type PositionInput struct {
	Position    string
	SubPosition string
	// Context is the normalized position and sub-position joined by a space.
	Context string
}

// NewPositionInput normalizes a title pair into a search context.
func NewPositionInput(position, subPosition string) PositionInput {
	ctx := strings.TrimSpace(Normalize(position) + " " + Normalize(subPosition))
	return PositionInput{Position: position, SubPosition: subPosition, Context: ctx}
}

// IsUnknown reports whether a position explicitly says it is unknown.
func IsUnknown(position string) bool {
	return unknownRe.MatchString(position)
}

func familyRule(f Family) Rule[PositionInput] {
	return Rule[PositionInput]{
		Name: "pattern " + string(f.Category),
		Apply: func(in PositionInput) (model.OrganizationalCategory, bool) {
			if _, ok := f.Match(in.Context); ok {
				return f.Category, true
			}
			return "", false
		},
	}
}

// PositionRules is the ordered rule list behind ClassifyPosition.
var PositionRules = buildPositionRules()

func buildPositionRules() []Rule[PositionInput] {
	rules := []Rule[PositionInput]{
		{
			Name: "unknown position",
			Apply: func(in PositionInput) (model.OrganizationalCategory, bool) {
				return model.CategoryOther, IsUnknown(in.Position)
			},
		},
		{
			Name: "staff sub-position",
			Apply: func(in PositionInput) (model.OrganizationalCategory, bool) {
				return model.CategoryStaff, staffSubRe.MatchString(in.SubPosition)
			},
		},
	}
	for _, f := range Families {
		rules = append(rules, familyRule(f))
	}
	return append(rules, Rule[PositionInput]{
		Name: "department context",
		Apply: func(in PositionInput) (model.OrganizationalCategory, bool) {
			return model.CategoryStaff, departmentSubRe.MatchString(Normalize(in.SubPosition))
		},
	})
}

// ClassifyPosition infers a category from a job title and optional
// department text.
func ClassifyPosition(position, subPosition string) model.OrganizationalCategory {
	c, _ := Evaluate(PositionRules, NewPositionInput(position, subPosition))
	return c
}

package model

import "strings"

// OrganizationalCategory is the structural rank category an employee is
// placed in. The zero value is not a valid category.
type OrganizationalCategory string

const (
	CategoryEselonII  OrganizationalCategory = "Eselon II"
	CategoryEselonIII OrganizationalCategory = "Eselon III"
	CategoryEselonIV  OrganizationalCategory = "Eselon IV"
	CategoryStaff     OrganizationalCategory = "Staff"
	CategoryOther     OrganizationalCategory = "Other"
)

// Categories lists every category from most to least senior.
var Categories = []OrganizationalCategory{
	CategoryEselonII,
	CategoryEselonIII,
	CategoryEselonIV,
	CategoryStaff,
	CategoryOther,
}

// Rank returns the hierarchy rank used for conflict detection:
// Eselon II=4, Eselon III=3, Eselon IV=2, Staff=1, Other=0.
func (c OrganizationalCategory) Rank() int {
	switch c {
	case CategoryEselonII:
		return 4
	case CategoryEselonIII:
		return 3
	case CategoryEselonIV:
		return 2
	case CategoryStaff:
		return 1
	default:
		return 0
	}
}

// IsEselon reports whether c is one of the structural leadership tiers.
func (c OrganizationalCategory) IsEselon() bool {
	return c == CategoryEselonII || c == CategoryEselonIII || c == CategoryEselonIV
}

// Valid reports whether c is a member of the closed category set.
func (c OrganizationalCategory) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// PositionType collapses the category for performance weighting.
func (c OrganizationalCategory) PositionType() PositionType {
	if c.IsEselon() {
		return PositionTypeEselon
	}
	return PositionTypeStaff
}

func (c OrganizationalCategory) String() string {
	return string(c)
}

// ParseCategory matches s case-insensitively against the category labels.
// "Eselon 2", "eselon ii" and "ESELON II" are equivalent; "staf" is Staff.
func ParseCategory(s string) (OrganizationalCategory, bool) {
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	switch norm {
	case "eselon ii", "eselon 2":
		return CategoryEselonII, true
	case "eselon iii", "eselon 3":
		return CategoryEselonIII, true
	case "eselon iv", "eselon 4":
		return CategoryEselonIV, true
	case "staff", "staf":
		return CategoryStaff, true
	case "other", "lainnya":
		return CategoryOther, true
	}
	return "", false
}

// PositionType is the coarse eselon/staff split used by report weights.
type PositionType string

const (
	PositionTypeEselon PositionType = "eselon"
	PositionTypeStaff  PositionType = "staff"
)

package orglevel

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/kinerja-cli/internal/golongan"
	"github.com/sells-group/kinerja-cli/internal/model"
)

// GolonganCategory maps a golongan code to the category it usually
// accompanies. ok is false only when raw is blank; an unparseable code
// still maps to Staff.
func GolonganCategory(raw string) (model.OrganizationalCategory, bool) {
	g, ok := golongan.Parse(raw)
	if !ok {
		if strings.TrimSpace(raw) == "" {
			return "", false
		}
		return model.CategoryStaff, true
	}
	switch {
	case g.Level == "IV" && (g.Grade == "c" || g.Grade == "d" || g.Grade == "e"):
		return model.CategoryEselonII, true
	case g.Level == "IV" || g.Formatted == "III/d":
		return model.CategoryEselonIII, true
	case g.Formatted == "III/b" || g.Formatted == "III/c":
		return model.CategoryEselonIV, true
	default:
		return model.CategoryStaff, true
	}
}

// Resolution is the outcome of resolving one employee.
type Resolution struct {
	Category          model.OrganizationalCategory    `json:"category"`
	PositionInference model.OrganizationalCategory    `json:"position_inference"`
	GolonganInference model.OrganizationalCategory    `json:"golongan_inference,omitempty"`
	Rule              string                          `json:"rule,omitempty"`
	Warning           *model.DataInconsistencyWarning `json:"warning,omitempty"`
}

// ResolveInput is what the resolution rules see.
type ResolveInput struct {
	Position          PositionInput
	PositionInference model.OrganizationalCategory
	GolonganInference model.OrganizationalCategory
	Warning           *model.DataInconsistencyWarning
}

// ResolutionRules is the precedence between the position and golongan
// signals, highest first.
var ResolutionRules = []Rule[ResolveInput]{
	{
		Name: "unknown position",
		Apply: func(in ResolveInput) (model.OrganizationalCategory, bool) {
			return model.CategoryOther, IsUnknown(in.Position.Position)
		},
	},
	{
		Name: "staff sub-position",
		Apply: func(in ResolveInput) (model.OrganizationalCategory, bool) {
			return model.CategoryStaff, staffSubRe.MatchString(in.Position.SubPosition)
		},
	},
	{
		Name: "leadership position",
		Apply: func(in ResolveInput) (model.OrganizationalCategory, bool) {
			return in.PositionInference, in.PositionInference.IsEselon()
		},
	},
	{
		Name: "golongan over generic position",
		Apply: func(in ResolveInput) (model.OrganizationalCategory, bool) {
			if in.GolonganInference == "" {
				return "", false
			}
			if in.PositionInference == model.CategoryOther {
				return in.GolonganInference, true
			}
			high := in.Warning != nil && in.Warning.Severity == model.SeverityHigh
			return in.GolonganInference, high
		},
	},
	{
		Name: "position",
		Apply: func(in ResolveInput) (model.OrganizationalCategory, bool) {
			return in.PositionInference, in.PositionInference != model.CategoryOther
		},
	},
}

// Resolver combines position and golongan signals into one category.
// It holds no state besides its logger and is safe for concurrent use.
type Resolver struct {
	log *zap.Logger
}

// NewResolver returns a Resolver that logs inconsistency warnings to log.
// A nil logger discards them.
func NewResolver(log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{log: log}
}

// Resolve infers the organizational category for one employee.
func (r *Resolver) Resolve(position, subPosition, gol string) Resolution {
	in := ResolveInput{Position: NewPositionInput(position, subPosition)}
	in.PositionInference, _ = Evaluate(PositionRules, in.Position)
	in.GolonganInference, _ = GolonganCategory(gol)
	if !IsUnknown(position) {
		in.Warning = CheckConsistency(gol, in.PositionInference, in.GolonganInference)
	}

	category, rule := Evaluate(ResolutionRules, in)
	res := Resolution{
		Category:          category,
		PositionInference: in.PositionInference,
		GolonganInference: in.GolonganInference,
		Rule:              rule,
		Warning:           in.Warning,
	}
	if res.Warning != nil {
		r.logWarning(position, subPosition, res)
	}
	return res
}

// Category is Resolve without the diagnostics.
func (r *Resolver) Category(position, subPosition, gol string) model.OrganizationalCategory {
	return r.Resolve(position, subPosition, gol).Category
}

func (r *Resolver) logWarning(position, subPosition string, res Resolution) {
	w := res.Warning
	fields := []zap.Field{
		zap.String("position", position),
		zap.String("sub_position", subPosition),
		zap.String("golongan", w.Golongan),
		zap.String("position_level", string(w.PositionLevel)),
		zap.String("golongan_level", string(w.GolonganSuggestedLevel)),
		zap.String("resolved", string(res.Category)),
		zap.String("severity", string(w.Severity)),
	}
	const msg = "orglevel: golongan disagrees with position"
	switch w.Severity {
	case model.SeverityHigh:
		r.log.Error(msg, fields...)
	case model.SeverityMedium:
		r.log.Warn(msg, fields...)
	default:
		r.log.Info(msg, fields...)
	}
}

// CheckConsistency returns a warning when the golongan suggests a
// category at least two steps above the position's. Other positions
// carry no signal to disagree with.
func CheckConsistency(gol string, positionLevel, golonganLevel model.OrganizationalCategory) *model.DataInconsistencyWarning {
	if golonganLevel == "" || positionLevel == model.CategoryOther {
		return nil
	}
	gap := golonganLevel.Rank() - positionLevel.Rank()
	if gap < 2 {
		return nil
	}
	sev := model.SeverityMedium
	if gap >= 3 {
		sev = model.SeverityHigh
	}
	return &model.DataInconsistencyWarning{
		Golongan:               gol,
		PositionLevel:          positionLevel,
		GolonganSuggestedLevel: golonganLevel,
		Severity:               sev,
	}
}

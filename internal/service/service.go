// Package service wires the parsers, the store and the report together
// for the CLI commands and HTTP handlers.
package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/kinerja-cli/internal/model"
	"github.com/sells-group/kinerja-cli/internal/orglevel"
	"github.com/sells-group/kinerja-cli/internal/performance"
	"github.com/sells-group/kinerja-cli/internal/report"
	"github.com/sells-group/kinerja-cli/internal/resilience"
	"github.com/sells-group/kinerja-cli/internal/roster"
	"github.com/sells-group/kinerja-cli/internal/store"
)

// Options configure a Service.
type Options struct {
	// StaticLevels is the name to level mapping from the static levels file.
	StaticLevels map[string]string
	LegacyRemap  bool
	Weights      report.Weights
	// Concurrency bounds parallel roster parsing. Values below 1 mean 1.
	Concurrency int
	// Retry governs store writes; the zero value uses resilience.DefaultPolicy.
	Retry  resilience.Policy
	Logger *zap.Logger
}

// Service runs roster and performance imports against a Store.
type Service struct {
	store        store.Store
	roster       *roster.Parser
	perf         *performance.Parser
	resolver     *orglevel.Resolver
	staticLevels map[string]string
	weights      report.Weights
	concurrency  int
	retry        resilience.Policy
	log          *zap.Logger
}

// New creates a Service. st may be nil for preview-only use.
func New(st store.Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	resolver := orglevel.NewResolver(log)
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:        st,
		roster:       roster.NewParser(resolver),
		perf:         performance.NewParser(resolver, performance.Options{LegacyRemap: opts.LegacyRemap}),
		resolver:     resolver,
		staticLevels: opts.StaticLevels,
		weights:      opts.Weights,
		concurrency:  concurrency,
		retry:        retryPolicy(opts.Retry, log),
		log:          log,
	}
}

func retryPolicy(p resilience.Policy, log *zap.Logger) resilience.Policy {
	if p.MaxAttempts == 0 {
		p = resilience.DefaultPolicy()
	}
	if p.OnRetry == nil {
		p.OnRetry = resilience.LogRetry(log, "store write")
	}
	return p
}

// Preview is a parsed roster with its validation verdict.
type Preview struct {
	Records    []model.EmployeeRecord  `json:"records"`
	Validation roster.ValidationResult `json:"validation"`
}

// Inconsistency pairs a roster record with the warning its resolution raised.
type Inconsistency struct {
	Name    string                         `json:"name"`
	Warning model.DataInconsistencyWarning `json:"warning"`
}

// Resolve exposes the resolver for single-employee classification.
func (s *Service) Resolve(position, subPosition, gol string) orglevel.Resolution {
	return s.resolver.Resolve(position, subPosition, gol)
}

// PreviewRoster parses and validates text without storing anything.
func (s *Service) PreviewRoster(text string) (*Preview, error) {
	records, err := s.roster.Parse(text)
	if err != nil {
		return nil, err
	}
	return &Preview{Records: records, Validation: roster.Validate(text)}, nil
}

// ParseRosters parses each text concurrently and concatenates the
// records in input order.
func (s *Service) ParseRosters(ctx context.Context, texts []string) ([]model.EmployeeRecord, error) {
	parsed := make([][]model.EmployeeRecord, len(texts))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			records, err := s.roster.Parse(text)
			if err != nil {
				return eris.Wrapf(err, "service: parse roster %d", i+1)
			}
			parsed[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.EmployeeRecord
	for _, records := range parsed {
		out = append(out, records...)
	}
	return out, nil
}

// ImportRoster parses texts and stores every record.
func (s *Service) ImportRoster(ctx context.Context, texts ...string) ([]model.StoredEmployee, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	records, err := s.ParseRosters(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.New("service: roster has no employees")
	}
	saved, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) ([]model.StoredEmployee, error) {
		return s.store.SaveEmployees(ctx, records)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("service: roster imported", zap.Int("employees", len(saved)))
	return saved, nil
}

// Inconsistencies lists the records whose golongan disagrees with their
// position title.
func (s *Service) Inconsistencies(records []model.EmployeeRecord) []Inconsistency {
	var out []Inconsistency
	for _, r := range records {
		res := s.resolver.Resolve(r.Position, r.SubPosition, r.Gol)
		if res.Warning != nil {
			out = append(out, Inconsistency{Name: r.Name, Warning: *res.Warning})
		}
	}
	return out
}

// Mappings assembles the level lookups for a performance import. Session
// overrides are dynamic; stored roster levels layered over the static
// levels file are static.
func (s *Service) Mappings(ctx context.Context, sessionID string) (performance.Mappings, error) {
	m := performance.Mappings{Static: performance.Merge(s.staticLevels)}
	if s.store == nil {
		return m, nil
	}
	stored, err := s.store.LevelMapping(ctx)
	if err != nil {
		return m, err
	}
	m.Static = performance.Merge(s.staticLevels, stored)
	if sessionID != "" {
		levels, err := s.store.SessionLevels(ctx, sessionID)
		if err != nil {
			return m, err
		}
		m.Dynamic = levels
	}
	return m, nil
}

// ParsePerformance parses a score sheet using the mappings of sessionID,
// which may be empty.
func (s *Service) ParsePerformance(ctx context.Context, sessionID, text string) ([]model.Employee, error) {
	m, err := s.Mappings(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.perf.Parse(text, m)
}

// ImportPerformance parses text into a session and stores the results.
// With an empty sessionID a new session named name is created.
func (s *Service) ImportPerformance(ctx context.Context, sessionID, name, text string) (*model.Session, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	if sessionID == "" && strings.TrimSpace(name) == "" {
		return nil, eris.New("service: session name is required")
	}
	if sessionID != "" {
		if _, err := s.store.GetSession(ctx, sessionID); err != nil {
			return nil, err
		}
	}

	// A new session has no overrides yet, so parse before creating it.
	results, err := s.ParsePerformance(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}
	created := false
	if sessionID == "" {
		sess, err := s.store.CreateSession(ctx, name)
		if err != nil {
			return nil, err
		}
		sessionID, created = sess.ID, true
	}
	err = resilience.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.store.SaveSessionResults(ctx, sessionID, results)
	})
	if err != nil {
		if created {
			s.discardSession(context.WithoutCancel(ctx), sessionID)
		}
		return nil, err
	}
	s.log.Info("service: performance imported",
		zap.String("session", sessionID),
		zap.Int("employees", len(results)),
	)
	return s.store.GetSession(ctx, sessionID)
}

// discardSession removes a session this import created but could not fill.
func (s *Service) discardSession(ctx context.Context, id string) {
	if err := s.store.DeleteSession(ctx, id); err != nil {
		s.log.Warn("service: discard empty session", zap.String("session", id), zap.Error(err))
	}
}

// SetLevel records an in-session level override. The level must name
// an organizational category.
func (s *Service) SetLevel(ctx context.Context, sessionID, name, level string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return eris.New("service: employee name is required")
	}
	c, ok := model.ParseCategory(level)
	if !ok {
		return eris.Errorf("service: unknown organizational level %q", level)
	}
	return s.store.SetSessionLevel(ctx, sessionID, name, string(c))
}

// Report summarizes the stored results of a session.
func (s *Service) Report(ctx context.Context, sessionID string) ([]report.Summary, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return report.Summarize(sess.Results, s.weights), nil
}

func (s *Service) requireStore() error {
	if s.store == nil {
		return eris.New("service: no store configured")
	}
	return nil
}

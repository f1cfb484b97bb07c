package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/camellia2077/idset/internal/textfile"
)

// Classifier decides whether a raw token is a well-formed ID and returns its
// canonical form. validator.Grammar implements it.
type Classifier interface {
	Classify(raw string) (string, bool)
}

// LineReader returns the lines of a text source.
type LineReader func(path string) ([]string, error)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLineReader replaces the reader used by PerformImport.
func WithLineReader(fn LineReader) Option {
	return func(s *Service) {
		if fn != nil {
			s.readLines = fn
		}
	}
}

// Service admits raw tokens into the currently selected database and answers
// existence queries against it. After every call Status and LastResult
// describe the outcome.
//
// Problems with user input are reported through Status only. A returned error
// always means a persistence fault; the batch that hit it has been rolled back.
type Service struct {
	registry   Registry
	classifier Classifier
	readLines  LineReader
	logger     *slog.Logger

	mu     sync.RWMutex
	status Status
	result OperationResult
}

// NewService creates a new Service.
func NewService(registry Registry, classifier Classifier, opts ...Option) *Service {
	s := &Service{
		registry:   registry,
		classifier: classifier,
		readLines:  textfile.ReadLines,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		status:     StatusWelcome,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the outcome of the last call.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LastResult returns the counters of the last call.
func (s *Service) LastResult() OperationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// CurrentDatabase returns the name of the selected database, or "".
func (s *Service) CurrentDatabase() string {
	return s.registry.CurrentName()
}

// DatabaseNames lists every known database.
func (s *Service) DatabaseNames() ([]string, error) {
	return s.registry.Names()
}

// TotalRecords returns the size of the selected database.
func (s *Service) TotalRecords(ctx context.Context) (int, error) {
	ks, _, ok := s.registry.Current()
	if !ok {
		return 0, ErrNoDatabase
	}
	return ks.Count(ctx)
}

// LoadDatabase selects the default database.
func (s *Service) LoadDatabase(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	if err := s.registry.LoadDefault(ctx); err != nil {
		s.status = StatusDBNotFound
		return fmt.Errorf("failed to load default database: %w", err)
	}
	s.result.Database = s.registry.CurrentName()
	s.status = StatusLoaded
	return nil
}

// SetCurrentDatabase selects an existing database.
func (s *Service) SetCurrentDatabase(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	err := s.registry.SwitchTo(ctx, name)
	switch {
	case err == nil:
		s.result.Database = s.registry.CurrentName()
		s.status = StatusSwitched
		s.logger.Info("database switched", "database", s.result.Database)
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNameEmpty), errors.Is(err, ErrInvalidName):
		s.status = StatusDBNotFound
		return nil
	default:
		s.status = StatusDBNotFound
		return err
	}
}

// PerformCreateDatabase creates a new database and selects it.
func (s *Service) PerformCreateDatabase(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	err := s.registry.Create(ctx, name)
	switch {
	case err == nil:
		s.result.Database = s.registry.CurrentName()
		s.status = StatusCreated
		return nil
	case errors.Is(err, ErrNameEmpty):
		s.status = StatusDBNameEmpty
		return nil
	case errors.Is(err, ErrNameExists):
		s.status = StatusDBNameExists
		return nil
	case errors.Is(err, ErrInvalidName):
		s.status = StatusDBCreateFailed
		return nil
	default:
		s.status = StatusDBCreateFailed
		s.logger.Error("database creation failed", "name", name, "error", err)
		return err
	}
}

// PerformAdd records every valid whitespace-separated token of text.
func (s *Service) PerformAdd(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	ks, name, ok := s.registry.Current()
	if !ok {
		s.status = StatusDBNotFound
		return nil
	}
	s.result.Database = name

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		s.status = StatusAddInputEmpty
		return nil
	}

	res, err := s.admit(ctx, ks, tokens)
	if err != nil {
		return s.saveFailed(name, err)
	}
	res.Database = name
	s.result = res

	if res.Invalid == len(tokens) {
		s.status = StatusTokenInvalid
	} else {
		s.status = StatusAddCompleted
	}
	s.logger.Info("add completed", "database", name, "success", res.Success, "exists", res.Exists, "invalid", res.Invalid)
	return nil
}

// PerformQuery checks every whitespace-separated token of text for existence.
func (s *Service) PerformQuery(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	ks, name, ok := s.registry.Current()
	if !ok {
		s.status = StatusDBNotFound
		return nil
	}
	s.result.Database = name

	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		s.status = StatusQueryInputEmpty
		return nil
	}

	res := OperationResult{Database: name}
	for _, tok := range tokens {
		id, valid := s.classifier.Classify(tok)
		if !valid {
			res.Invalid++
			continue
		}
		found, err := ks.Exists(ctx, id)
		if err != nil {
			return s.saveFailed(name, err)
		}
		if found {
			res.Success++
		} else {
			res.NotFound++
		}
	}
	s.result = res

	if res.Invalid == len(tokens) {
		s.status = StatusTokenInvalid
	} else {
		s.status = StatusQueryCompleted
	}
	return nil
}

// PerformImport records every valid line of the text file at path.
// Lines are trimmed and blank lines are skipped. A file whose lines are all
// malformed reports StatusTokenInvalid, like an add of only bad tokens.
func (s *Service) PerformImport(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = OperationResult{}
	ks, name, ok := s.registry.Current()
	if !ok {
		s.status = StatusDBNotFound
		return nil
	}
	s.result.Database = name

	lines, err := s.readLines(path)
	if err != nil {
		s.logger.Warn("import source unreadable", "path", path, "error", err)
		s.status = StatusFileOpenFailed
		return nil
	}

	tokens := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			tokens = append(tokens, line)
		}
	}
	if len(tokens) == 0 {
		s.status = StatusFileEmpty
		return nil
	}

	res, err := s.admit(ctx, ks, tokens)
	if err != nil {
		return s.saveFailed(name, err)
	}
	res.Database = name
	s.result = res

	if res.Invalid == len(tokens) {
		s.status = StatusTokenInvalid
	} else {
		s.status = StatusImportCompleted
	}
	s.logger.Info("import completed", "database", name, "path", path, "success", res.Success, "exists", res.Exists, "invalid", res.Invalid)
	return nil
}

// adder is the write side shared by KeySet and Transaction.
type adder interface {
	Add(ctx context.Context, id string) (bool, error)
}

// admit classifies tokens and adds the valid ones. Storage is only touched when
// at least one token is valid. On a transactional store the whole batch is one
// transaction: either every new id is stored or none is.
func (s *Service) admit(ctx context.Context, ks KeySet, tokens []string) (OperationResult, error) {
	var res OperationResult

	ids := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if id, valid := s.classifier.Classify(tok); valid {
			ids = append(ids, id)
		} else {
			res.Invalid++
		}
	}
	if len(ids) == 0 {
		return res, nil
	}

	target := adder(ks)
	var tx Transaction
	if tr, ok := ks.(Transactional); ok {
		var err error
		if tx, err = tr.Begin(ctx); err != nil {
			return OperationResult{}, err
		}
		target = tx
	}

	for _, id := range ids {
		added, err := target.Add(ctx, id)
		if err != nil {
			if tx != nil {
				_ = tx.Rollback(ctx)
			}
			return OperationResult{}, err
		}
		if added {
			res.Success++
		} else {
			res.Exists++
		}
	}

	if tx != nil {
		if err := tx.Commit(ctx); err != nil {
			_ = tx.Rollback(ctx)
			return OperationResult{}, err
		}
	}
	return res, nil
}

func (s *Service) saveFailed(name string, err error) error {
	s.status = StatusSaveFailed
	s.logger.Error("persistence failed", "database", name, "error", err)
	return fmt.Errorf("failed to update %s: %w", name, err)
}

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cleared-dev/credited/internal/model"
	"github.com/cleared-dev/credited/internal/tax"
)

// KV is the persistence the Service needs: a string value per key.
type KV interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

// Keys under which the Service stores its state.
const (
	KeyTransactions = "transactions"
	KeyProfile      = "profile"
)

// Service owns the transaction list and profile. Mutations are serialized;
// readers get a copy of the list.
type Service struct {
	mu        sync.Mutex
	kv        KV
	assembler *Assembler
	brackets  []model.TaxBracket
	fallback  *model.Profile
}

// NewService creates a Service over kv.
func NewService(kv KV, assembler *Assembler, brackets []model.TaxBracket) *Service {
	return &Service{kv: kv, assembler: assembler, brackets: brackets}
}

// WithDefaultProfile sets the profile used until one is saved.
func (s *Service) WithDefaultProfile(p *model.Profile) *Service {
	s.fallback = p
	return s
}

// Brackets returns the tax schedule the Service summarizes with.
func (s *Service) Brackets() []model.TaxBracket { return s.brackets }

// Transactions returns the ledger in insertion order.
func (s *Service) Transactions(ctx context.Context) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadTransactions(ctx)
}

// Classify runs the classifier against text with the current profile.
func (s *Service) Classify(ctx context.Context, text string) (model.Decision, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return model.Decision{}, err
	}
	return s.assembler.Classify(Sanitize(text), profile), nil
}

// Submit assembles text into a transaction and appends it to the ledger.
// Rejected alerts return a *Rejection and leave the ledger untouched.
func (s *Service) Submit(ctx context.Context, text string) (model.Transaction, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return model.Transaction{}, err
	}

	txn, err := s.assembler.Assemble(Sanitize(text), profile)
	if err != nil {
		return model.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.loadTransactions(ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	txns = append(txns, txn)
	if err := s.saveTransactions(ctx, txns); err != nil {
		return model.Transaction{}, err
	}
	return txn, nil
}

// Remove deletes the transaction with id.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txns, err := s.loadTransactions(ctx)
	if err != nil {
		return err
	}

	kept := txns[:0]
	found := false
	for _, txn := range txns {
		if txn.ID == id {
			found = true
			continue
		}
		kept = append(kept, txn)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.saveTransactions(ctx, kept)
}

// Summary computes tax over the current ledger.
func (s *Service) Summary(ctx context.Context) (model.TaxSummary, error) {
	txns, err := s.Transactions(ctx)
	if err != nil {
		return model.TaxSummary{}, err
	}
	return tax.Summarize(txns, s.brackets), nil
}

// Profile returns the saved profile, the default profile, or nil.
func (s *Service) Profile(ctx context.Context) (*model.Profile, error) {
	raw, ok, err := s.kv.Load(ctx, KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if !ok {
		if s.fallback.HasName() {
			return s.fallback, nil
		}
		return nil, nil
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if !p.HasName() {
		return nil, nil
	}
	return &p, nil
}

// SetProfile saves p. A blank display name turns name matching off.
func (s *Service) SetProfile(ctx context.Context, p model.Profile) error {
	p.DisplayName = Sanitize(p.DisplayName)
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := s.kv.Save(ctx, KeyProfile, string(data)); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *Service) loadTransactions(ctx context.Context) ([]model.Transaction, error) {
	raw, ok, err := s.kv.Load(ctx, KeyTransactions)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}

	var txns []model.Transaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		return nil, fmt.Errorf("parsing transactions: %w", err)
	}
	return txns, nil
}

func (s *Service) saveTransactions(ctx context.Context, txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	data, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("marshaling transactions: %w", err)
	}
	if err := s.kv.Save(ctx, KeyTransactions, string(data)); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}
	return nil
}

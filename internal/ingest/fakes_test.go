package ingest_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"gorm.io/datatypes"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
	"github.com/gnosis-pm/pm-indexer/internal/store/schema"
)

// fakeStore is an in-memory store mirroring the PostgreSQL semantics the
// handlers rely on: address-keyed conflict detection, nil on missing reads,
// and a ledger that rejects balance-negative mutations without side effects.
type fakeStore struct {
	store.Store

	descriptions map[string]*schema.EventDescription
	centralized  map[string]*schema.CentralizedOracle
	ultimate     map[string]*schema.UltimateOracle
	categorical  map[string]*schema.CategoricalEvent
	scalar       map[string]*schema.ScalarEvent
	markets      map[string]*schema.Market
	// tokens keyed by "eventAddress/index"
	tokens map[string]*fakeToken
	nextID int64
}

type fakeToken struct {
	address     string
	eventAddr   string
	index       int
	totalSupply *big.Int
	balances    map[string]*big.Int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		descriptions: make(map[string]*schema.EventDescription),
		centralized:  make(map[string]*schema.CentralizedOracle),
		ultimate:     make(map[string]*schema.UltimateOracle),
		categorical:  make(map[string]*schema.CategoricalEvent),
		scalar:       make(map[string]*schema.ScalarEvent),
		markets:      make(map[string]*schema.Market),
		tokens:       make(map[string]*fakeToken),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func tokenKey(eventAddress string, index int) string {
	return fmt.Sprintf("%s/%d", strings.ToLower(eventAddress), index)
}

func (f *fakeStore) GetEventDescriptionByHash(_ context.Context, contentHash string) (*schema.EventDescription, error) {
	return f.descriptions[contentHash], nil
}

func (f *fakeStore) CreateEventDescription(_ context.Context, input store.CreateEventDescriptionInput) (*schema.EventDescription, error) {
	if existing, ok := f.descriptions[input.ContentHash]; ok {
		return existing, nil
	}
	var outcomes []byte
	if input.Outcomes != nil {
		outcomes, _ = json.Marshal(input.Outcomes)
	}
	desc := &schema.EventDescription{
		ID:             f.id(),
		ContentHash:    input.ContentHash,
		Type:           input.Type,
		Title:          input.Title,
		Description:    input.Description,
		ResolutionDate: input.ResolutionDate,
		Outcomes:       datatypes.JSON(outcomes),
		Unit:           input.Unit,
		Decimals:       input.Decimals,
		Raw:            datatypes.JSON(input.Raw),
	}
	f.descriptions[input.ContentHash] = desc
	return desc, nil
}

func (f *fakeStore) GetCentralizedOracleByAddress(_ context.Context, address string) (*schema.CentralizedOracle, error) {
	return f.centralized[strings.ToLower(address)], nil
}

func (f *fakeStore) GetOracleByAddress(_ context.Context, address string) (*store.OracleRecord, error) {
	if o, ok := f.centralized[strings.ToLower(address)]; ok {
		var desc *schema.EventDescription
		for _, d := range f.descriptions {
			if d.ID == o.DescriptionID {
				desc = d
			}
		}
		return &store.OracleRecord{
			Kind:        domain.OracleCentralized,
			Address:     o.Address,
			Creator:     o.Creator,
			Description: desc,
		}, nil
	}
	if o, ok := f.ultimate[strings.ToLower(address)]; ok {
		return &store.OracleRecord{
			Kind:    domain.OracleUltimate,
			Address: o.Address,
			Creator: o.Creator,
		}, nil
	}
	return nil, nil
}

func (f *fakeStore) GetEventByAddress(_ context.Context, address string) (*store.EventRecord, error) {
	if e, ok := f.categorical[strings.ToLower(address)]; ok {
		return &store.EventRecord{
			Kind:            domain.EventKindCategorical,
			Address:         e.Address,
			Creator:         e.Creator,
			CollateralToken: e.CollateralToken,
			OracleAddress:   e.OracleAddress,
			OutcomeCount:    e.OutcomeCount,
		}, nil
	}
	if e, ok := f.scalar[strings.ToLower(address)]; ok {
		return &store.EventRecord{
			Kind:            domain.EventKindScalar,
			Address:         e.Address,
			Creator:         e.Creator,
			CollateralToken: e.CollateralToken,
			OracleAddress:   e.OracleAddress,
			OutcomeCount:    2,
			LowerBound:      e.LowerBound,
			UpperBound:      e.UpperBound,
		}, nil
	}
	return nil, nil
}

func (f *fakeStore) GetMarketByAddress(_ context.Context, address string) (*schema.Market, error) {
	return f.markets[strings.ToLower(address)], nil
}

func (f *fakeStore) CreateCentralizedOracle(_ context.Context, input store.CreateCentralizedOracleInput) error {
	key := strings.ToLower(input.Address)
	if _, ok := f.centralized[key]; ok {
		return fmt.Errorf("centralized oracle %s: %w", input.Address, domain.ErrConflict)
	}
	f.centralized[key] = &schema.CentralizedOracle{
		ID:             f.id(),
		Address:        input.Address,
		FactoryAddress: input.FactoryAddress,
		Creator:        input.Creator,
		CreationBlock:  input.CreationBlock,
		CreationTime:   input.CreationTime,
		DescriptionID:  input.DescriptionID,
	}
	return nil
}

func (f *fakeStore) CreateUltimateOracle(_ context.Context, input store.CreateUltimateOracleInput) error {
	key := strings.ToLower(input.Address)
	if _, ok := f.ultimate[key]; ok {
		return fmt.Errorf("ultimate oracle %s: %w", input.Address, domain.ErrConflict)
	}
	f.ultimate[key] = &schema.UltimateOracle{
		ID:                f.id(),
		Address:           input.Address,
		FactoryAddress:    input.FactoryAddress,
		Creator:           input.Creator,
		CreationBlock:     input.CreationBlock,
		CreationTime:      input.CreationTime,
		ForwardedOracle:   input.ForwardedOracle,
		CollateralToken:   input.CollateralToken,
		SpreadMultiplier:  input.SpreadMultiplier.String(),
		ChallengePeriod:   input.ChallengePeriod,
		ChallengeAmount:   input.ChallengeAmount.String(),
		FrontRunnerPeriod: input.FrontRunnerPeriod,
	}
	return nil
}

func (f *fakeStore) createTokens(eventAddress string, count int) {
	for i := range count {
		f.tokens[tokenKey(eventAddress, i)] = &fakeToken{
			eventAddr:   eventAddress,
			index:       i,
			totalSupply: big.NewInt(0),
			balances:    make(map[string]*big.Int),
		}
	}
}

func (f *fakeStore) CreateCategoricalEvent(_ context.Context, input store.CreateCategoricalEventInput) error {
	key := strings.ToLower(input.Address)
	if _, ok := f.categorical[key]; ok {
		return fmt.Errorf("categorical event %s: %w", input.Address, domain.ErrConflict)
	}
	f.categorical[key] = &schema.CategoricalEvent{
		ID:              f.id(),
		Address:         input.Address,
		FactoryAddress:  input.FactoryAddress,
		Creator:         input.Creator,
		CreationBlock:   input.CreationBlock,
		CreationTime:    input.CreationTime,
		CollateralToken: input.CollateralToken,
		OracleAddress:   input.OracleAddress,
		OutcomeCount:    input.OutcomeCount,
	}
	f.createTokens(input.Address, input.OutcomeCount)
	return nil
}

func (f *fakeStore) CreateScalarEvent(_ context.Context, input store.CreateScalarEventInput) error {
	key := strings.ToLower(input.Address)
	if _, ok := f.scalar[key]; ok {
		return fmt.Errorf("scalar event %s: %w", input.Address, domain.ErrConflict)
	}
	f.scalar[key] = &schema.ScalarEvent{
		ID:              f.id(),
		Address:         input.Address,
		FactoryAddress:  input.FactoryAddress,
		Creator:         input.Creator,
		CreationBlock:   input.CreationBlock,
		CreationTime:    input.CreationTime,
		CollateralToken: input.CollateralToken,
		OracleAddress:   input.OracleAddress,
		LowerBound:      input.LowerBound.String(),
		UpperBound:      input.UpperBound.String(),
	}
	f.createTokens(input.Address, 2)
	return nil
}

func (f *fakeStore) CreateMarket(_ context.Context, input store.CreateMarketInput) error {
	key := strings.ToLower(input.Address)
	if _, ok := f.markets[key]; ok {
		return fmt.Errorf("market %s: %w", input.Address, domain.ErrConflict)
	}
	f.markets[key] = &schema.Market{
		ID:             f.id(),
		Address:        input.Address,
		FactoryAddress: input.FactoryAddress,
		Creator:        input.Creator,
		CreationBlock:  input.CreationBlock,
		CreationTime:   input.CreationTime,
		OracleAddress:  input.OracleAddress,
		EventAddress:   input.EventAddress,
		MarketMaker:    input.MarketMaker,
		Fee:            input.Fee,
	}
	return nil
}

func (f *fakeStore) BindOutcomeTokenAddress(_ context.Context, input store.BindOutcomeTokenInput) error {
	token, ok := f.tokens[tokenKey(input.EventAddress, input.Index)]
	if !ok {
		return fmt.Errorf("outcome token %s[%d]: %w", input.EventAddress, input.Index, domain.ErrNotFound)
	}
	if token.address != "" {
		return fmt.Errorf("outcome token %s[%d]: %w", input.EventAddress, input.Index, domain.ErrConflict)
	}
	token.address = input.TokenAddress
	return nil
}

func (f *fakeStore) tokenByAddress(address string) *fakeToken {
	for _, t := range f.tokens {
		if t.address != "" && strings.EqualFold(t.address, address) {
			return t
		}
	}
	return nil
}

func (f *fakeStore) IssueOutcomeTokens(_ context.Context, tokenAddress, owner string, amount *big.Int) error {
	token := f.tokenByAddress(tokenAddress)
	if token == nil {
		return fmt.Errorf("outcome token %s: %w", tokenAddress, domain.ErrNotFound)
	}
	token.credit(owner, amount)
	token.totalSupply.Add(token.totalSupply, amount)
	return nil
}

func (f *fakeStore) RevokeOutcomeTokens(_ context.Context, tokenAddress, owner string, amount *big.Int) error {
	token := f.tokenByAddress(tokenAddress)
	if token == nil {
		return fmt.Errorf("outcome token %s: %w", tokenAddress, domain.ErrNotFound)
	}
	if token.balance(owner).Cmp(amount) < 0 {
		return fmt.Errorf("revoke %s from %s: %w", amount, owner, domain.ErrInsufficientBalance)
	}
	token.credit(owner, new(big.Int).Neg(amount))
	token.totalSupply.Sub(token.totalSupply, amount)
	return nil
}

func (f *fakeStore) TransferOutcomeTokens(_ context.Context, tokenAddress, from, to string, amount *big.Int) error {
	token := f.tokenByAddress(tokenAddress)
	if token == nil {
		return fmt.Errorf("outcome token %s: %w", tokenAddress, domain.ErrNotFound)
	}
	if token.balance(from).Cmp(amount) < 0 {
		return fmt.Errorf("transfer %s from %s: %w", amount, from, domain.ErrInsufficientBalance)
	}
	if strings.EqualFold(from, to) {
		return nil
	}
	token.credit(from, new(big.Int).Neg(amount))
	token.credit(to, amount)
	return nil
}

func (t *fakeToken) balance(owner string) *big.Int {
	if b, ok := t.balances[strings.ToLower(owner)]; ok {
		return b
	}
	return big.NewInt(0)
}

func (t *fakeToken) credit(owner string, amount *big.Int) {
	key := strings.ToLower(owner)
	if _, ok := t.balances[key]; !ok {
		t.balances[key] = big.NewInt(0)
	}
	t.balances[key].Add(t.balances[key], amount)
}

// balancesTotal sums every balance held on the token.
func (t *fakeToken) balancesTotal() *big.Int {
	total := big.NewInt(0)
	for _, b := range t.balances {
		total.Add(total, b)
	}
	return total
}

// fakeResolver serves persisted descriptions from the store and canned
// pending documents, mimicking the real resolver's not-found classification.
type fakeResolver struct {
	store   *fakeStore
	pending map[string]store.CreateEventDescriptionInput
}

func (r *fakeResolver) Resolve(ctx context.Context, contentHash string) (*schema.EventDescription, error) {
	if existing := r.store.descriptions[contentHash]; existing != nil {
		return existing, nil
	}
	input, ok := r.pending[contentHash]
	if !ok {
		return nil, fmt.Errorf("description %s unresolvable: %w", contentHash, domain.ErrNotFound)
	}
	return r.store.CreateEventDescription(ctx, input)
}

// fakeMakers is an allow-list over a fixed address set
type fakeMakers struct {
	allowed map[string]bool
}

func (m *fakeMakers) IsAllowed(address string) bool {
	return m.allowed[strings.ToLower(address)]
}

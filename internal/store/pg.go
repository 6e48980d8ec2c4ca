package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults:
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// parseNumeric parses a numeric(78,0) column value into a big integer.
func parseNumeric(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return n, nil
}

// =============================================================================
// Event descriptions
// =============================================================================

// GetEventDescriptionByHash retrieves a description by its content hash
func (s *pgStore) GetEventDescriptionByHash(ctx context.Context, contentHash string) (*schema.EventDescription, error) {
	var desc schema.EventDescription
	err := s.db.WithContext(ctx).Where("content_hash = ?", contentHash).First(&desc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event description: %w", err)
	}
	return &desc, nil
}

// CreateEventDescription persists a description document. Resolution is
// idempotent: a concurrent or repeated resolve of the same hash returns the
// already persisted row.
func (s *pgStore) CreateEventDescription(ctx context.Context, input CreateEventDescriptionInput) (*schema.EventDescription, error) {
	var outcomesJSON []byte
	if input.Outcomes != nil {
		var err error
		outcomesJSON, err = json.Marshal(input.Outcomes)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal outcomes: %w", err)
		}
	}

	desc := schema.EventDescription{
		ContentHash:    input.ContentHash,
		Type:           input.Type,
		Title:          input.Title,
		Description:    input.Description,
		ResolutionDate: input.ResolutionDate,
		Outcomes:       datatypes.JSON(outcomesJSON),
		Unit:           input.Unit,
		Decimals:       input.Decimals,
		Raw:            datatypes.JSON(input.Raw),
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "content_hash"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(&desc).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create event description: %w", err)
	}

	// ID == 0 means the hash was already resolved, so fetch the existing row
	if desc.ID == 0 {
		existing, err := s.GetEventDescriptionByHash(ctx, input.ContentHash)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("event description %s vanished after conflict", input.ContentHash)
		}
		return existing, nil
	}

	return &desc, nil
}

// =============================================================================
// Entity reads
// =============================================================================

// GetCentralizedOracleByAddress retrieves a centralized oracle by address
func (s *pgStore) GetCentralizedOracleByAddress(ctx context.Context, address string) (*schema.CentralizedOracle, error) {
	var oracle schema.CentralizedOracle
	err := s.db.WithContext(ctx).Preload("Description").Where("address = ?", address).First(&oracle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get centralized oracle: %w", err)
	}
	return &oracle, nil
}

// GetUltimateOracleByAddress retrieves an ultimate oracle by address
func (s *pgStore) GetUltimateOracleByAddress(ctx context.Context, address string) (*schema.UltimateOracle, error) {
	var oracle schema.UltimateOracle
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&oracle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ultimate oracle: %w", err)
	}
	return &oracle, nil
}

// GetOracleByAddress retrieves an oracle of either variant by address
func (s *pgStore) GetOracleByAddress(ctx context.Context, address string) (*OracleRecord, error) {
	centralized, err := s.GetCentralizedOracleByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if centralized != nil {
		return &OracleRecord{
			Kind:        domain.OracleCentralized,
			Address:     centralized.Address,
			Creator:     centralized.Creator,
			Description: &centralized.Description,
		}, nil
	}

	ultimate, err := s.GetUltimateOracleByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if ultimate != nil {
		return &OracleRecord{
			Kind:    domain.OracleUltimate,
			Address: ultimate.Address,
			Creator: ultimate.Creator,
		}, nil
	}

	return nil, nil
}

// GetEventByAddress retrieves an event of either variant by address
func (s *pgStore) GetEventByAddress(ctx context.Context, address string) (*EventRecord, error) {
	var categorical schema.CategoricalEvent
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&categorical).Error
	if err == nil {
		record := categoricalEventRecord(categorical)
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get categorical event: %w", err)
	}

	var scalar schema.ScalarEvent
	err = s.db.WithContext(ctx).Where("address = ?", address).First(&scalar).Error
	if err == nil {
		record := scalarEventRecord(scalar)
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get scalar event: %w", err)
	}

	return nil, nil
}

func categoricalEventRecord(e schema.CategoricalEvent) EventRecord {
	return EventRecord{
		Kind:            domain.EventKindCategorical,
		Address:         e.Address,
		FactoryAddress:  e.FactoryAddress,
		Creator:         e.Creator,
		CreationBlock:   e.CreationBlock,
		CreationTime:    e.CreationTime,
		CollateralToken: e.CollateralToken,
		OracleAddress:   e.OracleAddress,
		OutcomeCount:    e.OutcomeCount,
	}
}

func scalarEventRecord(e schema.ScalarEvent) EventRecord {
	return EventRecord{
		Kind:            domain.EventKindScalar,
		Address:         e.Address,
		FactoryAddress:  e.FactoryAddress,
		Creator:         e.Creator,
		CreationBlock:   e.CreationBlock,
		CreationTime:    e.CreationTime,
		CollateralToken: e.CollateralToken,
		OracleAddress:   e.OracleAddress,
		OutcomeCount:    2,
		LowerBound:      e.LowerBound,
		UpperBound:      e.UpperBound,
	}
}

// GetMarketByAddress retrieves a market by address
func (s *pgStore) GetMarketByAddress(ctx context.Context, address string) (*schema.Market, error) {
	var market schema.Market
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&market).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	return &market, nil
}

// GetOutcomeTokenByAddress retrieves an outcome token by its bound address
func (s *pgStore) GetOutcomeTokenByAddress(ctx context.Context, address string) (*schema.OutcomeToken, error) {
	var token schema.OutcomeToken
	err := s.db.WithContext(ctx).Where("address = ?", address).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get outcome token: %w", err)
	}
	return &token, nil
}

// GetOutcomeTokensByEvent retrieves an event's outcome tokens ordered by index
func (s *pgStore) GetOutcomeTokensByEvent(ctx context.Context, eventAddress string) ([]schema.OutcomeToken, error) {
	var tokens []schema.OutcomeToken
	err := s.db.WithContext(ctx).
		Where("event_address = ?", eventAddress).
		Order("index ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome tokens: %w", err)
	}
	return tokens, nil
}

// GetBalancesByToken retrieves every balance row of an outcome token
func (s *pgStore) GetBalancesByToken(ctx context.Context, tokenAddress string) ([]schema.OutcomeTokenBalance, error) {
	token, err := s.GetOutcomeTokenByAddress(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, fmt.Errorf("outcome token %s: %w", tokenAddress, domain.ErrNotFound)
	}

	var balances []schema.OutcomeTokenBalance
	err = s.db.WithContext(ctx).
		Where("outcome_token_id = ?", token.ID).
		Order("owner_address ASC").
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get token balances: %w", err)
	}
	return balances, nil
}

// GetBalancesByOwner retrieves an owner's balances across all outcome tokens
func (s *pgStore) GetBalancesByOwner(ctx context.Context, ownerAddress string) ([]schema.OutcomeTokenBalance, error) {
	var balances []schema.OutcomeTokenBalance
	err := s.db.WithContext(ctx).
		Preload("OutcomeToken").
		Where("owner_address = ?", ownerAddress).
		Find(&balances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get owner balances: %w", err)
	}
	return balances, nil
}

// =============================================================================
// Entity listings
// =============================================================================

func applyEntityFilter(q *gorm.DB, filter EntityFilter) *gorm.DB {
	if filter.Creator != "" {
		q = q.Where("creator = ?", filter.Creator)
	}
	if filter.CreatedAfter != nil {
		q = q.Where("creation_time >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		q = q.Where("creation_time <= ?", *filter.CreatedBefore)
	}
	return q
}

func paginate(q *gorm.DB, filter EntityFilter) *gorm.DB {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	return q.Order("creation_time DESC, id DESC").Limit(limit).Offset(int(filter.Offset))
}

// ListCentralizedOracles lists centralized oracles matching the filter
func (s *pgStore) ListCentralizedOracles(ctx context.Context, filter EntityFilter) ([]schema.CentralizedOracle, uint64, error) {
	q := applyEntityFilter(s.db.WithContext(ctx).Model(&schema.CentralizedOracle{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count centralized oracles: %w", err)
	}

	var oracles []schema.CentralizedOracle
	if err := paginate(q.Preload("Description"), filter).Find(&oracles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list centralized oracles: %w", err)
	}
	return oracles, uint64(total), nil
}

// ListUltimateOracles lists ultimate oracles matching the filter
func (s *pgStore) ListUltimateOracles(ctx context.Context, filter EntityFilter) ([]schema.UltimateOracle, uint64, error) {
	q := applyEntityFilter(s.db.WithContext(ctx).Model(&schema.UltimateOracle{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ultimate oracles: %w", err)
	}

	var oracles []schema.UltimateOracle
	if err := paginate(q, filter).Find(&oracles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list ultimate oracles: %w", err)
	}
	return oracles, uint64(total), nil
}

// ListEvents lists events of both variants matching the filter. The two
// variant tables are merged and ordered by creation time in memory.
func (s *pgStore) ListEvents(ctx context.Context, filter EntityFilter) ([]EventRecord, uint64, error) {
	var categorical []schema.CategoricalEvent
	err := applyEntityFilter(s.db.WithContext(ctx).Model(&schema.CategoricalEvent{}), filter).
		Find(&categorical).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categorical events: %w", err)
	}

	var scalar []schema.ScalarEvent
	err = applyEntityFilter(s.db.WithContext(ctx).Model(&schema.ScalarEvent{}), filter).
		Find(&scalar).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scalar events: %w", err)
	}

	records := make([]EventRecord, 0, len(categorical)+len(scalar))
	for _, e := range categorical {
		records = append(records, categoricalEventRecord(e))
	}
	for _, e := range scalar {
		records = append(records, scalarEventRecord(e))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreationTime.After(records[j].CreationTime)
	})

	total := uint64(len(records))
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := int(filter.Offset)
	if offset >= len(records) {
		return []EventRecord{}, total, nil
	}
	end := min(offset+limit, len(records))
	return records[offset:end], total, nil
}

// ListMarkets lists markets matching the filter
func (s *pgStore) ListMarkets(ctx context.Context, filter EntityFilter) ([]schema.Market, uint64, error) {
	q := applyEntityFilter(s.db.WithContext(ctx).Model(&schema.Market{}), filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count markets: %w", err)
	}

	var markets []schema.Market
	if err := paginate(q, filter).Find(&markets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list markets: %w", err)
	}
	return markets, uint64(total), nil
}

// =============================================================================
// Entity creation
// =============================================================================

// createOnce inserts a row guarded by its unique address index, mapping a
// duplicate address to domain.ErrConflict instead of reapplying.
func createOnce(tx *gorm.DB, entity any, id *int64, entityType, address string) error {
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoNothing: true,
	}).Clauses(clause.Returning{Columns: []clause.Column{}}).
		Create(entity).Error
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", entityType, err)
	}

	// ID == 0 means the insert was skipped: the address already exists
	if *id == 0 {
		return fmt.Errorf("%s %s: %w", entityType, address, domain.ErrConflict)
	}
	return nil
}

// CreateCentralizedOracle persists a centralized oracle
func (s *pgStore) CreateCentralizedOracle(ctx context.Context, input CreateCentralizedOracleInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oracle := schema.CentralizedOracle{
			Address:        input.Address,
			FactoryAddress: input.FactoryAddress,
			Creator:        input.Creator,
			CreationBlock:  input.CreationBlock,
			CreationTime:   input.CreationTime,
			DescriptionID:  input.DescriptionID,
		}
		return createOnce(tx, &oracle, &oracle.ID, "centralized oracle", input.Address)
	})
}

// CreateUltimateOracle persists an ultimate oracle
func (s *pgStore) CreateUltimateOracle(ctx context.Context, input CreateUltimateOracleInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oracle := schema.UltimateOracle{
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
		return createOnce(tx, &oracle, &oracle.ID, "ultimate oracle", input.Address)
	})
}

// CreateCategoricalEvent persists a categorical event together with one
// zero-supply outcome token per outcome index.
func (s *pgStore) CreateCategoricalEvent(ctx context.Context, input CreateCategoricalEventInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := schema.CategoricalEvent{
			Address:         input.Address,
			FactoryAddress:  input.FactoryAddress,
			Creator:         input.Creator,
			CreationBlock:   input.CreationBlock,
			CreationTime:    input.CreationTime,
			CollateralToken: input.CollateralToken,
			OracleAddress:   input.OracleAddress,
			OutcomeCount:    input.OutcomeCount,
		}
		if err := createOnce(tx, &event, &event.ID, "categorical event", input.Address); err != nil {
			return err
		}
		return createOutcomeTokens(tx, input.EntityMeta, input.OutcomeCount)
	})
}

// CreateScalarEvent persists a scalar event together with its short and long
// zero-supply outcome tokens.
func (s *pgStore) CreateScalarEvent(ctx context.Context, input CreateScalarEventInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := schema.ScalarEvent{
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
		if err := createOnce(tx, &event, &event.ID, "scalar event", input.Address); err != nil {
			return err
		}
		// Scalar events trade exactly two outcomes: short and long
		return createOutcomeTokens(tx, input.EntityMeta, 2)
	})
}

func createOutcomeTokens(tx *gorm.DB, meta EntityMeta, count int) error {
	tokens := make([]schema.OutcomeToken, count)
	for i := range count {
		tokens[i] = schema.OutcomeToken{
			EventAddress:  meta.Address,
			Index:         i,
			TotalSupply:   "0",
			CreationBlock: meta.CreationBlock,
			CreationTime:  meta.CreationTime,
		}
	}
	if err := tx.Create(&tokens).Error; err != nil {
		return fmt.Errorf("failed to create outcome tokens: %w", err)
	}
	return nil
}

// CreateMarket persists a market
func (s *pgStore) CreateMarket(ctx context.Context, input CreateMarketInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		market := schema.Market{
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
		return createOnce(tx, &market, &market.ID, "market", input.Address)
	})
}

// BindOutcomeTokenAddress sets the contract address of the outcome token row
// created alongside its event. Rebinding an already bound token is a conflict.
func (s *pgStore) BindOutcomeTokenAddress(ctx context.Context, input BindOutcomeTokenInput) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token schema.OutcomeToken
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("event_address = ? AND index = ?", input.EventAddress, input.Index).
			First(&token).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("outcome token %s[%d]: %w", input.EventAddress, input.Index, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to lock outcome token: %w", err)
		}

		if token.Address != nil {
			return fmt.Errorf("outcome token %s[%d]: %w", input.EventAddress, input.Index, domain.ErrConflict)
		}

		if err := tx.Model(&token).Update("address", input.TokenAddress).Error; err != nil {
			return fmt.Errorf("failed to bind outcome token address: %w", err)
		}
		return nil
	})
}

// =============================================================================
// Outcome token ledger
// =============================================================================

// lockOutcomeToken locks an outcome token row for the duration of the
// transaction, serializing every ledger mutation on the same token.
func lockOutcomeToken(tx *gorm.DB, address string) (*schema.OutcomeToken, error) {
	var token schema.OutcomeToken
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("address = ?", address).
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("outcome token %s: %w", address, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock outcome token: %w", err)
	}
	return &token, nil
}

// lockBalance locks an owner's balance row, creating it at zero when absent
// and allowed. The token row is already locked, so creation cannot race.
func lockBalance(tx *gorm.DB, tokenID int64, owner string, createIfAbsent bool) (*schema.OutcomeTokenBalance, error) {
	var balance schema.OutcomeTokenBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("outcome_token_id = ? AND owner_address = ?", tokenID, owner).
		First(&balance).Error
	if err == nil {
		return &balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	if !createIfAbsent {
		return nil, nil
	}

	balance = schema.OutcomeTokenBalance{
		OutcomeTokenID: tokenID,
		OwnerAddress:   owner,
		Balance:        "0",
	}
	if err := tx.Create(&balance).Error; err != nil {
		return nil, fmt.Errorf("failed to create balance: %w", err)
	}
	return &balance, nil
}

func setBalance(tx *gorm.DB, balance *schema.OutcomeTokenBalance, value *big.Int) error {
	if err := tx.Model(balance).Update("balance", value.String()).Error; err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

func setTotalSupply(tx *gorm.DB, token *schema.OutcomeToken, value *big.Int) error {
	if err := tx.Model(token).Update("total_supply", value.String()).Error; err != nil {
		return fmt.Errorf("failed to update total supply: %w", err)
	}
	return nil
}

// IssueOutcomeTokens credits an owner and grows total supply by amount.
func (s *pgStore) IssueOutcomeTokens(ctx context.Context, tokenAddress, owner string, amount *big.Int) error {
	if amount.Sign() < 0 {
		return domain.NewValidationError("amount", "must not be negative")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := lockOutcomeToken(tx, tokenAddress)
		if err != nil {
			return err
		}

		balance, err := lockBalance(tx, token.ID, owner, true)
		if err != nil {
			return err
		}

		current, err := parseNumeric(balance.Balance)
		if err != nil {
			return err
		}
		supply, err := parseNumeric(token.TotalSupply)
		if err != nil {
			return err
		}

		if err := setBalance(tx, balance, new(big.Int).Add(current, amount)); err != nil {
			return err
		}
		return setTotalSupply(tx, token, new(big.Int).Add(supply, amount))
	})
}

// RevokeOutcomeTokens debits an owner and shrinks total supply by amount.
func (s *pgStore) RevokeOutcomeTokens(ctx context.Context, tokenAddress, owner string, amount *big.Int) error {
	if amount.Sign() < 0 {
		return domain.NewValidationError("amount", "must not be negative")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := lockOutcomeToken(tx, tokenAddress)
		if err != nil {
			return err
		}

		balance, err := lockBalance(tx, token.ID, owner, false)
		if err != nil {
			return err
		}
		current := big.NewInt(0)
		if balance != nil {
			if current, err = parseNumeric(balance.Balance); err != nil {
				return err
			}
		}

		if current.Cmp(amount) < 0 {
			return fmt.Errorf("revoke %s from %s on %s: %w", amount, owner, tokenAddress, domain.ErrInsufficientBalance)
		}

		// An absent balance row only passes the check when amount is zero
		if balance == nil {
			return nil
		}

		supply, err := parseNumeric(token.TotalSupply)
		if err != nil {
			return err
		}

		if err := setBalance(tx, balance, new(big.Int).Sub(current, amount)); err != nil {
			return err
		}
		return setTotalSupply(tx, token, new(big.Int).Sub(supply, amount))
	})
}

// TransferOutcomeTokens moves amount between owners. Total supply is
// untouched; a self-transfer only checks funds and applies no delta.
func (s *pgStore) TransferOutcomeTokens(ctx context.Context, tokenAddress, from, to string, amount *big.Int) error {
	if amount.Sign() < 0 {
		return domain.NewValidationError("amount", "must not be negative")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := lockOutcomeToken(tx, tokenAddress)
		if err != nil {
			return err
		}

		sender, err := lockBalance(tx, token.ID, from, false)
		if err != nil {
			return err
		}
		senderBalance := big.NewInt(0)
		if sender != nil {
			if senderBalance, err = parseNumeric(sender.Balance); err != nil {
				return err
			}
		}

		if senderBalance.Cmp(amount) < 0 {
			return fmt.Errorf("transfer %s from %s on %s: %w", amount, from, tokenAddress, domain.ErrInsufficientBalance)
		}

		// Self-transfer is legal and must not double-apply. An absent sender
		// row only passes the check when amount is zero.
		if from == to || sender == nil {
			return nil
		}

		receiver, err := lockBalance(tx, token.ID, to, true)
		if err != nil {
			return err
		}
		receiverBalance, err := parseNumeric(receiver.Balance)
		if err != nil {
			return err
		}

		if err := setBalance(tx, sender, new(big.Int).Sub(senderBalance, amount)); err != nil {
			return err
		}
		return setBalance(tx, receiver, new(big.Int).Add(receiverBalance, amount))
	})
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// requireOracle resolves an oracle reference that must already be indexed.
func (d *Dispatcher) requireOracle(ctx context.Context, address string) (*store.OracleRecord, error) {
	oracle, err := d.store.GetOracleByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if oracle == nil {
		return nil, fmt.Errorf("oracle %s: %w", address, domain.ErrNotFound)
	}
	return oracle, nil
}

// handleCategoricalEventCreation records a categorical event and its
// zero-supply outcome tokens. The declared outcome count must agree with the
// oracle's description when the description enumerates outcomes.
func (d *Dispatcher) handleCategoricalEventCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("categoricalEvent")
	collateralToken := p.Address("collateralToken")
	oracleAddress := p.Address("oracle")
	outcomeCount := p.Int("outcomeCount")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	if outcomeCount < 1 {
		return domain.NewValidationError("outcomeCount", "must be a positive integer")
	}

	oracle, err := d.requireOracle(ctx, oracleAddress)
	if err != nil {
		return err
	}

	if oracle.Description != nil && oracle.Description.Type == domain.DescriptionCategorical {
		var outcomes []string
		if err := json.Unmarshal(oracle.Description.Outcomes, &outcomes); err != nil {
			return fmt.Errorf("failed to decode description outcomes: %w", err)
		}
		if len(outcomes) != outcomeCount {
			return domain.NewValidationError("outcomeCount",
				fmt.Sprintf("declares %d outcomes but the oracle's description has %d", outcomeCount, len(outcomes)))
		}
	}

	return d.store.CreateCategoricalEvent(ctx, store.CreateCategoricalEventInput{
		EntityMeta:      entityMeta(event, address, creator, block),
		CollateralToken: collateralToken,
		OracleAddress:   oracleAddress,
		OutcomeCount:    outcomeCount,
	})
}

// handleScalarEventCreation records a scalar event with its bounds and the
// fixed short/long outcome token pair.
func (d *Dispatcher) handleScalarEventCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("scalarEvent")
	collateralToken := p.Address("collateralToken")
	oracleAddress := p.Address("oracle")
	lowerBound := p.BigInt("lowerBound")
	upperBound := p.BigInt("upperBound")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	if lowerBound.Cmp(upperBound) >= 0 {
		return domain.NewValidationError("lowerBound", "must be strictly below upperBound")
	}

	if _, err := d.requireOracle(ctx, oracleAddress); err != nil {
		return err
	}

	return d.store.CreateScalarEvent(ctx, store.CreateScalarEventInput{
		EntityMeta:      entityMeta(event, address, creator, block),
		CollateralToken: collateralToken,
		OracleAddress:   oracleAddress,
		LowerBound:      lowerBound,
		UpperBound:      upperBound,
	})
}

package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/logger"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// entityMeta copies the creation metadata shared by every factory event.
func entityMeta(event *domain.ContractEvent, address, creator string, block *domain.BlockMeta) store.EntityMeta {
	return store.EntityMeta{
		Address:        address,
		FactoryAddress: domain.NormalizeAddress(event.Address),
		Creator:        creator,
		CreationBlock:  block.Number,
		CreationTime:   block.Time(),
	}
}

// optionalOracle resolves an oracle reference that may legitimately be
// unknown. Absence yields nil rather than an error, with a warning so
// dangling references stay visible in the logs.
func (d *Dispatcher) optionalOracle(ctx context.Context, address string) (*store.OracleRecord, error) {
	oracle, err := d.store.GetOracleByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if oracle == nil {
		logger.WarnCtx(ctx, "oracle reference unknown, leaving it unset",
			zap.String("oracle", address))
	}
	return oracle, nil
}

// handleCentralizedOracleCreation records a centralized oracle and the event
// description its hash points at. The hash must resolve before the oracle is
// accepted.
func (d *Dispatcher) handleCentralizedOracleCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("centralizedOracle")
	ipfsHash := p.String("ipfsHash")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	desc, err := d.resolver.Resolve(ctx, ipfsHash)
	if err != nil {
		return err
	}

	return d.store.CreateCentralizedOracle(ctx, store.CreateCentralizedOracleInput{
		EntityMeta:    entityMeta(event, address, creator, block),
		DescriptionID: desc.ID,
	})
}

// handleCentralizedOracleInstance records a centralized oracle announced by an
// already-indexed oracle contract instead of the factory. It creates a sibling
// row at the distinct instance address under the same content-hash rules; the
// announcing oracle is never mutated.
func (d *Dispatcher) handleCentralizedOracleInstance(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("centralizedOracle")
	ipfsHash := p.String("ipfsHash")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	announcer := domain.NormalizeAddress(event.Address)
	known, err := d.store.GetCentralizedOracleByAddress(ctx, announcer)
	if err != nil {
		return err
	}
	if known == nil {
		return fmt.Errorf("centralized oracle %s: %w", announcer, domain.ErrNotFound)
	}

	desc, err := d.resolver.Resolve(ctx, ipfsHash)
	if err != nil {
		return err
	}

	return d.store.CreateCentralizedOracle(ctx, store.CreateCentralizedOracleInput{
		EntityMeta:    entityMeta(event, address, creator, block),
		DescriptionID: desc.ID,
	})
}

// handleUltimateOracleCreation records an ultimate oracle. The forwarded
// oracle reference is optional: when it names an oracle the indexer has not
// seen, the reference is left unset instead of rejecting the event.
func (d *Dispatcher) handleUltimateOracleCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("ultimateOracle")
	forwarded := p.Address("oracle")
	collateralToken := p.Address("collateralToken")
	spreadMultiplier := p.UnsignedBigInt("spreadMultiplier")
	challengePeriod := p.Uint64("challengePeriod")
	challengeAmount := p.UnsignedBigInt("challengeAmount")
	frontRunnerPeriod := p.Uint64("frontRunnerPeriod")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	var forwardedOracle *string
	known, err := d.optionalOracle(ctx, forwarded)
	if err != nil {
		return err
	}
	if known != nil {
		forwardedOracle = &forwarded
	}

	return d.store.CreateUltimateOracle(ctx, store.CreateUltimateOracleInput{
		EntityMeta:        entityMeta(event, address, creator, block),
		ForwardedOracle:   forwardedOracle,
		CollateralToken:   collateralToken,
		SpreadMultiplier:  spreadMultiplier,
		ChallengePeriod:   challengePeriod,
		ChallengeAmount:   challengeAmount,
		FrontRunnerPeriod: frontRunnerPeriod,
	})
}

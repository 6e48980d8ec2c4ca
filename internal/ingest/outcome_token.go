package ingest

import (
	"context"
	"fmt"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// handleOutcomeTokenCreation binds a deployed outcome token contract to the
// token row created alongside its event. The emitting contract is the event
// itself, which must already be indexed.
func (d *Dispatcher) handleOutcomeTokenCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	tokenAddress := p.Address("outcomeToken")
	index := p.Int("index")
	if err := p.Err(); err != nil {
		return err
	}

	if index < 0 {
		return domain.NewValidationError("index", "must not be negative")
	}

	eventAddress := domain.NormalizeAddress(event.Address)
	tradedEvent, err := d.store.GetEventByAddress(ctx, eventAddress)
	if err != nil {
		return err
	}
	if tradedEvent == nil {
		return fmt.Errorf("event %s: %w", eventAddress, domain.ErrNotFound)
	}

	// An index beyond the event's outcome range can never bind
	if index >= tradedEvent.OutcomeCount {
		return domain.NewValidationError("index",
			fmt.Sprintf("%d is out of range for an event with %d outcomes", index, tradedEvent.OutcomeCount))
	}

	return d.store.BindOutcomeTokenAddress(ctx, store.BindOutcomeTokenInput{
		EventAddress: eventAddress,
		Index:        index,
		TokenAddress: tokenAddress,
	})
}

// handleIssuance credits the owner and grows the token's total supply.
func (d *Dispatcher) handleIssuance(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	owner := p.Address("owner")
	amount := p.UnsignedBigInt("amount")
	if err := p.Err(); err != nil {
		return err
	}

	return d.store.IssueOutcomeTokens(ctx, domain.NormalizeAddress(event.Address), owner, amount)
}

// handleRevocation debits the owner and shrinks the token's total supply.
func (d *Dispatcher) handleRevocation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	owner := p.Address("owner")
	amount := p.UnsignedBigInt("amount")
	if err := p.Err(); err != nil {
		return err
	}

	return d.store.RevokeOutcomeTokens(ctx, domain.NormalizeAddress(event.Address), owner, amount)
}

// handleTransfer moves tokens between owners without touching total supply.
func (d *Dispatcher) handleTransfer(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	from := p.Address("from")
	to := p.Address("to")
	value := p.UnsignedBigInt("value")
	if err := p.Err(); err != nil {
		return err
	}

	return d.store.TransferOutcomeTokens(ctx, domain.NormalizeAddress(event.Address), from, to, value)
}

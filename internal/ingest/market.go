package ingest

import (
	"context"
	"fmt"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// handleMarketCreation records a market. The referenced event must already be
// indexed, the declared oracle must be the event's oracle, and the market
// maker must be on the allow-list.
func (d *Dispatcher) handleMarketCreation(ctx context.Context, event *domain.ContractEvent) error {
	p := domain.NewParamReader(event)
	creator := p.Address("creator")
	address := p.Address("market")
	eventAddress := p.Address("eventContract")
	oracleAddress := p.Address("oracle")
	marketMaker := p.Address("marketMaker")
	fee := p.Uint64("fee")
	block := p.Block()
	if err := p.Err(); err != nil {
		return err
	}

	tradedEvent, err := d.store.GetEventByAddress(ctx, eventAddress)
	if err != nil {
		return err
	}
	if tradedEvent == nil {
		return fmt.Errorf("event %s: %w", eventAddress, domain.ErrNotFound)
	}

	if oracleAddress != tradedEvent.OracleAddress {
		return domain.NewValidationError("oracle",
			fmt.Sprintf("declares %s but the event resolves via %s", oracleAddress, tradedEvent.OracleAddress))
	}

	if !d.makers.IsAllowed(marketMaker) {
		return domain.NewValidationError("marketMaker",
			fmt.Sprintf("%s is not an allow-listed market maker", marketMaker))
	}

	return d.store.CreateMarket(ctx, store.CreateMarketInput{
		EntityMeta:    entityMeta(event, address, creator, block),
		OracleAddress: oracleAddress,
		EventAddress:  eventAddress,
		MarketMaker:   marketMaker,
		Fee:           fee,
	})
}

package ingest

import (
	"context"
	"fmt"

	"github.com/gnosis-pm/pm-indexer/internal/descriptions"
	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/registry"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// HandlerFunc validates and applies a single contract event
type HandlerFunc func(ctx context.Context, event *domain.ContractEvent) error

// Contracts holds the tracked factory contract addresses
type Contracts struct {
	CentralizedOracleFactory string
	UltimateOracleFactory    string
	EventFactory             string
	MarketFactory            string
}

// routeKey identifies a handler by emitting contract kind and event name
type routeKey struct {
	kind domain.ContractKind
	name string
}

// Dispatcher routes contract events to their handlers. The handler table is
// closed: an event that matches no route is rejected as invalid rather than
// silently dropped.
type Dispatcher struct {
	store     store.Store
	resolver  descriptions.Resolver
	makers    registry.MarketMakerRegistry
	factories map[string]domain.ContractKind
	handlers  map[routeKey]HandlerFunc
}

// NewDispatcher creates a dispatcher over the configured factory contracts
func NewDispatcher(
	st store.Store,
	resolver descriptions.Resolver,
	makers registry.MarketMakerRegistry,
	contracts Contracts,
) *Dispatcher {
	d := &Dispatcher{
		store:    st,
		resolver: resolver,
		makers:   makers,
		factories: map[string]domain.ContractKind{
			domain.NormalizeAddress(contracts.CentralizedOracleFactory): domain.KindCentralizedOracleFactory,
			domain.NormalizeAddress(contracts.UltimateOracleFactory):    domain.KindUltimateOracleFactory,
			domain.NormalizeAddress(contracts.EventFactory):             domain.KindEventFactory,
			domain.NormalizeAddress(contracts.MarketFactory):            domain.KindMarketFactory,
		},
	}

	d.handlers = map[routeKey]HandlerFunc{
		{domain.KindCentralizedOracleFactory, domain.EventCentralizedOracleCreation}: d.handleCentralizedOracleCreation,
		{domain.KindUltimateOracleFactory, domain.EventUltimateOracleCreation}:       d.handleUltimateOracleCreation,
		{domain.KindEventFactory, domain.EventCategoricalEventCreation}:              d.handleCategoricalEventCreation,
		{domain.KindEventFactory, domain.EventScalarEventCreation}:                   d.handleScalarEventCreation,
		{domain.KindMarketFactory, domain.EventMarketCreation}:                       d.handleMarketCreation,
		{domain.KindOracleContract, domain.EventCentralizedOracleCreation}:           d.handleCentralizedOracleInstance,
		{domain.KindEventContract, domain.EventOutcomeTokenCreation}:                 d.handleOutcomeTokenCreation,
		{domain.KindOutcomeToken, domain.EventIssuance}:                              d.handleIssuance,
		{domain.KindOutcomeToken, domain.EventRevocation}:                            d.handleRevocation,
		{domain.KindOutcomeToken, domain.EventTransfer}:                              d.handleTransfer,
	}

	return d
}

// Dispatch validates and applies one contract event.
//
// The error classifies the outcome: nil means applied, domain.ErrConflict
// means already applied, a ValidationError or domain.ErrInsufficientBalance
// means permanently rejected, and domain.ErrNotFound means a reference is not
// resolvable yet.
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.ContractEvent) error {
	kind, name, err := d.route(event)
	if err != nil {
		return err
	}

	handler, ok := d.handlers[routeKey{kind, name}]
	if !ok {
		return domain.NewValidationError("name",
			fmt.Sprintf("event %q is not emitted by %s contracts", name, kind))
	}

	return handler(ctx, event)
}

// route determines the emitting contract kind and the effective event name.
// Factory contracts are identified by their configured address; oracle,
// event, and token contracts are only known by the events they emit.
func (d *Dispatcher) route(event *domain.ContractEvent) (domain.ContractKind, string, error) {
	if !domain.ValidAddress(event.Address) {
		return "", "", domain.NewValidationError("address", "must be a hex address")
	}
	address := domain.NormalizeAddress(event.Address)

	if kind, ok := d.factories[address]; ok {
		name := event.Name
		if name == "" {
			// Single-event factories do not need a name on the wire
			switch kind {
			case domain.KindCentralizedOracleFactory:
				name = domain.EventCentralizedOracleCreation
			case domain.KindUltimateOracleFactory:
				name = domain.EventUltimateOracleCreation
			case domain.KindMarketFactory:
				name = domain.EventMarketCreation
			case domain.KindEventFactory:
				// The event factory emits two creation events; the params
				// carry the variant when the name is absent
				if _, ok := event.Param("categoricalEvent"); ok {
					name = domain.EventCategoricalEventCreation
				} else if _, ok := event.Param("scalarEvent"); ok {
					name = domain.EventScalarEventCreation
				} else {
					return "", "", domain.NewValidationError("name", "required event name is missing")
				}
			}
		}
		return kind, name, nil
	}

	// Instance contracts route by event name alone
	switch event.Name {
	case domain.EventCentralizedOracleCreation:
		// Emitted by an already-indexed oracle contract, not the factory
		return domain.KindOracleContract, event.Name, nil
	case domain.EventOutcomeTokenCreation:
		return domain.KindEventContract, event.Name, nil
	case domain.EventIssuance, domain.EventRevocation, domain.EventTransfer:
		return domain.KindOutcomeToken, event.Name, nil
	case "":
		return "", "", domain.NewValidationError("name", "required event name is missing")
	default:
		return "", "", domain.NewValidationError("name",
			fmt.Sprintf("event %q from untracked contract %s", event.Name, address))
	}
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnosis-pm/pm-indexer/internal/domain"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var testCreationTime = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

func buildTestMeta(address string) EntityMeta {
	return EntityMeta{
		Address:        address,
		FactoryAddress: "0xfac70fac70fac70fac70fac70fac70fac70fac70",
		Creator:        "0xc4ea704c4ea704c4ea704c4ea704c4ea704c4ea7",
		CreationBlock:  1000,
		CreationTime:   testCreationTime,
	}
}

func buildTestDescription(contentHash string) CreateEventDescriptionInput {
	raw, _ := json.Marshal(map[string]any{
		"title":          "Will it rain tomorrow?",
		"resolutionDate": "2024-01-01T00:00:00Z",
		"outcomes":       []string{"Yes", "No"},
	})
	return CreateEventDescriptionInput{
		ContentHash:    contentHash,
		Type:           domain.DescriptionCategorical,
		Title:          "Will it rain tomorrow?",
		Description:    "Resolved against the local weather service.",
		ResolutionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Outcomes:       []string{"Yes", "No"},
		Raw:            raw,
	}
}

func buildTestCentralizedOracle(address string, descriptionID int64) CreateCentralizedOracleInput {
	return CreateCentralizedOracleInput{
		EntityMeta:    buildTestMeta(address),
		DescriptionID: descriptionID,
	}
}

func buildTestUltimateOracle(address string) CreateUltimateOracleInput {
	return CreateUltimateOracleInput{
		EntityMeta:        buildTestMeta(address),
		CollateralToken:   "0xc011a7e4a1c011a7e4a1c011a7e4a1c011a7e4a1",
		SpreadMultiplier:  big.NewInt(3),
		ChallengePeriod:   86400,
		ChallengeAmount:   big.NewInt(100),
		FrontRunnerPeriod: 3600,
	}
}

func buildTestCategoricalEvent(address string, oracle string, outcomes int) CreateCategoricalEventInput {
	return CreateCategoricalEventInput{
		EntityMeta:      buildTestMeta(address),
		CollateralToken: "0xc011a7e4a1c011a7e4a1c011a7e4a1c011a7e4a1",
		OracleAddress:   oracle,
		OutcomeCount:    outcomes,
	}
}

func buildTestScalarEvent(address string, oracle string) CreateScalarEventInput {
	return CreateScalarEventInput{
		EntityMeta:      buildTestMeta(address),
		CollateralToken: "0xc011a7e4a1c011a7e4a1c011a7e4a1c011a7e4a1",
		OracleAddress:   oracle,
		LowerBound:      big.NewInt(0),
		UpperBound:      big.NewInt(100),
	}
}

func buildTestMarket(address string, eventAddress string, oracle string) CreateMarketInput {
	return CreateMarketInput{
		EntityMeta:    buildTestMeta(address),
		OracleAddress: oracle,
		EventAddress:  eventAddress,
		MarketMaker:   "0x3a4ce73a4ce73a4ce73a4ce73a4ce73a4ce73a4c",
		Fee:           5000,
	}
}

// seedBoundToken creates an oracle-less categorical event with one bound
// outcome token and returns the token address.
func seedBoundToken(t *testing.T, store Store, eventAddress, tokenAddress string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateCategoricalEvent(ctx, buildTestCategoricalEvent(eventAddress, "0x0", 2)))
	require.NoError(t, store.BindOutcomeTokenAddress(ctx, BindOutcomeTokenInput{
		EventAddress: eventAddress,
		Index:        0,
		TokenAddress: tokenAddress,
	}))
}

// =============================================================================
// Test: EventDescriptions
// =============================================================================

func testEventDescriptions(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and fetch by content hash", func(t *testing.T) {
		input := buildTestDescription("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
		created, err := store.CreateEventDescription(ctx, input)
		require.NoError(t, err)
		require.NotZero(t, created.ID)

		fetched, err := store.GetEventDescriptionByHash(ctx, input.ContentHash)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, domain.DescriptionCategorical, fetched.Type)
		assert.Equal(t, "Will it rain tomorrow?", fetched.Title)

		var outcomes []string
		require.NoError(t, json.Unmarshal(fetched.Outcomes, &outcomes))
		assert.Equal(t, []string{"Yes", "No"}, outcomes)
	})

	t.Run("creating the same hash twice returns the existing row", func(t *testing.T) {
		input := buildTestDescription("QmSameHashTwice625s3Xf2nemtYgPpHdWEz79ojWnPbdG")
		first, err := store.CreateEventDescription(ctx, input)
		require.NoError(t, err)

		second, err := store.CreateEventDescription(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("unknown hash returns nil", func(t *testing.T) {
		fetched, err := store.GetEventDescriptionByHash(ctx, "QmUnknownHash")
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("scalar description persists unit and decimals", func(t *testing.T) {
		unit := "USD"
		decimals := 2
		input := CreateEventDescriptionInput{
			ContentHash:    "QmScalarDescription3Xf2nemtYgPpHdWEz79ojWnPbdG",
			Type:           domain.DescriptionScalar,
			Title:          "ETH price at year end",
			ResolutionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Unit:           &unit,
			Decimals:       &decimals,
			Raw:            []byte(`{"title":"ETH price at year end"}`),
		}
		created, err := store.CreateEventDescription(ctx, input)
		require.NoError(t, err)
		require.NotNil(t, created.Unit)
		assert.Equal(t, "USD", *created.Unit)
		require.NotNil(t, created.Decimals)
		assert.Equal(t, 2, *created.Decimals)
		assert.Empty(t, created.Outcomes)
	})
}

// =============================================================================
// Test: Oracles
// =============================================================================

func testCentralizedOracles(t *testing.T, store Store) {
	ctx := context.Background()

	desc, err := store.CreateEventDescription(ctx, buildTestDescription("QmOracleDescription3Xf2nemtYgPpHdWEz79ojWnPbdG"))
	require.NoError(t, err)

	address := "0x0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c"

	t.Run("create and fetch", func(t *testing.T) {
		err := store.CreateCentralizedOracle(ctx, buildTestCentralizedOracle(address, desc.ID))
		require.NoError(t, err)

		oracle, err := store.GetCentralizedOracleByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, oracle)
		assert.Equal(t, address, oracle.Address)
		assert.Equal(t, desc.ID, oracle.DescriptionID)
		assert.Equal(t, "Will it rain tomorrow?", oracle.Description.Title)
		assert.True(t, oracle.CreationTime.Equal(testCreationTime))
	})

	t.Run("duplicate address is a conflict", func(t *testing.T) {
		err := store.CreateCentralizedOracle(ctx, buildTestCentralizedOracle(address, desc.ID))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("variant-agnostic lookup resolves the centralized variant", func(t *testing.T) {
		record, err := store.GetOracleByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.OracleCentralized, record.Kind)
		require.NotNil(t, record.Description)
		assert.Equal(t, "Will it rain tomorrow?", record.Description.Title)
	})

	t.Run("unknown address returns nil", func(t *testing.T) {
		oracle, err := store.GetCentralizedOracleByAddress(ctx, "0x9999999999999999999999999999999999999999")
		require.NoError(t, err)
		assert.Nil(t, oracle)

		record, err := store.GetOracleByAddress(ctx, "0x9999999999999999999999999999999999999999")
		require.NoError(t, err)
		assert.Nil(t, record)
	})
}

func testUltimateOracles(t *testing.T, store Store) {
	ctx := context.Background()

	address := "0x317a1317a1317a1317a1317a1317a1317a1317a1"

	t.Run("create and fetch", func(t *testing.T) {
		err := store.CreateUltimateOracle(ctx, buildTestUltimateOracle(address))
		require.NoError(t, err)

		oracle, err := store.GetUltimateOracleByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, oracle)
		assert.Equal(t, "3", oracle.SpreadMultiplier)
		assert.Equal(t, "100", oracle.ChallengeAmount)
		assert.EqualValues(t, 86400, oracle.ChallengePeriod)
		assert.Nil(t, oracle.ForwardedOracle)
	})

	t.Run("forwarded oracle reference is persisted", func(t *testing.T) {
		forwarded := address
		input := buildTestUltimateOracle("0xf0a3a4dedf0a3a4dedf0a3a4dedf0a3a4dedf0a3")
		input.ForwardedOracle = &forwarded

		require.NoError(t, store.CreateUltimateOracle(ctx, input))

		oracle, err := store.GetUltimateOracleByAddress(ctx, input.Address)
		require.NoError(t, err)
		require.NotNil(t, oracle.ForwardedOracle)
		assert.Equal(t, address, *oracle.ForwardedOracle)
	})

	t.Run("duplicate address is a conflict", func(t *testing.T) {
		err := store.CreateUltimateOracle(ctx, buildTestUltimateOracle(address))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("variant-agnostic lookup resolves the ultimate variant", func(t *testing.T) {
		record, err := store.GetOracleByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.OracleUltimate, record.Kind)
		assert.Nil(t, record.Description)
	})
}

// =============================================================================
// Test: Events
// =============================================================================

func testCategoricalEvents(t *testing.T, store Store) {
	ctx := context.Background()

	address := "0xca7e90ca1ca7e90ca1ca7e90ca1ca7e90ca1ca7e"
	oracle := "0x0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c"

	t.Run("create seeds one zero-supply token per outcome", func(t *testing.T) {
		err := store.CreateCategoricalEvent(ctx, buildTestCategoricalEvent(address, oracle, 3))
		require.NoError(t, err)

		tokens, err := store.GetOutcomeTokensByEvent(ctx, address)
		require.NoError(t, err)
		require.Len(t, tokens, 3)
		for i, token := range tokens {
			assert.Equal(t, i, token.Index)
			assert.Nil(t, token.Address)
			assert.Equal(t, "0", token.TotalSupply)
		}
	})

	t.Run("variant-agnostic lookup", func(t *testing.T) {
		record, err := store.GetEventByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.EventKindCategorical, record.Kind)
		assert.Equal(t, oracle, record.OracleAddress)
		assert.Equal(t, 3, record.OutcomeCount)
		assert.Empty(t, record.LowerBound)
	})

	t.Run("duplicate address is a conflict", func(t *testing.T) {
		err := store.CreateCategoricalEvent(ctx, buildTestCategoricalEvent(address, oracle, 3))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})
}

func testScalarEvents(t *testing.T, store Store) {
	ctx := context.Background()

	address := "0x5ca1a25ca1a25ca1a25ca1a25ca1a25ca1a25ca1"
	oracle := "0x317a1317a1317a1317a1317a1317a1317a1317a1"

	t.Run("create seeds exactly short and long tokens", func(t *testing.T) {
		err := store.CreateScalarEvent(ctx, buildTestScalarEvent(address, oracle))
		require.NoError(t, err)

		tokens, err := store.GetOutcomeTokensByEvent(ctx, address)
		require.NoError(t, err)
		require.Len(t, tokens, 2)
	})

	t.Run("variant-agnostic lookup carries the bounds", func(t *testing.T) {
		record, err := store.GetEventByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, domain.EventKindScalar, record.Kind)
		assert.Equal(t, "0", record.LowerBound)
		assert.Equal(t, "100", record.UpperBound)
		assert.Equal(t, 2, record.OutcomeCount)
	})

	t.Run("duplicate address is a conflict", func(t *testing.T) {
		err := store.CreateScalarEvent(ctx, buildTestScalarEvent(address, oracle))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})
}

// =============================================================================
// Test: Markets
// =============================================================================

func testMarkets(t *testing.T, store Store) {
	ctx := context.Background()

	address := "0x3a9e7c0de3a9e7c0de3a9e7c0de3a9e7c0de3a9e"
	event := "0xca7e90ca1ca7e90ca1ca7e90ca1ca7e90ca1ca7e"
	oracle := "0x0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c1e0a1c"

	t.Run("create and fetch", func(t *testing.T) {
		err := store.CreateMarket(ctx, buildTestMarket(address, event, oracle))
		require.NoError(t, err)

		market, err := store.GetMarketByAddress(ctx, address)
		require.NoError(t, err)
		require.NotNil(t, market)
		assert.Equal(t, event, market.EventAddress)
		assert.Equal(t, oracle, market.OracleAddress)
		assert.EqualValues(t, 5000, market.Fee)
	})

	t.Run("duplicate address is a conflict", func(t *testing.T) {
		err := store.CreateMarket(ctx, buildTestMarket(address, event, oracle))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("unknown address returns nil", func(t *testing.T) {
		market, err := store.GetMarketByAddress(ctx, "0x9999999999999999999999999999999999999999")
		require.NoError(t, err)
		assert.Nil(t, market)
	})
}

// =============================================================================
// Test: Outcome token binding
// =============================================================================

func testBindOutcomeToken(t *testing.T, store Store) {
	ctx := context.Background()

	event := "0xb1cdb1cdb1cdb1cdb1cdb1cdb1cdb1cdb1cdb1cd"
	token := "0x70cec0a170cec0a170cec0a170cec0a170cec0a1"
	require.NoError(t, store.CreateCategoricalEvent(ctx, buildTestCategoricalEvent(event, "0x0", 2)))

	t.Run("bind makes the token addressable", func(t *testing.T) {
		err := store.BindOutcomeTokenAddress(ctx, BindOutcomeTokenInput{
			EventAddress: event,
			Index:        0,
			TokenAddress: token,
		})
		require.NoError(t, err)

		fetched, err := store.GetOutcomeTokenByAddress(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, event, fetched.EventAddress)
		assert.Equal(t, 0, fetched.Index)
	})

	t.Run("rebinding is a conflict", func(t *testing.T) {
		err := store.BindOutcomeTokenAddress(ctx, BindOutcomeTokenInput{
			EventAddress: event,
			Index:        0,
			TokenAddress: "0x0123456789012345678901234567890123456789",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrConflict))
	})

	t.Run("unknown event or index is not found", func(t *testing.T) {
		err := store.BindOutcomeTokenAddress(ctx, BindOutcomeTokenInput{
			EventAddress: event,
			Index:        7,
			TokenAddress: "0x0123456789012345678901234567890123456789",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))

		err = store.BindOutcomeTokenAddress(ctx, BindOutcomeTokenInput{
			EventAddress: "0x9999999999999999999999999999999999999999",
			Index:        0,
			TokenAddress: "0x0123456789012345678901234567890123456789",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

// =============================================================================
// Test: Outcome token ledger
// =============================================================================

// assertSupplyConservation checks that a token's total supply equals the sum
// of its balance rows.
func assertSupplyConservation(t *testing.T, store Store, tokenAddress string) {
	t.Helper()
	ctx := context.Background()

	token, err := store.GetOutcomeTokenByAddress(ctx, tokenAddress)
	require.NoError(t, err)
	require.NotNil(t, token)

	supply, ok := new(big.Int).SetString(token.TotalSupply, 10)
	require.True(t, ok)

	balances, err := store.GetBalancesByToken(ctx, tokenAddress)
	require.NoError(t, err)

	sum := big.NewInt(0)
	for _, balance := range balances {
		value, ok := new(big.Int).SetString(balance.Balance, 10)
		require.True(t, ok)
		sum.Add(sum, value)
	}
	assert.Zero(t, supply.Cmp(sum), "total supply %s != balance sum %s", supply, sum)
}

func testLedger(t *testing.T, store Store) {
	ctx := context.Background()

	event := "0x1ed9e41ed9e41ed9e41ed9e41ed9e41ed9e41ed9"
	token := "0x70cealed70cealed70cealed70cealed70cealed"
	alice := "0xa11cea11cea11cea11cea11cea11cea11cea11ce"
	bob := "0xb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb0bb"
	seedBoundToken(t, store, event, token)

	t.Run("issue transfer revoke scenario conserves supply", func(t *testing.T) {
		require.NoError(t, store.IssueOutcomeTokens(ctx, token, alice, big.NewInt(1000)))
		assertSupplyConservation(t, store, token)

		require.NoError(t, store.TransferOutcomeTokens(ctx, token, alice, bob, big.NewInt(400)))
		assertSupplyConservation(t, store, token)

		require.NoError(t, store.RevokeOutcomeTokens(ctx, token, bob, big.NewInt(400)))
		assertSupplyConservation(t, store, token)

		fetched, err := store.GetOutcomeTokenByAddress(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "600", fetched.TotalSupply)

		// Bob's zero balance row persists
		balances, err := store.GetBalancesByToken(ctx, token)
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, alice, balances[0].OwnerAddress)
		assert.Equal(t, "600", balances[0].Balance)
		assert.Equal(t, bob, balances[1].OwnerAddress)
		assert.Equal(t, "0", balances[1].Balance)
	})

	t.Run("insufficient revoke fails without side effects", func(t *testing.T) {
		err := store.RevokeOutcomeTokens(ctx, token, alice, big.NewInt(601))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsufficientBalance))
		assertSupplyConservation(t, store, token)
	})

	t.Run("insufficient transfer fails without side effects", func(t *testing.T) {
		err := store.TransferOutcomeTokens(ctx, token, bob, alice, big.NewInt(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsufficientBalance))
		assertSupplyConservation(t, store, token)
	})

	t.Run("self transfer applies no delta", func(t *testing.T) {
		require.NoError(t, store.TransferOutcomeTokens(ctx, token, alice, alice, big.NewInt(600)))

		balances, err := store.GetBalancesByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		assert.Equal(t, "600", balances[0].Balance)

		err = store.TransferOutcomeTokens(ctx, token, alice, alice, big.NewInt(601))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsufficientBalance))
	})

	t.Run("zero amounts are legal", func(t *testing.T) {
		carol := "0xca0501ca0501ca0501ca0501ca0501ca0501ca05"
		require.NoError(t, store.IssueOutcomeTokens(ctx, token, carol, big.NewInt(0)))
		require.NoError(t, store.RevokeOutcomeTokens(ctx, token, carol, big.NewInt(0)))
		require.NoError(t, store.TransferOutcomeTokens(ctx, token, carol, alice, big.NewInt(0)))
		assertSupplyConservation(t, store, token)
	})

	t.Run("negative amounts are rejected", func(t *testing.T) {
		err := store.IssueOutcomeTokens(ctx, token, alice, big.NewInt(-1))
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unbound token address is not found", func(t *testing.T) {
		err := store.IssueOutcomeTokens(ctx, "0x9999999999999999999999999999999999999999", alice, big.NewInt(1))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("balances by owner carry the token association", func(t *testing.T) {
		balances, err := store.GetBalancesByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, balances, 1)
		require.NotNil(t, balances[0].OutcomeToken.Address)
		assert.Equal(t, token, *balances[0].OutcomeToken.Address)
		assert.Equal(t, event, balances[0].OutcomeToken.EventAddress)
	})
}

// =============================================================================
// Test: Entity listings
// =============================================================================

func testListings(t *testing.T, store Store) {
	ctx := context.Background()

	creatorA := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	creatorB := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	// Three categorical and two scalar events, interleaved in time
	for i := range 3 {
		input := buildTestCategoricalEvent(fmt.Sprintf("0xca7%037d", i), "0x0", 2)
		input.Creator = creatorA
		input.CreationTime = testCreationTime.Add(time.Duration(2*i) * time.Hour)
		require.NoError(t, store.CreateCategoricalEvent(ctx, input))
	}
	for i := range 2 {
		input := buildTestScalarEvent(fmt.Sprintf("0x5ca%037d", i), "0x0")
		input.Creator = creatorB
		input.CreationTime = testCreationTime.Add(time.Duration(2*i+1) * time.Hour)
		require.NoError(t, store.CreateScalarEvent(ctx, input))
	}

	t.Run("list merges both variants newest first", func(t *testing.T) {
		events, total, err := store.ListEvents(ctx, EntityFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, events, 5)

		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreationTime.After(events[i-1].CreationTime),
				"events must be ordered newest first")
		}
		assert.Equal(t, domain.EventKindCategorical, events[0].Kind)
		assert.Equal(t, domain.EventKindScalar, events[1].Kind)
	})

	t.Run("creator filter", func(t *testing.T) {
		events, total, err := store.ListEvents(ctx, EntityFilter{Creator: creatorB})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, event := range events {
			assert.Equal(t, domain.EventKindScalar, event.Kind)
		}
	})

	t.Run("time window filter", func(t *testing.T) {
		after := testCreationTime.Add(90 * time.Minute)
		before := testCreationTime.Add(210 * time.Minute)
		events, total, err := store.ListEvents(ctx, EntityFilter{
			CreatedAfter:  &after,
			CreatedBefore: &before,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, events, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		first, total, err := store.ListEvents(ctx, EntityFilter{Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, first, 2)

		second, _, err := store.ListEvents(ctx, EntityFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.NotEqual(t, first[0].Address, second[0].Address)

		tail, _, err := store.ListEvents(ctx, EntityFilter{Limit: 2, Offset: 4})
		require.NoError(t, err)
		require.Len(t, tail, 1)

		empty, _, err := store.ListEvents(ctx, EntityFilter{Limit: 2, Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("oracle and market listings honor the same filter", func(t *testing.T) {
		desc, err := store.CreateEventDescription(ctx, buildTestDescription("QmListingDescription2nemtYgPpHdWEz79ojWnPbdG"))
		require.NoError(t, err)

		oracleInput := buildTestCentralizedOracle("0x0a1c11570a1c11570a1c11570a1c11570a1c1157", desc.ID)
		oracleInput.Creator = creatorA
		require.NoError(t, store.CreateCentralizedOracle(ctx, oracleInput))

		oracles, total, err := store.ListCentralizedOracles(ctx, EntityFilter{Creator: creatorA})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, oracles, 1)
		assert.Equal(t, "Will it rain tomorrow?", oracles[0].Description.Title)

		ultimateInput := buildTestUltimateOracle("0x317a11570317a11570317a11570317a11570317a")
		ultimateInput.Creator = creatorB
		require.NoError(t, store.CreateUltimateOracle(ctx, ultimateInput))

		ultimates, total, err := store.ListUltimateOracles(ctx, EntityFilter{Creator: creatorB})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, ultimates, 1)

		marketInput := buildTestMarket("0x3a9e7115703a9e7115703a9e7115703a9e711570", "0xca7"+fmt.Sprintf("%037d", 0), "0x0")
		marketInput.Creator = creatorA
		require.NoError(t, store.CreateMarket(ctx, marketInput))

		markets, total, err := store.ListMarkets(ctx, EntityFilter{Creator: creatorA})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, markets, 1)

		none, total, err := store.ListMarkets(ctx, EntityFilter{Creator: "0x9999999999999999999999999999999999999999"})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, none)
	})
}

// =============================================================================
// Suite runner
// =============================================================================

// RunStoreTests runs all store tests against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"EventDescriptions", testEventDescriptions},
		{"CentralizedOracles", testCentralizedOracles},
		{"UltimateOracles", testUltimateOracles},
		{"CategoricalEvents", testCategoricalEvents},
		{"ScalarEvents", testScalarEvents},
		{"Markets", testMarkets},
		{"BindOutcomeToken", testBindOutcomeToken},
		{"Ledger", testLedger},
		{"Listings", testListings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MarketMakerRegistry defines the interface for the market-maker allow-list.
// Market creation events naming a market maker outside the list are rejected.
type MarketMakerRegistry interface {
	// IsAllowed checks if a market-maker contract address is on the allow-list
	IsAllowed(address string) bool
}

// MarketMakerData represents the structure of the market_makers.json file:
// a list of allow-listed market-maker contract addresses.
type MarketMakerData struct {
	MarketMakers []string `json:"market_makers"`
}

// marketMakerRegistry is the internal implementation of MarketMakerRegistry
type marketMakerRegistry struct {
	// Fast lookup map: lowercased address -> true
	addresses map[string]bool
}

// LoadMarketMakers loads the market-maker allow-list from a JSON file
func LoadMarketMakers(filePath string) (MarketMakerRegistry, error) {
	// Read the file using the absolute path
	data, err := os.ReadFile(filePath) //nolint:gosec,G304 // This should be a trusted file
	if err != nil {
		return nil, fmt.Errorf("failed to read market makers file: %w", err)
	}

	// Parse JSON
	var registryData MarketMakerData
	if err := json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse market makers JSON: %w", err)
	}

	// Build lookup map
	reg := &marketMakerRegistry{
		addresses: make(map[string]bool),
	}
	for _, addr := range registryData.MarketMakers {
		reg.addresses[strings.ToLower(addr)] = true
	}

	return reg, nil
}

// IsAllowed checks if a market-maker contract address is on the allow-list
func (r *marketMakerRegistry) IsAllowed(address string) bool {
	if r == nil {
		return false
	}
	return r.addresses[strings.ToLower(address)]
}

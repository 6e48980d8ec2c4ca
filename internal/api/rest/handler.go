package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gnosis-pm/pm-indexer/internal/api/rest/dto"
	"github.com/gnosis-pm/pm-indexer/internal/domain"
	"github.com/gnosis-pm/pm-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// ListCentralizedOracles retrieves centralized oracles with optional filters
	// GET /api/v1/oracles/centralized?creator=<address>&created_after=<timestamp>&created_before=<timestamp>&limit=<limit>&offset=<offset>
	ListCentralizedOracles(c *gin.Context)

	// ListUltimateOracles retrieves ultimate oracles with optional filters
	// GET /api/v1/oracles/ultimate?creator=<address>&created_after=<timestamp>&created_before=<timestamp>&limit=<limit>&offset=<offset>
	ListUltimateOracles(c *gin.Context)

	// GetOracle retrieves an oracle of either variant by address
	// GET /api/v1/oracles/:address
	GetOracle(c *gin.Context)

	// ListEvents retrieves events of both variants with optional filters
	// GET /api/v1/events?creator=<address>&created_after=<timestamp>&created_before=<timestamp>&limit=<limit>&offset=<offset>
	ListEvents(c *gin.Context)

	// GetEvent retrieves an event by address together with its outcome tokens
	// GET /api/v1/events/:address
	GetEvent(c *gin.Context)

	// ListMarkets retrieves markets with optional filters
	// GET /api/v1/markets?creator=<address>&created_after=<timestamp>&created_before=<timestamp>&limit=<limit>&offset=<offset>
	ListMarkets(c *gin.Context)

	// GetMarket retrieves a market by address
	// GET /api/v1/markets/:address
	GetMarket(c *gin.Context)

	// GetTokenHolders retrieves an outcome token and its balance rows
	// GET /api/v1/tokens/:address/holders
	GetTokenHolders(c *gin.Context)

	// GetAccountBalances retrieves an owner's balances across all outcome tokens
	// GET /api/v1/accounts/:address/balances
	GetAccountBalances(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store store.Store
}

// NewHandler creates a new REST API handler backed by the given store
func NewHandler(s store.Store) Handler {
	return &handler{store: s}
}

// paramAddress extracts and normalizes the :address path parameter
func paramAddress(c *gin.Context) (string, bool) {
	address := c.Param("address")
	if !domain.ValidAddress(address) {
		respondBadRequest(c, "Invalid address")
		return "", false
	}
	return domain.NormalizeAddress(address), true
}

// ListCentralizedOracles retrieves centralized oracles with optional filters
func (h *handler) ListCentralizedOracles(c *gin.Context) {
	params, err := ParseListEntitiesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	oracles, total, err := h.store.ListCentralizedOracles(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list centralized oracles")
		return
	}

	response := dto.CentralizedOracleListResponse{
		Oracles: make([]dto.CentralizedOracleResponse, 0, len(oracles)),
		Offset:  &params.Offset,
		Total:   total,
	}
	for i := range oracles {
		response.Oracles = append(response.Oracles, *dto.MapCentralizedOracleToDTO(&oracles[i]))
	}

	c.JSON(http.StatusOK, response)
}

// ListUltimateOracles retrieves ultimate oracles with optional filters
func (h *handler) ListUltimateOracles(c *gin.Context) {
	params, err := ParseListEntitiesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	oracles, total, err := h.store.ListUltimateOracles(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list ultimate oracles")
		return
	}

	response := dto.UltimateOracleListResponse{
		Oracles: make([]dto.UltimateOracleResponse, 0, len(oracles)),
		Offset:  &params.Offset,
		Total:   total,
	}
	for i := range oracles {
		response.Oracles = append(response.Oracles, *dto.MapUltimateOracleToDTO(&oracles[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetOracle retrieves an oracle of either variant by address
func (h *handler) GetOracle(c *gin.Context) {
	address, ok := paramAddress(c)
	if !ok {
		return
	}

	// Try the centralized variant first, the common case
	centralized, err := h.store.GetCentralizedOracleByAddress(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get oracle")
		return
	}
	if centralized != nil {
		c.JSON(http.StatusOK, dto.MapCentralizedOracleToDTO(centralized))
		return
	}

	ultimate, err := h.store.GetUltimateOracleByAddress(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get oracle")
		return
	}
	if ultimate != nil {
		c.JSON(http.StatusOK, dto.MapUltimateOracleToDTO(ultimate))
		return
	}

	respondNotFound(c, "Oracle not found")
}

// ListEvents retrieves events of both variants with optional filters
func (h *handler) ListEvents(c *gin.Context) {
	params, err := ParseListEntitiesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	events, total, err := h.store.ListEvents(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list events")
		return
	}

	response := dto.EventListResponse{
		Events: make([]dto.EventResponse, 0, len(events)),
		Offset: &params.Offset,
		Total:  total,
	}
	for i := range events {
		response.Events = append(response.Events, *dto.MapEventToDTO(&events[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent retrieves an event by address together with its outcome tokens
func (h *handler) GetEvent(c *gin.Context) {
	address, ok := paramAddress(c)
	if !ok {
		return
	}

	event, err := h.store.GetEventByAddress(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get event")
		return
	}
	if event == nil {
		respondNotFound(c, "Event not found")
		return
	}

	tokens, err := h.store.GetOutcomeTokensByEvent(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get outcome tokens")
		return
	}

	response := dto.MapEventToDTO(event)
	response.OutcomeTokens = make([]dto.OutcomeTokenResponse, 0, len(tokens))
	for i := range tokens {
		response.OutcomeTokens = append(response.OutcomeTokens, *dto.MapOutcomeTokenToDTO(&tokens[i]))
	}

	c.JSON(http.StatusOK, response)
}

// ListMarkets retrieves markets with optional filters
func (h *handler) ListMarkets(c *gin.Context) {
	params, err := ParseListEntitiesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	markets, total, err := h.store.ListMarkets(c.Request.Context(), params.Filter())
	if err != nil {
		respondInternalError(c, err, "Failed to list markets")
		return
	}

	response := dto.MarketListResponse{
		Markets: make([]dto.MarketResponse, 0, len(markets)),
		Offset:  &params.Offset,
		Total:   total,
	}
	for i := range markets {
		response.Markets = append(response.Markets, *dto.MapMarketToDTO(&markets[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetMarket retrieves a market by address
func (h *handler) GetMarket(c *gin.Context) {
	address, ok := paramAddress(c)
	if !ok {
		return
	}

	market, err := h.store.GetMarketByAddress(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get market")
		return
	}
	if market == nil {
		respondNotFound(c, "Market not found")
		return
	}

	c.JSON(http.StatusOK, dto.MapMarketToDTO(market))
}

// GetTokenHolders retrieves an outcome token and its balance rows
func (h *handler) GetTokenHolders(c *gin.Context) {
	address, ok := paramAddress(c)
	if !ok {
		return
	}

	token, err := h.store.GetOutcomeTokenByAddress(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get outcome token")
		return
	}
	if token == nil {
		respondNotFound(c, "Outcome token not found")
		return
	}

	balances, err := h.store.GetBalancesByToken(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get token holders")
		return
	}

	response := dto.TokenHoldersResponse{
		Token:   *dto.MapOutcomeTokenToDTO(token),
		Holders: make([]dto.HolderResponse, 0, len(balances)),
	}
	for i := range balances {
		response.Holders = append(response.Holders, *dto.MapHolderToDTO(&balances[i]))
	}

	c.JSON(http.StatusOK, response)
}

// GetAccountBalances retrieves an owner's balances across all outcome tokens
func (h *handler) GetAccountBalances(c *gin.Context) {
	address, ok := paramAddress(c)
	if !ok {
		return
	}

	balances, err := h.store.GetBalancesByOwner(c.Request.Context(), address)
	if err != nil {
		respondInternalError(c, err, "Failed to get account balances")
		return
	}

	response := dto.OwnerBalancesResponse{
		OwnerAddress: address,
		Balances:     make([]dto.OwnerBalanceResponse, 0, len(balances)),
	}
	for i := range balances {
		response.Balances = append(response.Balances, *dto.MapOwnerBalanceToDTO(&balances[i]))
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "pm-indexer-api",
	})
}

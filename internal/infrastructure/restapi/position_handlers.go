package restapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
)

const missingAccountMessage = "Account address is required. Use ?account=0x..."

// PositionHandler handles position requests.
type PositionHandler struct {
	positionService port.PositionService
	chains          chainResolver
	logger          port.Logger
}

// NewPositionHandler creates a new instance of PositionHandler.
func NewPositionHandler(ps port.PositionService, profiles port.NetworkProfileProvider, defaultChainID uint64, l port.Logger) *PositionHandler {
	return &PositionHandler{
		positionService: ps,
		chains:          chainResolver{profiles: profiles, defaultChainID: defaultChainID},
		logger:          l,
	}
}

type positionLister func(ctx context.Context, chainID uint64, account, marketFilter string) ([]entity.PositionRecord, error)

// GetPositionsHandler lists the account's positions.
// Query params: account (required), marketAddress, chainId.
func (h *PositionHandler) GetPositionsHandler(c *gin.Context) {
	h.listPositions(c, h.positionService.GetAllPositions)
}

// GetPositionsWithFundingHandler lists the account's positions through the direct contract read.
func (h *PositionHandler) GetPositionsWithFundingHandler(c *gin.Context) {
	h.listPositions(c, h.positionService.GetPositionsWithFunding)
}

func (h *PositionHandler) listPositions(c *gin.Context, list positionLister) {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		writeBadRequest(c, missingAccountMessage)
		return
	}
	chainID, err := h.chains.resolve(c)
	if err != nil {
		writeError(c, err)
		return
	}

	positions, err := list(c.Request.Context(), chainID, account, c.Query("marketAddress"))
	if err != nil {
		h.logger.Error("Error fetching positions", "account", account, "chain_id", chainID, "error", err)
		writeError(c, err)
		return
	}
	if positions == nil {
		positions = []entity.PositionRecord{}
	}

	c.JSON(http.StatusOK, PositionsResponse{
		Success:   true,
		Data:      positions,
		Count:     len(positions),
		Account:   account,
		Timestamp: timestamp(),
	})
}

// GetPositionByKeyHandler finds one position by full or partial key.
// Query params: account (required), key (required), chainId.
func (h *PositionHandler) GetPositionByKeyHandler(c *gin.Context) {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		writeBadRequest(c, missingAccountMessage)
		return
	}
	chainID, err := h.chains.resolve(c)
	if err != nil {
		writeError(c, err)
		return
	}

	position, err := h.positionService.GetPositionByKey(c.Request.Context(), chainID, account, c.Query("key"))
	if err != nil {
		h.logger.Error("Error looking up position", "account", account, "chain_id", chainID, "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, PositionLookupResponse{
		Success:   true,
		Data:      position,
		Found:     position != nil,
		Account:   account,
		Timestamp: timestamp(),
	})
}

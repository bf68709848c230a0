package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
)

// FundingHandler handles funding fee requests.
type FundingHandler struct {
	fundingService port.FundingService
	chains         chainResolver
	logger         port.Logger
}

// NewFundingHandler creates a new instance of FundingHandler.
func NewFundingHandler(fs port.FundingService, profiles port.NetworkProfileProvider, defaultChainID uint64, l port.Logger) *FundingHandler {
	return &FundingHandler{
		fundingService: fs,
		chains:         chainResolver{profiles: profiles, defaultChainID: defaultChainID},
		logger:         l,
	}
}

// GetFundingFeesHandler returns the hourly funding factors of every market.
func (h *FundingHandler) GetFundingFeesHandler(c *gin.Context) {
	chainID, err := h.chains.resolve(c)
	if err != nil {
		writeError(c, err)
		return
	}

	samples, err := h.fundingService.GetFundingFees(c.Request.Context(), chainID)
	if err != nil {
		h.logger.Error("Error fetching funding fees", "chain_id", chainID, "error", err)
		writeError(c, err)
		return
	}
	if samples == nil {
		samples = []entity.FundingRateSample{}
	}

	c.JSON(http.StatusOK, FundingFeesResponse{Success: true, Data: samples, Timestamp: timestamp()})
}

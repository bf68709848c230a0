package restapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gmx_gateway/internal/app/port"
)

// NetworkHandler serves the profile table and readiness.
type NetworkHandler struct {
	profiles port.NetworkProfileProvider
	clients  port.GMXClientProvider
}

// NewNetworkHandler creates a new instance of NetworkHandler.
func NewNetworkHandler(profiles port.NetworkProfileProvider, clients port.GMXClientProvider) *NetworkHandler {
	return &NetworkHandler{profiles: profiles, clients: clients}
}

// GetNetworksHandler lists the supported network profiles.
func (h *NetworkHandler) GetNetworksHandler(c *gin.Context) {
	c.JSON(http.StatusOK, NetworksResponse{Success: true, Data: h.profiles.GetAllProfiles()})
}

// GetHealthHandler reports liveness and which chain clients are initialised.
func (h *NetworkHandler) GetHealthHandler(c *gin.Context) {
	ready := make(map[string]bool)
	for _, p := range h.profiles.GetAllProfiles() {
		ready[strconv.FormatUint(p.ChainID, 10)] = h.clients.Ready(p.ChainID)
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Ready: ready})
}

package restapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"gmx_gateway/internal/app/port"
	"gmx_gateway/internal/domain/entity"
)

// chainResolver reads the optional chainId query parameter.
type chainResolver struct {
	profiles       port.NetworkProfileProvider
	defaultChainID uint64
}

func (r chainResolver) resolve(c *gin.Context) (uint64, error) {
	raw := strings.TrimSpace(c.Query("chainId"))
	if raw == "" {
		return r.defaultChainID, nil
	}

	chainID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &entity.ClientInputError{Message: fmt.Sprintf("Invalid chainId %q", raw)}
	}
	if _, ok := r.profiles.GetProfileByChainID(chainID); !ok {
		supported := make([]string, 0, 2)
		for _, p := range r.profiles.GetAllProfiles() {
			supported = append(supported, strconv.FormatUint(p.ChainID, 10))
		}
		return 0, &entity.ClientInputError{
			Message: fmt.Sprintf("Unsupported chainId %d. Supported: %s", chainID, strings.Join(supported, ", ")),
		}
	}
	return chainID, nil
}

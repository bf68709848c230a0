package restapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gmx_gateway/internal/domain/entity"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ErrorResponse is the body of every 4xx/5xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// IndexResponse is the body of GET /api.
type IndexResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// EchoResponse is the body of POST /api.
type EchoResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// FundingFeesResponse is the body of GET /api/funding-fees.
type FundingFeesResponse struct {
	Success   bool                       `json:"success"`
	Data      []entity.FundingRateSample `json:"data"`
	Timestamp string                     `json:"timestamp"`
}

// PositionsResponse is the body of the position list endpoints.
type PositionsResponse struct {
	Success   bool                    `json:"success"`
	Data      []entity.PositionRecord `json:"data"`
	Count     int                     `json:"count"`
	Account   string                  `json:"account"`
	Timestamp string                  `json:"timestamp"`
}

// PositionLookupResponse is the body of GET /api/positions/lookup. Data is null when nothing matched.
type PositionLookupResponse struct {
	Success   bool                        `json:"success"`
	Data      *entity.PositionWithFunding `json:"data"`
	Found     bool                        `json:"found"`
	Account   string                      `json:"account"`
	Timestamp string                      `json:"timestamp"`
}

// NetworksResponse is the body of GET /api/networks.
type NetworksResponse struct {
	Success bool                    `json:"success"`
	Data    []entity.NetworkProfile `json:"data"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string          `json:"status"`
	Ready  map[string]bool `json:"ready"`
}

func timestamp() string {
	return time.Now().UTC().Format(isoMillis)
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Bad request", Message: message})
}

func writeInternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Message: err.Error()})
}

// writeError maps service errors onto status codes.
func writeError(c *gin.Context, err error) {
	var input *entity.ClientInputError
	switch {
	case errors.As(err, &input):
		writeBadRequest(c, input.Message)
	case errors.Is(err, entity.ErrUnknownChain):
		writeBadRequest(c, err.Error())
	default:
		_ = c.Error(err)
		writeInternalError(c, err)
	}
}

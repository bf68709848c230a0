package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

const apiVersion = "1.0.0"

// numbers in echoed bodies are kept as written
var echoJSON = jsoniter.Config{ //nolint:gochecknoglobals
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// IndexHandler serves the API root.
type IndexHandler struct{}

// NewIndexHandler creates a new instance of IndexHandler.
func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// GetIndexHandler reports service name and version.
func (h *IndexHandler) GetIndexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Message: "GMX Gateway API",
		Version: apiVersion,
		Status:  "ok",
	})
}

// PostIndexHandler echoes the JSON request body. An empty body echoes as {}.
func (h *IndexHandler) PostIndexHandler(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		writeInternalError(c, err)
		return
	}

	var body interface{}
	if len(raw) == 0 {
		body = map[string]interface{}{}
	} else if err := echoJSON.Unmarshal(raw, &body); err != nil {
		writeInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, EchoResponse{Message: "POST request received", Data: body})
}

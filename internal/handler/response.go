package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope of every JSON response. Code is 0 on success
// and the HTTP status otherwise.
type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{Code: 0, Message: "ok", Data: data, Meta: meta})
}

// Accepted acknowledges work that continues after the response.
func Accepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, apiResponse{Code: 0, Message: "accepted", Data: data})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	Failed(c, status, message, nil, meta)
}

// Failed is Error with a payload, for failures that still produced a result
// worth returning, such as a collection run that stopped partway.
func Failed(c *gin.Context, status int, message string, data any, meta map[string]any) {
	c.JSON(status, apiResponse{Code: status, Message: message, Data: data, Meta: meta})
}

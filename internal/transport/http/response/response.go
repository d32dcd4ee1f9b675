package response

import "github.com/gin-gonic/gin"

// ErrorBody is the only error shape the API emits: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// Error builds an ErrorBody; an empty msg falls back to the status default.
func Error(status int, msg string) ErrorBody {
	if msg == "" {
		msg = StatusMsg(status)
	}
	return ErrorBody{Error: msg}
}

// Abort stops the chain and writes the error body.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}

// Message is the {"message": "..."} body used by delete.
type Message struct {
	Message string `json:"message"`
}

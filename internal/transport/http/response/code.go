package response

import "net/http"

// Default client-facing messages per status, used when a caller has nothing
// more specific to say.
var statusMsg = map[int]string{
	http.StatusBadRequest:            "Bad request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not found",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal server error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timeout",
}

func StatusMsg(status int) string {
	if m, ok := statusMsg[status]; ok {
		return m
	}
	return http.StatusText(status)
}

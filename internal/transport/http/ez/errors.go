package ez

import (
	"context"
	"errors"
	"net/http"

	"sweet-shop/internal/domain"
	resp "sweet-shop/internal/transport/http/response"
)

// AErr is a transport-level error with an explicit status, for failures that
// never reach the service layer (bad path or query values).
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }

var classStatus = []struct {
	class  error
	status int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

// StatusOf maps an error to a status and a client-safe message. Anything not
// recognised is a 500 with the generic message; its text never leaves the server.
func StatusOf(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, resp.Error(ae.Code, ae.Msg).Error
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, resp.StatusMsg(http.StatusRequestEntityTooLarge)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, resp.StatusMsg(http.StatusGatewayTimeout)
	}
	for _, cs := range classStatus {
		if !errors.Is(err, cs.class) {
			continue
		}
		var ce domain.ClientError
		if errors.As(err, &ce) {
			return cs.status, ce.ClientMessage()
		}
		return cs.status, resp.StatusMsg(cs.status)
	}
	return http.StatusInternalServerError, resp.StatusMsg(http.StatusInternalServerError)
}

func errorBody(code int, msg string) resp.ErrorBody { return resp.Error(code, msg) }

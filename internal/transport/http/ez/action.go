package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EZ registers actions on a router group and owns the logger used for
// unexpected failures.
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

func (e EZ) Group() *gin.RouterGroup { return e.g }

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

// Action describes one endpoint: I is the bound input, O the success body.
type Action[I any, O any] struct {
	Method  string
	Path    string // e.g. "/sweets/:id/purchase"
	Binder  Binder
	Status  int // success status, 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction binds the input, runs the handler and renders either the
// output or the mapped error. Every route goes through here, so error to
// status mapping lives in one place.
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	ensureValidator()
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
			// an empty body binds as {} so the handler reports what is missing
			if errors.Is(bindErr, io.EOF) {
				bindErr = nil
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			code, msg := bindError(bindErr)
			c.AbortWithStatusJSON(code, errorBody(code, msg))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Fail renders err with the status from StatusOf. Server-side failures are
// logged with the request id and attached to the gin context for the access log.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	code, msg := StatusOf(err)
	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
		l.Error("request failed",
			zap.Error(err),
			zap.String("rid", c.GetString("rid")),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
		)
	}
	c.AbortWithStatusJSON(code, errorBody(code, msg))
}

package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/service"
	"sweet-shop/internal/transport/http/ez"
	resp "sweet-shop/internal/transport/http/response"
)

type SweetHandler struct {
	svc *service.SweetService
}

func NewSweetHandler(svc *service.SweetService) *SweetHandler { return &SweetHandler{svc: svc} }

// price accepts a JSON number or a numeric string.
type sweetReq struct {
	Name        *string          `json:"name"        binding:"omitempty,max=255"`
	Category    *string          `json:"category"    binding:"omitempty,max=128"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Description *string          `json:"description" binding:"omitempty,max=5000"`
	ImageURL    *string          `json:"imageUrl"    binding:"omitempty,max=1024"`
}

type searchReq struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	MinPrice string `form:"minPrice"`
	MaxPrice string `form:"maxPrice"`
}

type amountReq struct {
	Quantity int `json:"quantity"`
}

type sweetsResp struct {
	Sweets []domain.Sweet `json:"sweets"`
}

type sweetResp struct {
	Message string        `json:"message,omitempty"`
	Sweet   *domain.Sweet `json:"sweet"`
}

type none struct{}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, ez.BadRequest(field + " must be a number")
	}
	return &d, nil
}

func (h *SweetHandler) Mount(g ez.Groups) {
	ez.RegisterAction(g.User, ez.Action[none, sweetsResp]{
		Method: http.MethodGet,
		Path:   "/sweets",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (sweetsResp, error) {
			sweets, err := h.svc.List(c.Request.Context())
			return sweetsResp{Sweets: sweets}, err
		},
	})

	ez.RegisterAction(g.User, ez.Action[searchReq, sweetsResp]{
		Method: http.MethodGet,
		Path:   "/sweets/search",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *searchReq) (sweetsResp, error) {
			minP, err := parsePrice("minPrice", in.MinPrice)
			if err != nil {
				return sweetsResp{}, err
			}
			maxP, err := parsePrice("maxPrice", in.MaxPrice)
			if err != nil {
				return sweetsResp{}, err
			}
			sweets, err := h.svc.Search(c.Request.Context(), domain.SweetFilter{
				Name:     in.Name,
				Category: in.Category,
				MinPrice: minP,
				MaxPrice: maxP,
			})
			return sweetsResp{Sweets: sweets}, err
		},
	})

	ez.RegisterAction(g.User, ez.Action[none, sweetResp]{
		Method: http.MethodGet,
		Path:   "/sweets/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (sweetResp, error) {
			sw, err := h.svc.Get(c.Request.Context(), c.Param("id"))
			return sweetResp{Sweet: sw}, err
		},
	})

	ez.RegisterAction(g.User, ez.Action[amountReq, sweetResp]{
		Method: http.MethodPost,
		Path:   "/sweets/:id/purchase",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *amountReq) (sweetResp, error) {
			sw, err := h.svc.Purchase(c.Request.Context(), c.Param("id"), in.Quantity)
			return sweetResp{Message: "Purchase successful", Sweet: sw}, err
		},
	})

	ez.RegisterAction(g.Admin, ez.Action[sweetReq, sweetResp]{
		Method: http.MethodPost,
		Path:   "/sweets",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *sweetReq) (sweetResp, error) {
			sw, err := h.svc.Create(c.Request.Context(), service.CreateSweetInput{
				Name:        deref(in.Name),
				Category:    deref(in.Category),
				Price:       in.Price,
				Quantity:    in.Quantity,
				Description: in.Description,
				ImageURL:    in.ImageURL,
			})
			return sweetResp{Message: "Sweet created successfully", Sweet: sw}, err
		},
	})

	ez.RegisterAction(g.Admin, ez.Action[sweetReq, sweetResp]{
		Method: http.MethodPut,
		Path:   "/sweets/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *sweetReq) (sweetResp, error) {
			sw, err := h.svc.Update(c.Request.Context(), c.Param("id"), service.UpdateSweetInput{
				Name:        in.Name,
				Category:    in.Category,
				Price:       in.Price,
				Quantity:    in.Quantity,
				Description: in.Description,
				ImageURL:    in.ImageURL,
			})
			return sweetResp{Message: "Sweet updated successfully", Sweet: sw}, err
		},
	})

	ez.RegisterAction(g.Admin, ez.Action[none, resp.Message]{
		Method: http.MethodDelete,
		Path:   "/sweets/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *none) (resp.Message, error) {
			if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return resp.Message{}, err
			}
			return resp.Message{Message: "Sweet deleted successfully"}, nil
		},
	})

	ez.RegisterAction(g.Admin, ez.Action[amountReq, sweetResp]{
		Method: http.MethodPost,
		Path:   "/sweets/:id/restock",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *amountReq) (sweetResp, error) {
			sw, err := h.svc.Restock(c.Request.Context(), c.Param("id"), in.Quantity)
			return sweetResp{Message: "Restock successful", Sweet: sw}, err
		},
	})
}

func (h *SweetHandler) Priority() int { return 20 }

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sweet-shop/internal/domain"
	"sweet-shop/internal/service"
	"sweet-shop/internal/transport/http/ez"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type registerReq struct {
	Email    string `json:"email"    binding:"max=191"`
	Password string `json:"password"`
	Name     string `json:"name"     binding:"max=128"`
	Role     string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResp struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    domain.PublicUser `json:"user"`
}

func (h *AuthHandler) Mount(g ez.Groups) {
	ez.RegisterAction(g.Public, ez.Action[registerReq, authResp]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerReq) (authResp, error) {
			res, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Email:    in.Email,
				Password: in.Password,
				Name:     in.Name,
				Role:     in.Role,
			})
			if err != nil {
				return authResp{}, err
			}
			return authResp{Message: "User registered successfully", Token: res.Token, User: res.User}, nil
		},
	})

	ez.RegisterAction(g.Public, ez.Action[loginReq, authResp]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginReq) (authResp, error) {
			res, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return authResp{}, err
			}
			return authResp{Message: "Login successful", Token: res.Token, User: res.User}, nil
		},
	})
}

func (h *AuthHandler) Priority() int { return 10 }

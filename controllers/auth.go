package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/config"
	"carewell-server/middleware"
	"carewell-server/models"
	"carewell-server/services"
	"carewell-server/util"
)

type AuthController struct {
	auth *services.AuthService
	cfg  *config.Config
}

func NewAuthController(auth *services.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{auth: auth, cfg: cfg}
}

func (ac *AuthController) Register(r gin.IRouter) {
	r.POST("/signup", ac.Signup)
	r.POST("/signin", ac.SignIn)
	r.POST("/signout", ac.SignOut)
	r.POST("/admin/signin", ac.AdminSignIn)
	r.POST("/admin/signout", ac.SignOut)
	r.POST("/setup-admin", ac.SetupAdmin)
}

func (ac *AuthController) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := ac.auth.Signup(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	ac.issueSession(c, user)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (ac *AuthController) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := ac.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}
	ac.issueSession(c, user)
}

func (ac *AuthController) AdminSignIn(c *gin.Context) {
	var req signInRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := ac.auth.AdminSignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}
	ac.issueSession(c, user)
}

func (ac *AuthController) SignOut(c *gin.Context) {
	middleware.ClearTokenCookie(c, ac.cfg)
	c.JSON(200, util.SuccessResponse(gin.H{"message": "signed out"}))
}

type setupAdminRequest struct {
	services.SignupRequest
	Role string `json:"role"`
}

func (ac *AuthController) SetupAdmin(c *gin.Context) {
	var req setupAdminRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := ac.auth.SetupAdmin(c.Request.Context(), req.SignupRequest, req.Role)
	if err != nil {
		util.Fail(c, err)
		return
	}
	ac.issueSession(c, user)
}

func (ac *AuthController) issueSession(c *gin.Context, user *models.User) {
	token, err := middleware.GenerateToken(user, ac.cfg)
	if err != nil {
		util.Fail(c, err)
		return
	}
	middleware.SetTokenCookie(c, token, ac.cfg)
	c.JSON(200, util.SuccessResponse(user))
}

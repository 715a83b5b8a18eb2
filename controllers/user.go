package controllers

import (
	"github.com/gin-gonic/gin"

	"carewell-server/services"
	"carewell-server/util"
)

type UserController struct {
	users *services.UserService
	auth  *services.AuthService
}

func NewUserController(users *services.UserService, auth *services.AuthService) *UserController {
	return &UserController{users: users, auth: auth}
}

// Register mounts the caller's own profile routes.
func (uc *UserController) Register(r gin.IRouter) {
	r.GET("/profile", uc.Profile)
	r.PUT("/profile", uc.UpdateProfile)
}

func (uc *UserController) RegisterAdmin(r gin.IRouter) {
	users := r.Group("/users")
	{
		users.GET("", uc.List)
		users.GET("/:id", uc.Get)
		users.PUT("/:id", uc.AdminUpdate)
		users.DELETE("/:id", uc.Delete)
	}
	r.GET("/patients", uc.ListPatients)
}

// RegisterSuperAdmin mounts the manage-admins surface.
func (uc *UserController) RegisterSuperAdmin(r gin.IRouter) {
	admins := r.Group("/manage-admins")
	{
		admins.GET("", uc.ListAdmins)
		admins.POST("", uc.CreateAdmin)
		admins.DELETE("/:id", uc.Delete)
	}
}

func (uc *UserController) Profile(c *gin.Context) {
	id, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(user))
}

type profileUpdateRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	id, err := callerID(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req profileUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := uc.users.Update(c.Request.Context(), id, services.UserUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(user))
}

type adminUserUpdateRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
}

func (uc *UserController) AdminUpdate(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	var req adminUserUpdateRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := uc.users.Update(c.Request.Context(), id, services.UserUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(user))
}

func (uc *UserController) List(c *gin.Context) {
	list, err := uc.users.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (uc *UserController) ListPatients(c *gin.Context) {
	list, err := uc.users.ListPatients(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (uc *UserController) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	user, err := uc.users.Get(c.Request.Context(), id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(user))
}

func (uc *UserController) Delete(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		util.Fail(c, err)
		return
	}
	if err := uc.users.Delete(c.Request.Context(), id); err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(gin.H{"message": "user deleted"}))
}

func (uc *UserController) ListAdmins(c *gin.Context) {
	list, err := uc.users.ListAdmins(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(list))
}

func (uc *UserController) CreateAdmin(c *gin.Context) {
	var req services.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		util.Fail(c, util.ValidationError("invalid request body"))
		return
	}
	user, err := uc.auth.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		util.Fail(c, err)
		return
	}
	c.JSON(200, util.SuccessResponse(user))
}

// controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"frontdesk-backend/services"
	"frontdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createStaffPayload struct {
	FullName string `json:"fullName"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// Login: POST /api/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	token, user, err := ctrl.AuthSvc.Login(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"fullName": user.FullName,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// CreateStaff: POST /api/staff — admin only (enforced in routes).
func (ctrl *AuthController) CreateStaff(c *gin.Context) {
	var payload createStaffPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: username and password required")
		return
	}

	user, err := ctrl.AuthSvc.CreateStaff(payload.FullName, payload.Username, payload.Password, payload.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user)
}

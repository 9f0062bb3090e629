package controllers

import (
	"net/http"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	Auth   *services.AuthService
	Logger *logrus.Logger
}

func NewAuthController(auth *services.AuthService, logger *logrus.Logger) *AuthController {
	return &AuthController{Auth: auth, Logger: logger}
}

// Login handles POST /auth/login and issues a bearer token.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "username and password are required")
		return
	}

	token, user, err := ctrl.Auth.Login(payload.Username, payload.Password)
	if err != nil {
		// Do not leak which half of the credential pair was wrong.
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "invalid username or password")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

package controllers

import (
	"net/http"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type SettingsController struct {
	Settings *services.SettingsService
	Logger   *logrus.Logger
}

func NewSettingsController(settings *services.SettingsService, logger *logrus.Logger) *SettingsController {
	return &SettingsController{Settings: settings, Logger: logger}
}

func (ctrl *SettingsController) Get(c *gin.Context) {
	setting, err := ctrl.Settings.Get()
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

func (ctrl *SettingsController) Update(c *gin.Context) {
	var patch services.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request body: "+err.Error())
		return
	}

	setting, err := ctrl.Settings.Update(patch)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

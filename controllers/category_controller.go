package controllers

import (
	"net/http"
	"strconv"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type categoryPayload struct {
	Name           string `json:"name" binding:"required"`
	MaxRooms       int    `json:"maxRooms"`
	BaseRoomNumber int    `json:"baseRoomNumber"`
	Status         string `json:"status"`
}

type capacityPayload struct {
	MaxRooms *int `json:"maxRooms" binding:"required"`
}

type CategoryController struct {
	Categories *services.CategoryService
	Logger     *logrus.Logger
}

func NewCategoryController(categories *services.CategoryService, logger *logrus.Logger) *CategoryController {
	return &CategoryController{Categories: categories, Logger: logger}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "id must be numeric")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *CategoryController) Create(c *gin.Context) {
	var payload categoryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "name is required")
		return
	}

	category, err := ctrl.Categories.Create(models.Category{
		Name:           payload.Name,
		MaxRooms:       payload.MaxRooms,
		BaseRoomNumber: payload.BaseRoomNumber,
		Status:         payload.Status,
	})
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, category)
}

func (ctrl *CategoryController) List(c *gin.Context) {
	categories, err := ctrl.Categories.List()
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, categories)
}

func (ctrl *CategoryController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := ctrl.Categories.Get(id)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, category)
}

// UpdateCapacity is an admin-gated capacity edit.
func (ctrl *CategoryController) UpdateCapacity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload capacityPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.MaxRooms == nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "maxRooms is required")
		return
	}

	category, err := ctrl.Categories.UpdateCapacity(id, *payload.MaxRooms)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, category)
}

func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.Categories.Delete(id); err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "category deleted"})
}

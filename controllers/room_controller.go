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

type roomPayload struct {
	CategoryID  uint    `json:"categoryId" binding:"required"`
	RoomNumber  int     `json:"roomNumber"`
	Price       float64 `json:"price"`
	Floor       string  `json:"floor"`
	Description string  `json:"description"`
}

type roomUpdatePayload struct {
	Price       *float64 `json:"price"`
	Floor       *string  `json:"floor"`
	Description *string  `json:"description"`
}

type roomStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type RoomController struct {
	Rooms  *services.RoomService
	Logger *logrus.Logger
}

func NewRoomController(rooms *services.RoomService, logger *logrus.Logger) *RoomController {
	return &RoomController{Rooms: rooms, Logger: logger}
}

func (ctrl *RoomController) Create(c *gin.Context) {
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "categoryId is required")
		return
	}

	room, err := ctrl.Rooms.Create(models.Room{
		CategoryID:  payload.CategoryID,
		RoomNumber:  payload.RoomNumber,
		Price:       payload.Price,
		Floor:       payload.Floor,
		Description: payload.Description,
	})
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// List handles GET /rooms?categoryId=&status=.
func (ctrl *RoomController) List(c *gin.Context) {
	var categoryID uint
	if raw := c.Query("categoryId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "categoryId must be numeric")
			return
		}
		categoryID = uint(parsed)
	}

	rooms, err := ctrl.Rooms.List(categoryID, c.Query("status"))
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload roomUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request body: "+err.Error())
		return
	}

	room, err := ctrl.Rooms.Update(id, payload.Price, payload.Floor, payload.Description)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// SetStatus handles PUT /rooms/:id/status for maintenance flips.
func (ctrl *RoomController) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "status is required")
		return
	}

	room, err := ctrl.Rooms.SetStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(id); err != nil {
		respondServiceError(c, ctrl.Logger, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}

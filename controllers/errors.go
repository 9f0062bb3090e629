package controllers

import (
	"errors"
	"net/http"
	"strings"

	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// respondServiceError maps the service error taxonomy onto HTTP. Store
// error text never reaches the client; unknown errors are logged and
// collapse to a generic 500.
func respondServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, "error.validation", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "error.notFound", err.Error())
	case errors.Is(err, services.ErrCapacityExceeded):
		utils.JSONError(c, http.StatusConflict, "error.capacityExceeded", err.Error())
	case errors.Is(err, services.ErrInvalidState):
		utils.JSONError(c, http.StatusConflict, "error.invalidState", err.Error())
	case errors.Is(err, services.ErrAlreadyExists):
		utils.JSONError(c, http.StatusConflict, "error.alreadyExists", err.Error())
	case errors.Is(err, services.ErrEditLimitExceeded):
		utils.JSONError(c, http.StatusForbidden, "error.editLimitExceeded", err.Error())
	case isForeignKeyError(err):
		utils.JSONError(c, http.StatusBadRequest, "error.badReference", "referenced record does not exist")
	default:
		logger.WithError(err).Error("internal error")
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error")
	}
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1452
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "foreign key")
}

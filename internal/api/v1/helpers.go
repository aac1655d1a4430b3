package v1

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Rana718/forge/internal/apperrors"
	"github.com/Rana718/forge/internal/repositories"
)

const DefaultLimit = 20

// Page is a skip/limit window read from the query string.
type Page struct {
	Skip  int `form:"skip" binding:"gte=0"`
	Limit int `form:"limit" binding:"gte=1,lte=100"`
}

func parsePage(c *gin.Context) (Page, error) {
	page := Page{Limit: DefaultLimit}
	if err := c.ShouldBindQuery(&page); err != nil {
		return Page{}, apperrors.Validation(err.Error())
	}
	return page, nil
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid id")
	}
	return uint(id), nil
}

// notFound maps a missing row to a 404 carrying message.
func notFound(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.RecordNotFound(message)
	}
	return err
}

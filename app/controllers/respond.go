package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cafahardware/pos/app/services"
	"github.com/cafahardware/pos/pkg/ctx"
	"github.com/cafahardware/pos/pkg/logger"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Validation problems are 422, state conflicts (including stock shortage)
// are 409, missing records are 404, anything else is a logged 500.
func respondServiceError(c *ctx.Context, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		field := ve.Field
		if field == "" {
			field = "input"
		}
		c.ValidationError(map[string]string{field: ve.Message})
		return
	}

	if services.IsInsufficientStock(err) || services.IsInvalidState(err) {
		c.Error(http.StatusConflict, err.Error())
		return
	}

	if services.IsNotFound(err) {
		c.NotFound()
		return
	}

	logger.Error("request failed", "path", c.Path(), "error", err)
	c.Error(http.StatusInternalServerError, "Something went wrong")
}

// paramID parses the {id} path parameter.
func paramID(c *ctx.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.Error(http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// pageParams reads the standard page / per_page query parameters.
func pageParams(c *ctx.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	return page, perPage
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

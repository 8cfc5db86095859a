package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getStaffID extracts the staff_id placed in the context by the JWT
// middleware and converts it to uint64.  JWT numeric claims decode as
// float64, but other middlewares may store native integer types.
func getStaffID(c echo.Context) (uint64, error) {
	switch t := c.Get("staff_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid staff_id in context")
}

// orderIDParam parses the :id path parameter as an order id.
func orderIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

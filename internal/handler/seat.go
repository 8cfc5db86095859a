package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/split"
)

// SeatHandler serves live per-seat running balances and lifecycle statuses
// for an order in progress.  Balances are derived on every request from the
// raw items and payments; nothing is persisted.
type SeatHandler struct {
	OrderRepo *repository.OrderRepo
	Settings  *config.Settings
	Window    time.Duration // staleness window for status classification
}

// NewSeatHandler constructs a SeatHandler.  Dependencies must be non-nil.
func NewSeatHandler(orderRepo *repository.OrderRepo, settings *config.Settings, window time.Duration) *SeatHandler {
	if orderRepo == nil || settings == nil {
		panic("nil dependency passed to NewSeatHandler")
	}
	return &SeatHandler{OrderRepo: orderRepo, Settings: settings, Window: window}
}

// GetSeatBalances handles GET /v1/orders/:id/seats.  It returns one balance
// per seat from 1 through the order's guest count, including unused seats
// (zero balance, status "empty").  When the guest count is missing, the
// highest seat number among the items is used so no occupied seat is
// dropped.
func (h *SeatHandler) GetSeatBalances(c echo.Context) error {
	orderID, ok := orderIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()

	order, err := h.OrderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.OrderRepo.ListItems(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load items"})
	}
	payments, err := h.OrderRepo.ListPayments(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}

	totalSeats := order.GuestCount
	for _, it := range items {
		if it.SeatNumber != nil && *it.SeatNumber > totalSeats {
			totalSeats = *it.SeatNumber
		}
	}

	tax := h.Settings.TaxPolicy(ctx)
	balances := split.CalculateAllSeatBalances(items, totalSeats, payments, tax, h.Window, time.Now().UTC())

	return c.JSON(http.StatusOK, echo.Map{
		"order_id": order.ID,
		"table":    order.TableNumber,
		"tax_rate": tax.Rate,
		"seats":    balances,
	})
}

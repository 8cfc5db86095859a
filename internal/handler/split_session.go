package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	queue_publisher "github.com/iliyamo/restaurant-pos/internal/service"
	"github.com/iliyamo/restaurant-pos/internal/split"
)

// SplitHandler drives the split-check engine over HTTP.  Each order has at
// most one live session, held in the in-memory store; the engine itself
// never touches the database.  Unmet preconditions inside the engine are
// silent no-ops, so every operation endpoint simply returns the refreshed
// session view and the UI reflects whatever did or did not change.
type SplitHandler struct {
	OrderRepo *repository.OrderRepo
	CheckRepo *repository.CheckRepo
	Sessions  *split.Store
}

// NewSplitHandler constructs a SplitHandler.  All dependencies must be
// non-nil.
func NewSplitHandler(orderRepo *repository.OrderRepo, checkRepo *repository.CheckRepo, sessions *split.Store) *SplitHandler {
	if orderRepo == nil || checkRepo == nil || sessions == nil {
		panic("nil dependency passed to NewSplitHandler")
	}
	return &SplitHandler{OrderRepo: orderRepo, CheckRepo: checkRepo, Sessions: sessions}
}

// sessionView serializes the session for the UI, including a live
// integrity report so the client can disable commit while issues exist.
func sessionView(s *split.Session) echo.Map {
	checks := make([]echo.Map, 0, len(s.Checks()))
	for _, ch := range s.Checks() {
		shares := make([]echo.Map, 0, len(ch.Shares))
		for _, sh := range ch.Shares {
			shares = append(shares, echo.Map{
				"share_id":         sh.ID,
				"original_item_id": sh.OriginalItemID,
				"name":             sh.Name,
				"amount":           sh.Amount,
				"quantity":         sh.Quantity,
				"seat_number":      sh.SeatNumber,
				"category":         sh.Category,
				"is_paid":          sh.IsPaid,
				"sent_to_kitchen":  sh.SentToKitchen,
				"split_group_id":   sh.SplitGroup,
				"fraction_label":   sh.FractionLabel,
			})
		}
		checks = append(checks, echo.Map{
			"check_id":    ch.ID,
			"label":       ch.Label,
			"color":       ch.Color,
			"seat_number": ch.SeatNumber,
			"subtotal":    ch.Subtotal,
			"shares":      shares,
		})
	}
	return echo.Map{
		"order_id":          s.OrderID(),
		"mode":              s.Mode(),
		"ways":              s.Ways(),
		"selected_share_id": s.SelectedShareID(),
		"checks":            checks,
		"split_total":       s.SplitTotal(),
		"original_total":    s.OriginalTotal(),
		"integrity":         split.CheckIntegrity(s),
	}
}

// session fetches the live session for the order in the path, writing the
// appropriate error response when it is absent.
func (h *SplitHandler) session(c echo.Context) (*split.Session, bool) {
	orderID, ok := orderIDParam(c)
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
		return nil, false
	}
	s := h.Sessions.Get(orderID)
	if s == nil {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "no active split session for this order"})
		return nil, false
	}
	return s, true
}

// StartSession handles POST /v1/orders/:id/split.  It loads the order's
// items and opens a fresh session, replacing any previous one for the same
// order.  An optional "mode" in the body forces the initial partition mode.
func (h *SplitHandler) StartSession(c echo.Context) error {
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
	if order.Status != model.OrderOpen {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order is not open"})
	}
	items, err := h.OrderRepo.ListItems(ctx, orderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load items"})
	}
	if len(items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order has no items to split"})
	}

	var body struct {
		Mode string `json:"mode"`
	}
	_ = c.Bind(&body) // empty body is fine, mode is optional

	s := split.NewSessionWithMode(orderID, items, split.Mode(body.Mode))
	h.Sessions.Put(s)
	return c.JSON(http.StatusCreated, sessionView(s))
}

// GetSession handles GET /v1/orders/:id/split.
func (h *SplitHandler) GetSession(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, sessionView(s))
}

// SelectShare handles POST /v1/orders/:id/split/select.  An empty share_id
// clears the selection; re-selecting toggles off; paid shares refuse
// selection.
func (h *SplitHandler) SelectShare(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		ShareID string `json:"share_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.SelectShare(body.ShareID)
	return c.JSON(http.StatusOK, sessionView(s))
}

// MoveSelected handles POST /v1/orders/:id/split/move, relocating the
// selected share onto the target check.
func (h *SplitHandler) MoveSelected(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		CheckID string `json:"check_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.MoveSelectedTo(body.CheckID)
	return c.JSON(http.StatusOK, sessionView(s))
}

// MoveSelectedToNew handles POST /v1/orders/:id/split/move-new, creating a
// fresh auto-numbered check for the selected share.
func (h *SplitHandler) MoveSelectedToNew(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	s.MoveSelectedToNewCheck()
	return c.JSON(http.StatusOK, sessionView(s))
}

// SplitShare handles POST /v1/orders/:id/split/share.  The body names the
// share and the number of ways; a zero "ways" falls back to the session's
// ways parameter so the even-split UI can reuse its dial.
func (h *SplitHandler) SplitShare(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		ShareID string `json:"share_id"`
		Ways    int    `json:"ways"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ways := body.Ways
	if ways == 0 {
		ways = s.Ways()
	}
	s.SplitShare(body.ShareID, ways)
	return c.JSON(http.StatusOK, sessionView(s))
}

// ApplyMode handles POST /v1/orders/:id/split/mode, repartitioning the
// session (or, for "even", just recording the display mode).
func (h *SplitHandler) ApplyMode(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		Mode string `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !split.ValidMode(split.Mode(body.Mode)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown split mode"})
	}
	s.ApplyMode(split.Mode(body.Mode))
	return c.JSON(http.StatusOK, sessionView(s))
}

// SetWays handles POST /v1/orders/:id/split/ways, adjusting the even-split
// parameter.  Values below 2 are ignored by the engine.
func (h *SplitHandler) SetWays(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		Ways int `json:"ways"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	s.SetWays(body.Ways)
	return c.JSON(http.StatusOK, sessionView(s))
}

// ResetSession handles POST /v1/orders/:id/split/reset, restoring the
// construction-time partition.
func (h *SplitHandler) ResetSession(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	s.Reset()
	return c.JSON(http.StatusOK, sessionView(s))
}

// CancelSession handles DELETE /v1/orders/:id/split, discarding the
// session without committing anything.
func (h *SplitHandler) CancelSession(c echo.Context) error {
	orderID, ok := orderIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	h.Sessions.Remove(orderID)
	return c.NoContent(http.StatusNoContent)
}

// Commit handles POST /v1/orders/:id/split/commit.  The integrity checker
// is the sole authority on commit-readiness: its issues are surfaced
// verbatim and block the commit.  A clean session is turned into the two
// wire payloads, persisted atomically against the order's current version,
// announced on the broker, and dropped from the store.
func (h *SplitHandler) Commit(c echo.Context) error {
	s, ok := h.session(c)
	if !ok {
		return nil
	}
	staffID, err := getStaffID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	report := split.CheckIntegrity(s)
	if !report.OK {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "integrity check failed",
			"issues": report.Issues,
		})
	}

	order, err := h.OrderRepo.GetByID(ctx, s.OrderID())
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	assignments := split.BuildAssignments(s)
	splitItems := split.BuildSplitItems(s)

	checkIDs, err := h.CheckRepo.CommitSplit(ctx, order.ID, order.Version, assignments, splitItems)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "order was modified by another terminal, reopen the split screen"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit split"})
	}

	// Best-effort audit event; a broker outage must not undo the commit.
	_ = queue_publisher.PublishCheckCommitted(ctx, queue.CheckCommittedEvent{
		OrderID:     order.ID,
		TableNumber: order.TableNumber,
		StaffID:     staffID,
		Mode:        string(s.Mode()),
		CheckIDs:    checkIDs,
		CheckCount:  len(checkIDs),
		SplitTotal:  s.SplitTotal(),
		CommittedAt: time.Now().UTC().Format(time.RFC3339),
	})

	h.Sessions.Remove(order.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"check_ids":   checkIDs,
		"check_count": len(checkIDs),
	})
}

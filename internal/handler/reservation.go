package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ankitaduttagupta/ticketing-service/internal/catalog"
	"github.com/ankitaduttagupta/ticketing-service/internal/middleware"
	"github.com/ankitaduttagupta/ticketing-service/internal/model"
	q "github.com/ankitaduttagupta/ticketing-service/internal/queue"
	"github.com/ankitaduttagupta/ticketing-service/internal/reservation"
	svc "github.com/ankitaduttagupta/ticketing-service/internal/service"
)

// ReservationHandler wires the HTTP surface onto the reservation core and
// the catalog: bind request, call one collaborator, map sentinel errors to
// status codes.
type ReservationHandler struct {
	Coordinator *reservation.Coordinator
	API         *reservation.API
	Catalog     *catalog.Repo
}

func NewReservationHandler(coord *reservation.Coordinator, api *reservation.API, cat *catalog.Repo) *ReservationHandler {
	return &ReservationHandler{Coordinator: coord, API: api, Catalog: cat}
}

type preloadTicketReq struct {
	TicketID string                 `json:"ticket_id"`
	Fields   map[string]interface{} `json:"fields"`
}

type preloadReq struct {
	Name           string             `json:"name"`
	UnitPriceCents uint32             `json:"unit_price_cents"`
	Tickets        []preloadTicketReq `json:"tickets"`
}

// Preload handles POST /preload/{class}. It is an owner-only operation that
// creates the class's catalog row on first use and writes its tickets into
// the pool and available containers.
func (h *ReservationHandler) Preload(c echo.Context) error {
	classID, err := classIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}

	var req preloadReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Tickets) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must be non-empty"})
	}

	ctx := c.Request().Context()
	if _, err := h.Catalog.GetClass(ctx, classID); errors.Is(err, catalog.ErrClassNotFound) {
		name := req.Name
		if name == "" {
			name = "class-" + strconv.Itoa(classID)
		}
		if err := h.Catalog.CreateClass(ctx, classID, name, req.UnitPriceCents); err != nil && !errors.Is(err, catalog.ErrClassExists) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create class failed"})
		}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load class failed"})
	}

	inputs := make([]catalog.TicketInput, len(req.Tickets))
	raw := make([]json.RawMessage, len(req.Tickets))
	for i, t := range req.Tickets {
		inputs[i] = catalog.TicketInput{TicketID: t.TicketID}
		if t.Fields != nil {
			if b, err := json.Marshal(t.Fields); err == nil {
				raw[i] = b
			}
		}
	}

	n, err := h.Catalog.Seed(ctx, classID, inputs, raw)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"seeded": n})
}

type purchaseReq struct {
	Count int `json:"count"`
}

// Purchase handles POST /purchase/{class}. It runs the full purchase
// protocol — pre-check, reserve, pay, confirm-or-rollback — and maps every
// sentinel reservation error onto an HTTP status code.
func (h *ReservationHandler) Purchase(c echo.Context) error {
	classID, err := classIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}

	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Count < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be >= 1"})
	}

	playerID := middleware.UserID(c)
	if playerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	result, err := h.Coordinator.Purchase(c.Request().Context(), classID, playerID, req.Count)
	if err != nil {
		return purchaseError(c, err)
	}

	ids := make([]string, len(result.Tickets))
	for i, t := range result.Tickets {
		ids[i] = t.ID
	}

	go publishSold(classID, playerID, ids, result.TotalAmountCents)

	return c.JSON(http.StatusOK, echo.Map{
		"tickets": result.Tickets,
		"count":   len(ids),
	})
}

func purchaseError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, reservation.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, reservation.ErrInsufficientInventory):
		return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient inventory"})
	case errors.Is(err, reservation.ErrPaymentDeclined):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment declined"})
	case errors.Is(err, reservation.ErrFinalizeMismatch):
		return c.JSON(http.StatusConflict, echo.Map{"error": "finalize mismatch"})
	case errors.Is(err, reservation.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
	}
}

// Counts handles GET /counts/{class}.
func (h *ReservationHandler) Counts(c echo.Context) error {
	classID, err := classIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	available, reserved, sold, err := h.API.Counts(c.Request().Context(), classID)
	if err != nil {
		if errors.Is(err, reservation.ErrStoreUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "counts failed"})
	}
	return c.JSON(http.StatusOK, model.Counts{
		Available: int(available),
		Reserved:  int(reserved),
		Sold:      int(sold),
	})
}

// Reclaim handles POST /reclaim/{class}?limit=N, an owner-triggerable
// manual sweep used in tests and ops tooling alongside the background
// Sweeper.
func (h *ReservationHandler) Reclaim(c echo.Context) error {
	classID, err := classIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid class id"})
	}
	limit := 500
	if lim := c.QueryParam("limit"); lim != "" {
		if n, err := strconv.Atoi(lim); err == nil && n > 0 {
			limit = n
		}
	}
	ids, err := h.API.Reclaim(c.Request().Context(), classID, limit)
	if err != nil {
		if errors.Is(err, reservation.ErrStoreUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reclaim failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reclaimed": ids, "count": len(ids)})
}

func classIDParam(c echo.Context) (int, error) {
	return strconv.Atoi(c.Param("class"))
}

// publishSold fires the ticket.sold event after a confirmed purchase. It
// runs off the request path and swallows its own errors — a broker hiccup
// must never undo a payment the coordinator already confirmed.
func publishSold(classID int, playerID string, ticketIDs []string, totalAmountCents uint32) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	event := q.TicketSoldEvent{
		ClassID:          classID,
		PlayerID:         playerID,
		TicketIDs:        ticketIDs,
		TotalAmountCents: totalAmountCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := svc.PublishTicketSold(ctx, event); err != nil {
		log.Printf("purchase: publish ticket.sold failed: %v", err)
	}
}

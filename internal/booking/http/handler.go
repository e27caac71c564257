package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/facility-booking-backend/internal/auth"
	"github.com/nekogravitycat/facility-booking-backend/internal/booking"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/facility-booking-backend/internal/pkg/response"
)

// Handler serves the reservation endpoints of one facility kind.
type Handler struct {
	service booking.Service
	kind    booking.Kind
}

func NewHandler(service booking.Service, kind booking.Kind) *Handler {
	return &Handler{service: service, kind: kind}
}

func (h *Handler) List(c *gin.Context) {
	var req request.ListParams
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), booking.Filter{
		Kind:     h.kind,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(newReservationResponses(items), req.Page, req.PageSize, total))
}

// TimeSlots lists the day's slots without availability.
func (h *Handler) TimeSlots(c *gin.Context) {
	var req request.DateQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := req.ParseIn(h.service.Location())
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	slots, err := h.service.TimeSlots(h.kind, date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{StartTime: s.Start, EndTime: s.End}
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	var req AvailableSlotsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := req.ParseIn(h.service.Location())
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), h.kind, date, req.Unit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AvailabilityResponse, len(slots))
	for i, s := range slots {
		items[i] = AvailabilityResponse{StartTime: s.Start, EndTime: s.End, Available: s.Available}
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) ByDate(c *gin.Context) {
	var req request.DateQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	date, err := req.ParseIn(h.service.Location())
	if err != nil {
		response.BadRequest(c, "invalid date", err)
		return
	}

	items, err := h.service.ListByDate(c.Request.Context(), h.kind, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newReservationResponses(items)))
}

func (h *Handler) Range(c *gin.Context) {
	var req RangeQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	items, err := h.service.ListByTimeRange(c.Request.Context(), h.kind, req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newReservationResponses(items)))
}

// Mine lists the caller's own reservations.
func (h *Handler) Mine(c *gin.Context) {
	h.listByOwner(c, auth.GetUserID(c))
}

func (h *Handler) ByOwner(c *gin.Context) {
	var uri OwnerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	h.listByOwner(c, uri.UserID)
}

func (h *Handler) listByOwner(c *gin.Context, userID string) {
	items, err := h.service.ListByOwner(c.Request.Context(), h.kind, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newReservationResponses(items)))
}

func (h *Handler) ByUnit(c *gin.Context) {
	var uri UnitURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	items, err := h.service.ListByUnit(c.Request.Context(), h.kind, uri.Unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewListResponse(newReservationResponses(items)))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), h.kind, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	requesterID := body.RequesterID
	if requesterID == "" {
		requesterID = auth.GetUserID(c)
	}

	r, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		Kind:            h.kind,
		RequesterID:     requesterID,
		Floor:           body.Floor,
		FacilityID:      body.FacilityID,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		AttendeeCount:   body.AttendeeCount,
		Notes:           body.Notes,
		BorrowEquipment: body.BorrowEquipment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), h.kind, uri.ID, booking.UpdateRequest{
		RequesterID:     body.RequesterID,
		Floor:           body.Floor,
		FacilityID:      body.FacilityID,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		AttendeeCount:   body.AttendeeCount,
		Notes:           body.Notes,
		BorrowEquipment: body.BorrowEquipment,
		IsDone:          body.IsDone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), h.kind, uri.ID, auth.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

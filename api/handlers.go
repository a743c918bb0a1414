package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"court-booking/logger"
	"court-booking/types"

	"github.com/gin-gonic/gin"
)

// Booking is the set of operations the HTTP surface exposes.
type Booking interface {
	Reserve(courtID int, date types.Date, duration int) error
	Cancel(courtID int) (int, error)
	CheckAvailability(courtID int, date types.Date) bool
	EnableLighting(courtID int) error
	DisableLighting(courtID int) error
	Lighting(courtID int) (bool, error)
	Lights() []bool
	Reservations() []types.Reservation
	CourtReservations(courtID int) ([]types.Reservation, error)
	MaxCourts() int
}

type JournalReader interface {
	Recent(ctx context.Context, n int64) ([]types.Event, error)
}

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

type Handler struct {
	booking Booking
	journal JournalReader
	log     *logger.Logger
}

// NewHandler builds the HTTP handlers. journal may be nil.
func NewHandler(booking Booking, journal JournalReader, log *logger.Logger) *Handler {
	return &Handler{booking: booking, journal: journal, log: log}
}

type reserveRequest struct {
	CourtID  *int   `json:"court_id" binding:"required,min=0"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `json:"duration" binding:"required,gt=0"`
}

type cancelResponse struct {
	CourtID int `json:"court_id"`
	Removed int `json:"removed"`
}

type availabilityResponse struct {
	CourtID   int        `json:"court_id"`
	Date      types.Date `json:"date"`
	Available bool       `json:"available"`
}

type lightingResponse struct {
	CourtID int  `json:"court_id"`
	On      bool `json:"on"`
}

// courtParam parses the :id path segment. Range checks are left to the
// booking layer so every surface rejects the same IDs.
func courtParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "court id must be an integer", map[string]string{"id": c.Param("id")})
		return 0, false
	}
	return id, true
}

func (h *Handler) Reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body", validationErrors(err))
		return
	}
	date, err := types.ParseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.booking.Reserve(*req.CourtID, date, req.Duration); err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "reservation created", types.Reservation{
		CourtID:  *req.CourtID,
		Date:     date,
		Duration: req.Duration,
	})
}

func (h *Handler) ListReservations(c *gin.Context) {
	respondOK(c, http.StatusOK, "reservations", h.booking.Reservations())
}

func (h *Handler) CourtReservations(c *gin.Context) {
	id, ok := courtParam(c)
	if !ok {
		return
	}
	list, err := h.booking.CourtReservations(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "reservations", list)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := courtParam(c)
	if !ok {
		return
	}
	removed, err := h.booking.Cancel(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "reservations cancelled", cancelResponse{CourtID: id, Removed: removed})
}

func (h *Handler) Availability(c *gin.Context) {
	id, ok := courtParam(c)
	if !ok {
		return
	}
	date, err := types.ParseDate(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	respondOK(c, http.StatusOK, "availability", availabilityResponse{
		CourtID:   id,
		Date:      date,
		Available: h.booking.CheckAvailability(id, date),
	})
}

func (h *Handler) Lighting(c *gin.Context) {
	id, ok := courtParam(c)
	if !ok {
		return
	}
	on, err := h.booking.Lighting(id)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "lighting", lightingResponse{CourtID: id, On: on})
}

func (h *Handler) AllLights(c *gin.Context) {
	lights := h.booking.Lights()
	out := make([]lightingResponse, len(lights))
	for id, on := range lights {
		out[id] = lightingResponse{CourtID: id, On: on}
	}
	respondOK(c, http.StatusOK, "lighting", out)
}

func (h *Handler) LightsOn(c *gin.Context) {
	h.switchLights(c, true)
}

func (h *Handler) LightsOff(c *gin.Context) {
	h.switchLights(c, false)
}

func (h *Handler) switchLights(c *gin.Context, on bool) {
	id, ok := courtParam(c)
	if !ok {
		return
	}
	var err error
	if on {
		err = h.booking.EnableLighting(id)
	} else {
		err = h.booking.DisableLighting(id)
	}
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "lighting updated", lightingResponse{CourtID: id, On: on})
}

func (h *Handler) Journal(c *gin.Context) {
	if h.journal == nil {
		respondError(c, http.StatusServiceUnavailable, "journal is not configured", nil)
		return
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultJournalLimit)), 10, 64)
	if err != nil || limit <= 0 {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	events, err := h.journal.Recent(ctx, limit)
	if err != nil {
		requestLogger(c, h.log).WithError(err).ErrorContext(ctx, "journal read failed")
		respondError(c, http.StatusServiceUnavailable, "journal unavailable", nil)
		return
	}
	respondOK(c, http.StatusOK, "journal", events)
}

func (h *Handler) Health(c *gin.Context) {
	respondOK(c, http.StatusOK, "ok", gin.H{"courts": h.booking.MaxCourts()})
}

package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"court-booking/logger"
	"court-booking/reservation"
	"court-booking/types"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the handlers need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Booking is the set of operations reachable from chat commands.
type Booking interface {
	Reserve(courtID int, date types.Date, duration int) error
	Cancel(courtID int) (int, error)
	CheckAvailability(courtID int, date types.Date) bool
	EnableLighting(courtID int) error
	DisableLighting(courtID int) error
	Reservations() []types.Reservation
	MaxCourts() int
}

type Handler struct {
	Bot     Sender
	Booking Booking
	log     *logger.Logger
}

func New(bot Sender, booking Booking, log *logger.Logger) *Handler {
	return &Handler{
		Bot:     bot,
		Booking: booking,
		log:     log.WithComponent("telegram"),
	}
}

// HandleMessage routes a chat command to its handler.
func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}

	switch msg.Command() {
	case "start", "help":
		h.HandleStart(msg)
	case "reserve":
		h.HandleReserve(msg)
	case "cancel":
		h.HandleCancel(msg)
	case "check":
		h.HandleCheck(msg)
	case "lights_on":
		h.HandleLights(msg, true)
	case "lights_off":
		h.HandleLights(msg, false)
	case "list":
		h.HandleList(msg)
	default:
		h.reply(msg.Chat.ID, "Unknown command. Try /start")
	}
}

func (h *Handler) HandleStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf("👋 Hi! I book courts 0-%d.\n\n"+
		"Commands:\n"+
		"/reserve <court> <YYYY-MM-DD> <minutes> - book a court for a day\n"+
		"/cancel <court> - cancel every reservation of a court\n"+
		"/check <court> <YYYY-MM-DD> - is the court free that day?\n"+
		"/lights_on <court>, /lights_off <court> - switch the floodlights\n"+
		"/list - show all reservations",
		h.Booking.MaxCourts()-1)
	h.reply(msg.Chat.ID, text)
}

func (h *Handler) HandleReserve(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 3 {
		h.reply(msg.Chat.ID, "Usage: /reserve <court> <YYYY-MM-DD> <minutes>")
		return
	}

	courtID, err := parseCourt(args[0])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	date, err := types.ParseDate(args[1])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	minutes, err := strconv.Atoi(args[2])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ duration must be a number of minutes")
		return
	}

	if err := h.Booking.Reserve(courtID, date, minutes); err != nil {
		h.reply(msg.Chat.ID, describeError(err))
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("✅ Court %d booked for %s (%d min).", courtID, date, minutes))
}

func (h *Handler) HandleCancel(msg *tgbotapi.Message) {
	courtID, ok := h.singleCourtArg(msg, "/cancel <court>")
	if !ok {
		return
	}

	removed, err := h.Booking.Cancel(courtID)
	if err != nil {
		h.reply(msg.Chat.ID, describeError(err))
		return
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("✅ Cancelled %d reservation(s) on court %d.", removed, courtID))
}

func (h *Handler) HandleCheck(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.reply(msg.Chat.ID, "Usage: /check <court> <YYYY-MM-DD>")
		return
	}
	courtID, err := parseCourt(args[0])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}
	date, err := types.ParseDate(args[1])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ "+err.Error())
		return
	}

	if h.Booking.CheckAvailability(courtID, date) {
		h.reply(msg.Chat.ID, fmt.Sprintf("🟢 Court %d is free on %s.", courtID, date))
	} else {
		h.reply(msg.Chat.ID, fmt.Sprintf("🔴 Court %d is not available on %s.", courtID, date))
	}
}

func (h *Handler) HandleLights(msg *tgbotapi.Message, on bool) {
	usage := "/lights_off <court>"
	if on {
		usage = "/lights_on <court>"
	}
	courtID, ok := h.singleCourtArg(msg, usage)
	if !ok {
		return
	}

	var err error
	if on {
		err = h.Booking.EnableLighting(courtID)
	} else {
		err = h.Booking.DisableLighting(courtID)
	}
	if err != nil {
		h.reply(msg.Chat.ID, describeError(err))
		return
	}

	state := "off"
	if on {
		state = "on"
	}
	h.reply(msg.Chat.ID, fmt.Sprintf("💡 Lights %s on court %d.", state, courtID))
}

func (h *Handler) HandleList(msg *tgbotapi.Message) {
	list := h.Booking.Reservations()
	if len(list) == 0 {
		h.reply(msg.Chat.ID, "No reservations yet.\n\nUse /reserve to book a court.")
		return
	}

	var b strings.Builder
	b.WriteString("📋 Reservations:\n\n")
	for _, r := range list {
		b.WriteString(fmt.Sprintf("Court %d - %s (%d min)\n", r.CourtID, r.Date, r.Duration))
	}
	h.reply(msg.Chat.ID, b.String())
}

func (h *Handler) singleCourtArg(msg *tgbotapi.Message, usage string) (int, bool) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		h.reply(msg.Chat.ID, "Usage: "+usage)
		return 0, false
	}
	courtID, err := parseCourt(args[0])
	if err != nil {
		h.reply(msg.Chat.ID, "⚠️ "+err.Error())
		return 0, false
	}
	return courtID, true
}

func parseCourt(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("court must be a number, got %q", s)
	}
	return id, nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, reservation.ErrInvalidCourt):
		return "⚠️ No such court."
	case errors.Is(err, reservation.ErrInvalidDuration):
		return "⚠️ Duration must be a positive number of minutes."
	case errors.Is(err, reservation.ErrConflict):
		return "❌ That court is already booked on that date."
	case errors.Is(err, reservation.ErrNotFound):
		return "ℹ️ That court has no reservations."
	default:
		return "⚠️ Something went wrong, try again later."
	}
}

func (h *Handler) reply(chatID int64, text string) {
	if _, err := h.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.log.WithError(err).Warn("telegram send failed", "chat_id", chatID)
	}
}

package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"court-booking/lighting"
	"court-booking/logger"
	"court-booking/types"

	"github.com/google/uuid"
)

// DefaultMaxCourts is the number of courts a club has unless configured otherwise.
const DefaultMaxCourts = 10

var (
	ErrInvalidCourt    = errors.New("invalid court")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrConflict        = errors.New("court already booked for that date")
	ErrNotFound        = errors.New("no reservation found")
)

// IsInvalidInput reports whether err was caused by bad caller input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidCourt) || errors.Is(err, ErrInvalidDuration)
}

// Journal receives every successful mutation. Implementations must be safe
// for concurrent use.
type Journal interface {
	Record(ctx context.Context, e types.Event) error
}

// Clock supplies the time stamped on journal events.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for accepted and rejected operations.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithJournal sends every successful mutation to j.
func WithJournal(j Journal) Option {
	return func(m *Manager) { m.journal = j }
}

// WithClock replaces the wall clock used for event timestamps.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithJournalTimeout bounds each journal write.
func WithJournalTimeout(d time.Duration) Option {
	return func(m *Manager) { m.journalTimeout = d }
}

// Manager owns the active reservations of a club and its court lighting.
// All methods are safe for concurrent use; each one runs under a single lock.
type Manager struct {
	mu    sync.Mutex
	items []types.Reservation
	seq   uint64

	// journalMu guards written. Events reach the journal in seq order.
	journalMu   sync.Mutex
	journalTurn *sync.Cond
	written     uint64

	maxCourts      int
	lights         *lighting.Registry
	log            *logger.Logger
	journal        Journal
	clock          Clock
	journalTimeout time.Duration
}

// NewManager returns a Manager for courts 0..maxCourts-1 with no reservations
// and all lights off.
func NewManager(maxCourts int, opts ...Option) *Manager {
	if maxCourts < 0 {
		maxCourts = 0
	}
	m := &Manager{
		maxCourts:      maxCourts,
		lights:         lighting.New(maxCourts),
		log:            logger.Discard(),
		clock:          realClock{},
		journalTimeout: 2 * time.Second,
	}
	m.journalTurn = sync.NewCond(&m.journalMu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) MaxCourts() int {
	return m.maxCourts
}

func (m *Manager) validCourt(courtID int) bool {
	return courtID >= 0 && courtID < m.maxCourts
}

func (m *Manager) invalidCourt(courtID int) error {
	return fmt.Errorf("%w: %d (valid 0..%d)", ErrInvalidCourt, courtID, m.maxCourts-1)
}

// Reserve books courtID for the whole of date. Only one reservation may exist
// per (court, date); duration is stored but never compared.
func (m *Manager) Reserve(courtID int, date types.Date, duration int) error {
	ctx := context.Background()
	if !m.validCourt(courtID) {
		err := m.invalidCourt(courtID)
		m.log.LogRejected(ctx, string(types.OpReserve), courtID, err)
		return err
	}
	if duration <= 0 {
		err := fmt.Errorf("%w: %d minutes", ErrInvalidDuration, duration)
		m.log.LogRejected(ctx, string(types.OpReserve), courtID, err)
		return err
	}

	m.mu.Lock()
	if !m.availableLocked(courtID, date) {
		m.mu.Unlock()
		err := fmt.Errorf("%w: court %d on %s", ErrConflict, courtID, date)
		m.log.LogRejected(ctx, string(types.OpReserve), courtID, err)
		return err
	}
	m.items = append(m.items, types.Reservation{CourtID: courtID, Date: date, Duration: duration})
	d := date
	e := m.stampLocked(types.Event{Op: types.OpReserve, CourtID: courtID, Date: &d, Duration: duration})
	m.mu.Unlock()

	m.log.LogReservationCreated(ctx, courtID, date.String(), duration)
	m.record(e)
	return nil
}

// Cancel removes every reservation held on courtID and returns how many were
// removed. ErrNotFound is returned when the court had none.
func (m *Manager) Cancel(courtID int) (int, error) {
	ctx := context.Background()
	if !m.validCourt(courtID) {
		err := m.invalidCourt(courtID)
		m.log.LogRejected(ctx, string(types.OpCancel), courtID, err)
		return 0, err
	}

	m.mu.Lock()
	kept := m.items[:0]
	removed := 0
	for _, r := range m.items {
		if r.CourtID == courtID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	clear(m.items[len(kept):])
	m.items = kept
	if removed == 0 {
		m.mu.Unlock()
		err := fmt.Errorf("%w: court %d", ErrNotFound, courtID)
		m.log.LogRejected(ctx, string(types.OpCancel), courtID, err)
		return 0, err
	}
	e := m.stampLocked(types.Event{Op: types.OpCancel, CourtID: courtID, Removed: removed})
	m.mu.Unlock()

	m.log.LogReservationsCancelled(ctx, courtID, removed)
	m.record(e)
	return removed, nil
}

func (m *Manager) availableLocked(courtID int, date types.Date) bool {
	for _, r := range m.items {
		if r.CourtID == courtID && r.Date == date {
			return false
		}
	}
	return true
}

// CheckAvailability reports whether courtID can still be booked on date.
// Unknown courts are never available.
func (m *Manager) CheckAvailability(courtID int, date types.Date) bool {
	if !m.validCourt(courtID) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableLocked(courtID, date)
}

func (m *Manager) EnableLighting(courtID int) error {
	return m.setLighting(courtID, true)
}

func (m *Manager) DisableLighting(courtID int) error {
	return m.setLighting(courtID, false)
}

func (m *Manager) setLighting(courtID int, on bool) error {
	ctx := context.Background()
	op := types.OpLightsOff
	if on {
		op = types.OpLightsOn
	}

	m.mu.Lock()
	var ok bool
	if on {
		ok = m.lights.Enable(courtID)
	} else {
		ok = m.lights.Disable(courtID)
	}
	if !ok {
		m.mu.Unlock()
		err := m.invalidCourt(courtID)
		m.log.LogRejected(ctx, string(op), courtID, err)
		return err
	}
	e := m.stampLocked(types.Event{Op: op, CourtID: courtID})
	m.mu.Unlock()

	m.log.LogLightingChanged(ctx, courtID, on)
	m.record(e)
	return nil
}

// Lighting returns the state of a court's lights.
func (m *Manager) Lighting(courtID int) (bool, error) {
	on, ok := m.lights.IsOn(courtID)
	if !ok {
		return false, m.invalidCourt(courtID)
	}
	return on, nil
}

// Lights returns the lighting state of every court indexed by court ID.
func (m *Manager) Lights() []bool {
	return m.lights.Snapshot()
}

// Reservations returns a copy of all reservations in insertion order.
func (m *Manager) Reservations() []types.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Reservation, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Manager) CourtReservations(courtID int) ([]types.Reservation, error) {
	if !m.validCourt(courtID) {
		return nil, m.invalidCourt(courtID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Reservation, 0)
	for _, r := range m.items {
		if r.CourtID == courtID {
			out = append(out, r)
		}
	}
	return out, nil
}

// stampLocked numbers e in the order its change was applied. m.mu must be held.
func (m *Manager) stampLocked(e types.Event) types.Event {
	if m.journal == nil {
		return e
	}
	m.seq++
	e.Seq = m.seq
	e.ID = uuid.NewString()
	e.At = m.clock.Now()
	return e
}

// record forwards e to the journal once every earlier event has been written.
// It runs outside of the state lock. Journal failures never fail the
// operation that produced the event.
func (m *Manager) record(e types.Event) {
	if m.journal == nil {
		return
	}

	m.journalMu.Lock()
	defer m.journalMu.Unlock()
	for m.written+1 != e.Seq {
		m.journalTurn.Wait()
	}
	defer m.journalTurn.Broadcast()
	m.written = e.Seq

	ctx, cancel := context.WithTimeout(context.Background(), m.journalTimeout)
	defer cancel()
	if err := m.journal.Record(ctx, e); err != nil {
		m.log.WithError(err).Warn("journal write failed", "op", string(e.Op), "court_id", e.CourtID, "seq", e.Seq)
	}
}

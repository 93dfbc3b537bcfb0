// Package services – order session state machine
//
// One session exists per (chat, user) pair while an order is being collected.
// The machine walks four states; every invalid input re-prompts in place
// without advancing, and starting a new order resets the session in place:
//
//	AwaitingServiceID -> AwaitingTarget -> AwaitingQuantity -> AwaitingConfirmation
//
// The SessionStore owns the sessions. Each session carries its own mutex,
// which the order service holds across the whole step handling, including
// the provider round-trip on confirmation. That lock is the per-user
// serialization guarantee: a user's inputs are always observed in arrival
// order, while different users proceed concurrently.
//
// Idle sessions are reaped opportunistically: every sweepEvery store
// acquisitions, sessions idle past TTL are dropped. The sweep uses TryLock,
// so a session in the middle of a confirmation is never touched.
package services

import (
	"sync"
	"time"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// Step names the session states. Values are stable and surface in API
// responses.
type Step string

const (
	StepServiceID    Step = "awaiting_service_id"
	StepTarget       Step = "awaiting_target"
	StepQuantity     Step = "awaiting_quantity"
	StepConfirmation Step = "awaiting_confirmation"
)

// ReplyKind classifies a state machine answer.
type ReplyKind string

const (
	// ReplyPrompt asks for the next field after a successful transition.
	ReplyPrompt ReplyKind = "prompt"
	// ReplyReprompt repeats the current question after invalid input.
	ReplyReprompt ReplyKind = "reprompt"
	// ReplyCancelled ends the session without ordering.
	ReplyCancelled ReplyKind = "cancelled"
	// ReplySubmitted ends the session with a provider-accepted order.
	ReplySubmitted ReplyKind = "submitted"
	// ReplyFailed ends the session without a successful order.
	ReplyFailed ReplyKind = "failed"
)

// Stable machine codes carried on reprompts and failures.
const (
	CodeBadServiceID     = "bad_service_id"
	CodeUnknownService   = "unknown_service"
	CodeTargetTooShort   = "target_too_short"
	CodeBadQuantity      = "bad_quantity"
	CodeQuantityRange    = "quantity_out_of_range"
	CodeConfirmRequired  = "confirm_reply_required"
	CodeZeroPrice        = "zero_price"
	CodeInsufficient     = "insufficient_funds"
	CodeCancelled        = "cancelled"
	CodeProviderRejected = "provider_rejected"
	CodeProviderDown     = "provider_unreachable"
	CodeProviderProtocol = "provider_protocol_error"
	CodeProviderNoID     = "provider_ambiguous"
)

// Reply is the structured answer the engine hands back to the chat layer.
// The chat layer renders its own copy; Prompt is a minimal English fallback.
type Reply struct {
	Kind   ReplyKind
	Step   Step   // state the session is in after this input; empty when terminal
	Code   string // machine code for reprompts and failures
	Prompt string

	// Quote fields, populated from AwaitingQuantity onward.
	Service  *domain.Service
	Target   string
	Quantity int64
	Price    int64

	// Terminal outcome, populated on submitted/failed.
	Order *domain.Order
}

// sessionKey identifies one conversation.
type sessionKey struct {
	ChatID int64
	UserID int64
}

// session is the mutable state of one in-flight order collection. All fields
// are guarded by mu.
type session struct {
	mu sync.Mutex

	step      Step
	serviceID string
	svc       *domain.Service
	target    string
	quantity  int64
	price     int64

	lastTouched time.Time
}

// reset puts the session back at the first step, discarding collected input.
// Callers must hold mu.
func (s *session) reset(now time.Time) {
	s.step = StepServiceID
	s.serviceID = ""
	s.svc = nil
	s.target = ""
	s.quantity = 0
	s.price = 0
	s.lastTouched = now
}

// sweepEvery paces the opportunistic idle sweep: one scan per this many
// store acquisitions.
const sweepEvery = 64

// DefaultSessionTTL bounds session idleness when SessionStore.TTL is zero.
const DefaultSessionTTL = 30 * time.Minute

// SessionStore owns all active sessions. The zero value is ready to use.
type SessionStore struct {
	TTL time.Duration // idle timeout; DefaultSessionTTL when zero

	mu           sync.Mutex
	sessions     map[sessionKey]*session
	acquisitions int

	now func() time.Time // test seam; time.Now when nil
}

func (st *SessionStore) clock() time.Time {
	if st.now != nil {
		return st.now()
	}
	return time.Now()
}

func (st *SessionStore) ttl() time.Duration {
	if st.TTL > 0 {
		return st.TTL
	}
	return DefaultSessionTTL
}

// acquire returns the session for key, creating it when absent. The caller
// locks the returned session itself; holding st.mu across step handling
// would serialize unrelated users.
func (st *SessionStore) acquire(key sessionKey) *session {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.maybeSweep()
	if st.sessions == nil {
		st.sessions = make(map[sessionKey]*session)
	}
	s, ok := st.sessions[key]
	if !ok {
		s = &session{}
		st.sessions[key] = s
	}
	return s
}

// lookup returns the session for key without creating one.
func (st *SessionStore) lookup(key sessionKey) (*session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.maybeSweep()
	s, ok := st.sessions[key]
	return s, ok
}

// discard drops the session for key, if any.
func (st *SessionStore) discard(key sessionKey) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, key)
}

// size reports the number of live sessions.
func (st *SessionStore) size() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// maybeSweep reaps idle sessions every sweepEvery acquisitions. Callers must
// hold st.mu. Sessions whose lock is currently held are skipped; no new
// reference can appear while st.mu is held, so a successful TryLock means
// the session is quiescent.
func (st *SessionStore) maybeSweep() {
	st.acquisitions++
	if st.acquisitions%sweepEvery != 0 {
		return
	}
	now := st.clock()
	ttl := st.ttl()
	for key, s := range st.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := now.Sub(s.lastTouched) >= ttl
		s.mu.Unlock()
		if idle {
			delete(st.sessions, key)
		}
	}
}

package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"showup/internal/delivery/http/helpers"
	"showup/internal/delivery/http/middleware"
	"showup/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	RegistrationStart time.Time `json:"registration_start_time"`
	RegistrationEnd   time.Time `json:"registration_end_time"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	StakeAmount       int64     `json:"stake_amount"`
	Capacity          int       `json:"capacity"`
	MustRequestToJoin bool      `json:"must_request_to_join"`
}

// Validate implements Validator. Window ordering is checked by the domain;
// only required fields and basic bounds are validated here.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.StakeAmount <= 0 {
		errs = append(errs, "stake_amount must be positive")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must be non-negative")
	}
	if c.RegistrationStart.IsZero() || c.RegistrationEnd.IsZero() || c.StartTime.IsZero() || c.EndTime.IsZero() {
		errs = append(errs, "registration_start_time, registration_end_time, start_time and end_time are required")
	}
	return errs
}

// PaymentRequest is the request body for join and join-request operations.
// Payment must equal the event's stake amount exactly.
type PaymentRequest struct {
	Payment int64 `json:"payment"`
}

// Validate implements Validator.
func (p PaymentRequest) Validate() []string {
	if p.Payment <= 0 {
		return []string{"payment must be positive"}
	}
	return nil
}

// AddressesRequest is the request body for accept, reject, and attendance
// operations that act on a batch of addresses.
type AddressesRequest struct {
	Addresses []string `json:"addresses"`
}

// Validate implements Validator.
func (a AddressesRequest) Validate() []string {
	if len(a.Addresses) == 0 {
		return []string{"addresses is required"}
	}
	for _, addr := range a.Addresses {
		if strings.TrimSpace(addr) == "" {
			return []string{"addresses must not contain empty values"}
		}
	}
	return nil
}

// EventView is the serialized event snapshot: the aggregate plus the lifecycle
// state, the rounding residue, and the caller's relationship to the event, all
// derived at request time. Residue is the portion of the participant vault not
// covered by any remaining entitlement; operators watch it to verify no funds
// are silently lost.
type EventView struct {
	*domain.Event
	State   domain.EventState `json:"state"`
	Residue int64             `json:"residue"`

	IsOrganizer   bool `json:"is_organizer"`
	IsParticipant bool `json:"is_participant"`
	IsPending     bool `json:"is_pending"`
	IsAttendee    bool `json:"is_attendee"`
	HasClaimed    bool `json:"has_claimed"`
}

// EventSuccessResponse is the success envelope for operations returning the event.
type EventSuccessResponse struct {
	Data  *EventView        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PayoutResponse is the data payload for claim, refund, and pending-claim.
type PayoutResponse struct {
	Event  *EventView `json:"event"`
	Amount int64      `json:"amount"`
}

// PayoutSuccessResponse is the success envelope for claim, refund, and pending-claim.
type PayoutSuccessResponse struct {
	Data  PayoutResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload for GET /events.
type ListEventsResponse struct {
	Items      []*EventView           `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventListSuccessResponse is the success envelope for unpaginated event lists.
type EventListSuccessResponse struct {
	Data  []*EventView      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ActivitySuccessResponse is the success envelope for GET /events/{eventID}/activity.
type ActivitySuccessResponse struct {
	Data  []*domain.Posting `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Clock   domain.Clock
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Clock:   domain.NewSystemClock(),
	}
}

// view derives the response snapshot for one event. The caller's address comes
// from the auth context when present; unauthenticated reads get all role flags
// false.
func (c *EventController) view(r *http.Request, e *domain.Event) *EventView {
	now := c.Clock.Now()
	caller, _ := middleware.UserIDFromContext(r.Context())
	return &EventView{
		Event:         e,
		State:         e.State(now),
		Residue:       e.Residue(now),
		IsOrganizer:   caller != "" && caller == e.Organizer,
		IsParticipant: e.IsParticipant(caller),
		IsPending:     e.IsPending(caller),
		IsAttendee:    e.IsAttendee(caller),
		HasClaimed:    e.HasClaimed(caller),
	}
}

func (c *EventController) views(r *http.Request, events []*domain.Event) []*EventView {
	out := make([]*EventView, 0, len(events))
	for _, e := range events {
		out = append(out, c.view(r, e))
	}
	return out
}

// respondError maps domain sentinels to HTTP statuses. Authorization failures
// are 403, missing events 404, lifecycle and capacity violations 409, and a
// payment not matching the stake 422. Anything unmapped is a 500 and logged.
func (c *EventController) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrNotOrganizer), errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrWrongStakeAmount):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeUnprocessable, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrRegistrationNotOpen),
		errors.Is(err, domain.ErrRegistrationClosed),
		errors.Is(err, domain.ErrRegistrationStillOpen),
		errors.Is(err, domain.ErrEventAlreadyStarted),
		errors.Is(err, domain.ErrEventNotEnded),
		errors.Is(err, domain.ErrEventAlreadyEnded),
		errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrAlreadyClaimed),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrDidNotAttend),
		errors.Is(err, domain.ErrEventNotCancelled),
		errors.Is(err, domain.ErrEventCancelled),
		errors.Is(err, domain.ErrApprovalRequired),
		errors.Is(err, domain.ErrPublicEvent),
		errors.Is(err, domain.ErrOrganizerCannotJoin),
		errors.Is(err, domain.ErrNoAttendees),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrInsufficientFunds):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a stake-to-attend event. The authenticated user becomes the organizer. Registration must end before the event starts, and the stake amount must be positive.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), userID, domain.CreateEventInput{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		RegistrationStart: req.RegistrationStart,
		RegistrationEnd:   req.RegistrationEnd,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		StakeAmount:       req.StakeAmount,
		Capacity:          req.Capacity,
		MustRequestToJoin: req.MustRequestToJoin,
	})
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, c.view(r, event))
}

// GetEvent godoc
// @Summary Get an event by ID
// @Description Returns the event with its rosters, vault balances, and current lifecycle state.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.view(r, event))
}

// ListEvents godoc
// @Summary List events
// @Description Returns a paginated list of events, newest first. Use page and page_size query params.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: c.views(r, events), Pagination: meta})
}

// ListMyEvents godoc
// @Summary List events organized by the current user
// @Description Returns events where the authenticated user is the organizer.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/events [get]
func (c *EventController) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyEvents(r.Context(), userID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.views(r, events))
}

// ListMyParticipations godoc
// @Summary List events the current user takes part in
// @Description Returns events where the authenticated user is a participant, has a pending request, or has already claimed.
// @Tags me
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventListSuccessResponse "data is an array of events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/participations [get]
func (c *EventController) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListMyParticipations(r.Context(), userID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.views(r, events))
}

// ListActivity godoc
// @Summary List the activity ledger for an event
// @Description Returns the event's fund movements and roster changes in chronological order.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ActivitySuccessResponse "data is an array of ledger entries"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/activity [get]
func (c *EventController) ListActivity(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	postings, err := c.Service.ListActivity(r.Context(), eventID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	if postings == nil {
		postings = []*domain.Posting{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, postings)
}

// Join godoc
// @Summary Join a public event
// @Description Join during the registration window by staking the exact stake amount. The stake moves into the participant vault. Private events reject direct joins; use the request flow instead.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body PaymentRequest true "Stake payment"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (window closed, full, already joined, or approval required)"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable (payment does not match stake)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/join [post]
func (c *EventController) Join(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req PaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.JoinEvent(r.Context(), eventID, userID, req.Payment)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.view(r, event))
}

// RequestToJoin godoc
// @Summary Request to join a private event
// @Description Stake the exact stake amount to request a spot. The stake is held in the pending vault until the organizer accepts or rejects.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body PaymentRequest true "Stake payment"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (window closed, already joined, or event is public)"
// @Failure 422 {object} helpers.APIResponse "error.code: unprocessable (payment does not match stake)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/requests [post]
func (c *EventController) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req PaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.RequestToJoin(r.Context(), eventID, userID, req.Payment)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.view(r, event))
}

// AcceptRequests godoc
// @Summary Accept pending join requests
// @Description Organizer accepts a batch of pending requests. Accepted stakes move from the pending vault to the participant vault. Addresses without a pending request or beyond capacity are skipped.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AddressesRequest true "Addresses to accept"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/requests/accept [post]
func (c *EventController) AcceptRequests(w http.ResponseWriter, r *http.Request) {
	c.decideRequests(w, r, c.Service.AcceptRequests)
}

// RejectRequests godoc
// @Summary Reject pending join requests
// @Description Organizer rejects a batch of pending requests. Rejected stakes stay in the pending vault until the requester claims them back.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AddressesRequest true "Addresses to reject"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/requests/reject [post]
func (c *EventController) RejectRequests(w http.ResponseWriter, r *http.Request) {
	c.decideRequests(w, r, c.Service.RejectRequests)
}

func (c *EventController) decideRequests(w http.ResponseWriter, r *http.Request, decide func(ctx context.Context, eventID, caller string, addresses []string) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req AddressesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := decide(r.Context(), eventID, userID, req.Addresses)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.view(r, event))
}

// Withdraw godoc
// @Summary Withdraw from an event
// @Description Leave the event while registration is still open and get the full stake back immediately.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (registration closed or not a participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/withdraw [post]
func (c *EventController) Withdraw(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.WithdrawFromEvent)
}

// ClaimPendingStake godoc
// @Summary Claim back a pending stake
// @Description A requester whose stake is still in the pending vault takes it back. Available once registration closes, or at any time after the event is cancelled.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PayoutSuccessResponse "data contains the event and the returned amount"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (registration still open or nothing pending)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/pending-claim [post]
func (c *EventController) ClaimPendingStake(w http.ResponseWriter, r *http.Request) {
	c.payoutAction(w, r, c.Service.ClaimPendingStake)
}

// MarkAttended godoc
// @Summary Check in attendees
// @Description Organizer records a batch of participants as attended while the event is ongoing. Checking in the same address twice is a no-op.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body AddressesRequest true "Addresses to check in"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not ongoing or address not a participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/attendance [post]
func (c *EventController) MarkAttended(w http.ResponseWriter, r *http.Request) {
	c.decideRequests(w, r, c.Service.MarkAttended)
}

// Claim godoc
// @Summary Claim the attendance payout
// @Description After the event ends, an attendee claims their stake plus an equal share of the forfeited stakes of no-shows.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PayoutSuccessResponse "data contains the event and the payout amount"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not ended, did not attend, or already claimed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/claim [post]
func (c *EventController) Claim(w http.ResponseWriter, r *http.Request) {
	c.payoutAction(w, r, c.Service.Claim)
}

// Refund godoc
// @Summary Refund a stake from a cancelled event
// @Description A participant of a cancelled event takes their full stake back.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PayoutSuccessResponse "data contains the event and the refunded amount"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event not cancelled or not a participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/refund [post]
func (c *EventController) Refund(w http.ResponseWriter, r *http.Request) {
	c.payoutAction(w, r, c.Service.Refund)
}

// Cancel godoc
// @Summary Cancel an event
// @Description Organizer cancels the event, unlocking refunds for participants and pending claims for requesters. After the event has ended, cancellation is only possible when nobody attended.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already cancelled or attendees checked in)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/cancel [post]
func (c *EventController) Cancel(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.CancelEvent)
}

func (c *EventController) eventAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, eventID, caller string) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := action(r.Context(), eventID, userID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.view(r, event))
}

func (c *EventController) payoutAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, eventID, caller string) (*domain.Event, int64, error)) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, amount, err := action(r.Context(), eventID, userID)
	if err != nil {
		c.respondError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PayoutResponse{Event: c.view(r, event), Amount: amount})
}

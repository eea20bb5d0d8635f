package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"showup/internal/domain"
)

type eventService struct {
	store          domain.EventStore
	postingRepo    domain.PostingRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewEventService creates an EventService on top of the atomic event store.
// userRepo and emailService feed the best-effort notification mails; either
// may be nil to disable them.
func NewEventService(store domain.EventStore,
	postingRepo domain.PostingRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	clock domain.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		store:          store,
		postingRepo:    postingRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, organizer string, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := domain.NewEvent(organizer, in.Name, in.Description, in.Location,
		in.RegistrationStart, in.RegistrationEnd, in.StartTime, in.EndTime,
		in.StakeAmount, in.Capacity, in.MustRequestToJoin)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.store.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.store.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, organizer string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.store.ListByOrganizer(ctx, organizer)
	if err != nil {
		return nil, fmt.Errorf("list events by organizer: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListMyParticipations(ctx context.Context, addr string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.store.ListByAddress(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("list events by address: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListActivity(ctx context.Context, eventID string) ([]*domain.Posting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.store.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	postings, err := s.postingRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	if postings == nil {
		postings = []*domain.Posting{}
	}
	return postings, nil
}

// apply runs fn through the store, retrying once on a concurrency conflict.
// Callers race for capacity slots and claim order; a single retry resolves
// the common case without holding anything across user interaction.
func (s *eventService) apply(ctx context.Context, eventID string, fn domain.ApplyFunc) (*domain.Event, error) {
	event, err := s.store.Apply(ctx, eventID, fn)
	if errors.Is(err, domain.ErrConflict) {
		event, err = s.store.Apply(ctx, eventID, fn)
	}
	return event, err
}

func (s *eventService) JoinEvent(ctx context.Context, eventID, caller string, payment int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	return s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		return e.Join(caller, payment, now)
	})
}

func (s *eventService) RequestToJoin(ctx context.Context, eventID, caller string, payment int64) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	return s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		return e.RequestToJoin(caller, payment, now)
	})
}

func (s *eventService) AcceptRequests(ctx context.Context, eventID, caller string, addresses []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	var accepted []string
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		postings, err := e.AcceptRequests(caller, addresses, now)
		if err != nil {
			return nil, err
		}
		accepted = accepted[:0]
		for _, p := range postings {
			accepted = append(accepted, p.Address)
		}
		return postings, nil
	})
	if err != nil {
		return nil, err
	}
	for _, addr := range accepted {
		s.notifyDecision(ctx, event, addr, true)
	}
	return event, nil
}

func (s *eventService) RejectRequests(ctx context.Context, eventID, caller string, addresses []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var rejected []string
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		postings, err := e.RejectRequests(caller, addresses)
		if err != nil {
			return nil, err
		}
		rejected = rejected[:0]
		for _, p := range postings {
			rejected = append(rejected, p.Address)
		}
		return postings, nil
	})
	if err != nil {
		return nil, err
	}
	for _, addr := range rejected {
		s.notifyDecision(ctx, event, addr, false)
	}
	return event, nil
}

func (s *eventService) WithdrawFromEvent(ctx context.Context, eventID, caller string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	return s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		return e.Withdraw(caller, now)
	})
}

func (s *eventService) ClaimPendingStake(ctx context.Context, eventID, caller string) (*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	var amount int64
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		postings, err := e.ClaimPendingStake(caller, now)
		if err != nil {
			return nil, err
		}
		amount = postings[0].Amount
		return postings, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return event, amount, nil
}

func (s *eventService) MarkAttended(ctx context.Context, eventID, caller string, addresses []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	return s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		return e.MarkAttended(caller, addresses, now)
	})
}

func (s *eventService) Claim(ctx context.Context, eventID, caller string) (*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	var payout int64
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		p, postings, err := e.Claim(caller, now)
		if err != nil {
			return nil, err
		}
		payout = p
		return postings, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return event, payout, nil
}

func (s *eventService) Refund(ctx context.Context, eventID, caller string) (*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var amount int64
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		a, postings, err := e.Refund(caller)
		if err != nil {
			return nil, err
		}
		amount = a
		return postings, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return event, amount, nil
}

func (s *eventService) CancelEvent(ctx context.Context, eventID, caller string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	event, err := s.apply(ctx, eventID, func(e *domain.Event) ([]domain.Posting, error) {
		return e.Cancel(caller, now)
	})
	if err != nil {
		return nil, err
	}
	for _, addr := range event.Participants {
		s.notifyCancelled(ctx, event, addr)
	}
	return event, nil
}

// notifyDecision mails a pending requester about the organizer's decision.
// Failures are logged and swallowed: funds already moved, mail is advisory.
func (s *eventService) notifyDecision(ctx context.Context, event *domain.Event, addr string, accepted bool) {
	if s.userRepo == nil || s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, addr)
	if err != nil || user == nil {
		return
	}
	data := &domain.RequestDecisionEmailData{
		Email:       user.Email,
		Name:        user.Name,
		EventName:   event.Name,
		StakeAmount: event.StakeAmount,
	}
	if accepted {
		err = s.emailService.SendRequestAccepted(ctx, data)
	} else {
		err = s.emailService.SendRequestRejected(ctx, data)
	}
	if err != nil {
		log.Printf("[EVENT] decision mail to %s failed: %v", user.Email, err)
	}
}

func (s *eventService) notifyCancelled(ctx context.Context, event *domain.Event, addr string) {
	if s.userRepo == nil || s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, addr)
	if err != nil || user == nil {
		return
	}
	data := &domain.EventCancelledEmailData{
		Email:       user.Email,
		Name:        user.Name,
		EventName:   event.Name,
		StakeAmount: event.StakeAmount,
	}
	if err := s.emailService.SendEventCancelled(ctx, data); err != nil {
		log.Printf("[EVENT] cancellation mail to %s failed: %v", user.Email, err)
	}
}

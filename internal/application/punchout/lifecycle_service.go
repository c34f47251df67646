package punchout

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"

	"github.com/crowdfox/oci-srm-server-mock/internal/domain/punchout"
	"github.com/crowdfox/oci-srm-server-mock/internal/domain/shared"
)

// ErrConfirmationInFlight is returned when a confirmation is requested for
// a process whose previous confirmation has not finished yet.
var ErrConfirmationInFlight = shared.NewDomainError(
	shared.ErrConcurrencyConflict.Code,
	"A confirmation for this process is already in progress",
)

// LifecycleService coordinates the punch-out process lifecycle:
// start -> call-up -> confirm. It owns no state beyond the per-process
// in-flight confirmation guard; everything durable lives in the registry.
type LifecycleService struct {
	registry     punchout.ProcessRegistry
	dispatcher   punchout.ConfirmationDispatcher
	loginURI     *url.URL
	callbackBase *url.URL
	logger       *zap.Logger

	// confirming tracks process ids with a confirmation in flight. The
	// registry lock is NOT held across the outbound confirmation call;
	// this guard is what keeps two confirmations for the same process
	// from racing each other instead.
	confirming sync.Map
}

// LifecycleServiceConfig holds the collaborators of a LifecycleService.
type LifecycleServiceConfig struct {
	Registry     punchout.ProcessRegistry
	Dispatcher   punchout.ConfirmationDispatcher
	LoginURI     *url.URL
	CallbackBase *url.URL
	Logger       *zap.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(cfg LifecycleServiceConfig) *LifecycleService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LifecycleService{
		registry:     cfg.Registry,
		dispatcher:   cfg.Dispatcher,
		loginURI:     cfg.LoginURI,
		callbackBase: cfg.CallbackBase,
		logger:       logger,
	}
}

// Start registers a new punch-out process and returns its id together with
// the assembled catalog login redirect URI.
func (s *LifecycleService) Start(goToProduct *uint64) (string, string) {
	process := s.registry.Create()
	redirect := punchout.BuildLoginRedirect(s.loginURI, s.callbackBase, process.ID, goToProduct)

	s.logger.Info("Punch-out process started",
		zap.String("process_id", process.ID),
		zap.Bool("deep_link", goToProduct != nil))

	return process.ID, redirect
}

// CallUp attaches the basket payload the catalog posted back to the given
// process. The payload replaces any previously recorded one wholesale. An
// unknown id yields a NOT_FOUND error and leaves the registry untouched.
func (s *LifecycleService) CallUp(id string, payload map[string]any) error {
	err := s.registry.Update(id, func(p *punchout.Process) {
		p.CallUpPayload = payload
	})
	if err != nil {
		return err
	}

	s.logger.Info("Call-up recorded",
		zap.String("process_id", id),
		zap.Int("field_count", len(payload)))
	return nil
}

// Confirm synthesizes the order document for a called-up process, sends it
// to the confirmation endpoint and records the reply. The request document
// is stored before dispatch, so a failed dispatch leaves the request
// visible and the response absent. On success the full registry snapshot
// is returned.
func (s *LifecycleService) Confirm(ctx context.Context, id, orderRequestToken string) (map[string]*punchout.Process, error) {
	if _, inFlight := s.confirming.LoadOrStore(id, struct{}{}); inFlight {
		return nil, ErrConfirmationInFlight
	}
	defer s.confirming.Delete(id)

	process, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	fields, err := punchout.ExtractCallUpFields(process.CallUpPayload)
	if err != nil {
		s.logger.Warn("Call-up data rejected",
			zap.String("process_id", id),
			zap.Error(err))
		return nil, err
	}

	document := punchout.SynthesizeOrderDocument(fields, id, orderRequestToken)

	if err := s.registry.Update(id, func(p *punchout.Process) {
		p.OrderRequestDocument = document
	}); err != nil {
		return nil, err
	}

	response, err := s.dispatcher.Dispatch(ctx, document)
	if err != nil {
		// The request document stays recorded; only the response is
		// missing for this attempt.
		return nil, shared.NewDomainErrorf(punchout.ErrCodeUpstreamFailure,
			"Confirmation endpoint unreachable: %v", err)
	}

	if err := s.registry.Update(id, func(p *punchout.Process) {
		p.OrderResponseDocument = response
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Punch-out process confirmed",
		zap.String("process_id", id),
		zap.String("order_amount", fields.TotalAmount.String()))

	return s.registry.Snapshot(), nil
}

// ActiveProcesses returns a snapshot of every registered process.
func (s *LifecycleService) ActiveProcesses() map[string]*punchout.Process {
	return s.registry.Snapshot()
}

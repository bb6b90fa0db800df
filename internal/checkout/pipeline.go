// Package checkout decides whether the visitor may enter checkout. Checks
// run in a fixed order (identity, credential freshness, cart, profile) and
// the first refusal wins. Redirect building and HTTP concerns live in
// redirect.go and guard.go so the checks stay free of routing.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/platform/metrics"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/requestcontext"
)

const tracerName = "storefront/internal/checkout"

// Step names, used for spans and latency metrics.
const (
	StepIdentity  = "identity"
	StepFreshness = "freshness"
	StepCart      = "cart"
	StepProfile   = "profile"
)

type Pipeline struct {
	sessions SessionReader
	tokens   TokenEnsurer
	cart     CartCounter
	profiles ProfileFetcher

	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	checks  []check
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = t
	}
}

func New(sessions SessionReader, tokens TokenEnsurer, cart CartCounter, profiles ProfileFetcher, opts ...Option) (*Pipeline, error) {
	if sessions == nil {
		return nil, errors.New("session reader is required")
	}
	if tokens == nil {
		return nil, errors.New("token ensurer is required")
	}
	if cart == nil {
		return nil, errors.New("cart counter is required")
	}
	if profiles == nil {
		return nil, errors.New("profile fetcher is required")
	}

	p := &Pipeline{
		sessions: sessions,
		tokens:   tokens,
		cart:     cart,
		profiles: profiles,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.checks = []check{
		{name: StepIdentity, run: p.identity},
		{name: StepFreshness, run: p.freshness},
		{name: StepCart, run: p.cartOccupancy},
		{name: StepProfile, run: p.profileCompleteness},
	}
	return p, nil
}

// Authorize runs every check in order and stops at the first refusal.
// returnPath is where the visitor was heading. Any unexpected error or
// panic fails closed with ReasonInternalError. Every check judges expiry
// against the same request time.
func (p *Pipeline) Authorize(ctx context.Context, returnPath string) Result {
	ctx = requestcontext.WithTime(ctx, requestcontext.Now(ctx))
	ctx, span := p.tracer.Start(ctx, "checkout.authorize")
	defer span.End()

	ev := &evaluation{}
	for _, c := range p.checks {
		failure, err := p.runCheck(ctx, c, ev)
		if err != nil {
			p.logger.ErrorContext(ctx, "checkout check failed unexpectedly",
				"step", c.name,
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return p.decide(ctx, span, internalResult())
		}
		if failure != nil {
			p.logger.InfoContext(ctx, "checkout refused",
				"step", c.name,
				"reason", failure.Reason,
			)
			return p.decide(ctx, span, refusal(*failure, returnPath))
		}
	}

	return p.decide(ctx, span, Result{
		Allowed:    true,
		Credential: ev.credential,
		SubjectID:  ev.session.User.SubjectID,
	})
}

func (p *Pipeline) runCheck(ctx context.Context, c check, ev *evaluation) (failure *Failure, err error) {
	ctx, span := p.tracer.Start(ctx, "checkout."+c.name,
		trace.WithAttributes(attribute.String("checkout.step", c.name)))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			failure = nil
			err = dErrors.New(dErrors.CodeInternal, fmt.Sprintf("panic in %s check: %v", c.name, r))
		}
		if p.metrics != nil {
			p.metrics.ObserveCheckoutStep(c.name, time.Since(start))
		}
		if failure != nil {
			span.SetAttributes(attribute.String("checkout.reason", string(failure.Reason)))
		}
		span.End()
	}()

	return c.run(ctx, ev)
}

func (p *Pipeline) decide(ctx context.Context, span trace.Span, res Result) Result {
	outcome := "allowed"
	if !res.Allowed {
		outcome = string(res.Reason)
	}
	span.SetAttributes(attribute.String("checkout.outcome", outcome))
	if p.metrics != nil {
		p.metrics.IncrementCheckoutDecision(outcome)
	}
	return res
}

func (p *Pipeline) identity(_ context.Context, ev *evaluation) (*Failure, error) {
	ev.session = p.sessions.Session()
	return checkIdentity(ev.session), nil
}

func (p *Pipeline) freshness(ctx context.Context, ev *evaluation) (*Failure, error) {
	cred, err := p.tokens.EnsureFresh(ctx)
	failure, err := checkFreshness(cred, err)
	if failure != nil {
		p.sessions.Invalidate(ctx, "checkout found no usable credential")
		return failure, nil
	}
	if err != nil {
		return nil, err
	}
	ev.credential = cred
	return nil, nil
}

func (p *Pipeline) cartOccupancy(_ context.Context, _ *evaluation) (*Failure, error) {
	return checkCart(p.cart.Count()), nil
}

func (p *Pipeline) profileCompleteness(ctx context.Context, ev *evaluation) (*Failure, error) {
	user := ev.session.User
	subjectID := user.SubjectID
	if subjectID == "" {
		subjectID = ev.credential.Subject
	}
	prof, err := p.profiles.Fetch(ctx, ev.credential.RawToken, subjectID, user.Email)
	if err != nil {
		return nil, err
	}
	return checkProfile(prof), nil
}

func refusal(f Failure, returnPath string) Result {
	res := Result{
		Reason:        f.Reason,
		Message:       f.Message,
		MissingFields: f.MissingFields,
	}
	switch f.Reason {
	case ReasonNotAuthenticated:
		res.RedirectTarget = TargetLogin
		res.ReturnPath = SanitizeReturnPath(returnPath)
		res.Modal = true
	case ReasonSessionExpired:
		res.RedirectTarget = TargetLogin
		res.ReturnPath = SanitizeReturnPath(returnPath)
	case ReasonCartEmpty:
		res.RedirectTarget = TargetCatalog
	case ReasonProfileIncomplete:
		res.RedirectTarget = TargetPersonalData
		res.ReturnPath = SanitizeReturnPath(returnPath)
	default:
		return internalResult()
	}
	return res
}

func internalResult() Result {
	return Result{
		Reason:         ReasonInternalError,
		RedirectTarget: TargetHome,
		Message:        MessageInternalError,
	}
}

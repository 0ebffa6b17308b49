package notification

import (
	"context"
	"fmt"
	"regexp"

	"github.com/go-otc-auth/internal/domain"
	"github.com/go-otc-auth/internal/infrastructure/smtp"
	"github.com/go-otc-auth/internal/infrastructure/sns"
	"golang.org/x/time/rate"
)

var phonePattern = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

// IsPhoneNumber reports whether identity is an E.164 phone number.
func IsPhoneNumber(identity string) bool {
	return phonePattern.MatchString(identity)
}

type Service interface {
	Notify(ctx context.Context, to string, msg domain.Message) error
}

// ServiceDeps holds the delivery channels. Either channel may be nil.
type ServiceDeps struct {
	Mailer     smtp.Mailer
	SMS        sns.SMSSender
	RatePerSec float64
	Burst      int
}

type service struct {
	mailer  smtp.Mailer
	sms     sns.SMSSender
	limiter *rate.Limiter
}

func NewService(deps ServiceDeps) Service {
	limit := rate.Limit(deps.RatePerSec)
	if deps.RatePerSec <= 0 {
		limit = rate.Inf
	}
	burst := deps.Burst
	if burst < 1 {
		burst = 1
	}
	return &service{
		mailer:  deps.Mailer,
		sms:     deps.SMS,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Notify routes phone numbers to SMS and everything else to email.
func (s *service) Notify(ctx context.Context, to string, msg domain.Message) error {
	if IsPhoneNumber(to) {
		if s.sms == nil {
			return fmt.Errorf("sms channel not configured: %w", domain.ErrDeliveryFailed)
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("wait for send slot: %w", err)
		}
		return s.sms.SendSMS(ctx, to, msg.Body)
	}
	if s.mailer == nil {
		return fmt.Errorf("email channel not configured: %w", domain.ErrDeliveryFailed)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for send slot: %w", err)
	}
	return s.mailer.SendEmail(to, msg.Subject, msg.Body)
}

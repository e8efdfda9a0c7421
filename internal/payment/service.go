package payment

import (
	"log/slog"
	"time"
)

// Service runs the cosmetic card pre-checks. The clock is injected so
// expiry tests are deterministic.
type Service struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
		now:    time.Now,
	}
}

func NewServiceWithClock(logger *slog.Logger, now func() time.Time) *Service {
	return &Service{logger: logger, now: now}
}

// Precheck validates the three card fields together and reports per-field
// problems. It never contacts any payment system.
func (s *Service) Precheck(dto PrecheckDTO) *PrecheckResponse {
	resp := &PrecheckResponse{Errors: make(map[string]string)}

	brand, ok := ValidCardNumber(dto.CardNumber)
	resp.Brand = brand
	if !ok {
		resp.Errors["card_number"] = "card number does not match any accepted card type"
	}

	if !ValidExpiry(dto.Expiry, s.now()) {
		resp.Errors["expiry"] = "expiry must be MM/YY and not in the past"
	}

	if !ValidCVV(dto.CVV, brand) {
		if brand == BrandAmex {
			resp.Errors["cvv"] = "CVV must be 4 digits for Amex"
		} else {
			resp.Errors["cvv"] = "CVV must be 3 digits"
		}
	}

	resp.Valid = len(resp.Errors) == 0
	if resp.Valid {
		resp.Errors = nil
	}

	s.logger.Debug("card precheck", "brand", brand, "valid", resp.Valid)
	return resp
}

// Package resolver extracts a wallet address from route parameters.
package resolver

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"portfolio_dashboard/internal/app/port"
	"portfolio_dashboard/internal/domain/entity"
	"portfolio_dashboard/internal/pkg/metrics"
)

// ParamAddress is the route parameter holding the wallet address.
const ParamAddress = "address"

const (
	resultAbsent  = "absent"
	resultValid   = "valid"
	resultInvalid = "invalid"
)

// validation is a memoized Validate outcome.
type validation struct {
	address entity.Address
	err     error
}

// Resolver turns route parameters into a validated address.
type Resolver struct {
	validator port.AddressValidator
	memo      *cache.Cache
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// New creates a Resolver. Validation results are memoized for ttl.
func New(validator port.AddressValidator, logger *zap.Logger, m *metrics.Metrics, ttl time.Duration) *Resolver {
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Resolver{
		validator: validator,
		memo:      cache.New(ttl, 2*ttl),
		logger:    logger.Named("AddressResolver"),
		metrics:   m,
	}
}

// Resolve reads ParamAddress from params.
//
// A missing, non-string or empty value yields ok == false and no error.
// A string that is not a valid address yields an error wrapping
// entity.ErrInvalidAddressFormat.
func (r *Resolver) Resolve(params map[string]any) (entity.Address, bool, error) {
	raw, present := params[ParamAddress]
	candidate, isString := raw.(string)
	if !present || !isString || candidate == "" {
		r.metrics.AddressResolutions.WithLabelValues(resultAbsent).Inc()
		return "", false, nil
	}

	v := r.validate(candidate)
	if v.err != nil {
		r.metrics.AddressResolutions.WithLabelValues(resultInvalid).Inc()
		r.logger.Debug("Rejected address parameter", zap.String("candidate", candidate), zap.Error(v.err))
		return "", false, v.err
	}
	r.metrics.AddressResolutions.WithLabelValues(resultValid).Inc()
	return v.address, true, nil
}

// ResolveString is Resolve for a single string parameter.
func (r *Resolver) ResolveString(candidate string) (entity.Address, bool, error) {
	return r.Resolve(map[string]any{ParamAddress: candidate})
}

func (r *Resolver) validate(candidate string) validation {
	if cached, found := r.memo.Get(candidate); found {
		return cached.(validation)
	}
	address, err := r.validator.Validate(candidate)
	v := validation{address: address, err: err}
	r.memo.SetDefault(candidate, v)
	return v
}

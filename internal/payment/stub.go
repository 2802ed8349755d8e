package payment

import (
	"context"
	"fmt"
)

// StubProcessor approves every charge.  It backs the e-wallet method
// and local development, where no real gateway is reachable.
type StubProcessor struct{}

// NewStubProcessor returns an always-approving processor.
func NewStubProcessor() *StubProcessor { return &StubProcessor{} }

// Charge approves the request and fabricates a provider reference from
// the hold reference.
func (p *StubProcessor) Charge(_ context.Context, req ChargeRequest) (ChargeResult, error) {
	return ChargeResult{ProviderRef: fmt.Sprintf("stub_%s", req.HoldReference)}, nil
}

// Router dispatches a charge to a per-method processor, so cards can go
// through Stripe while e-wallets stay on the stub.
type Router struct {
	byMethod map[Method]Processor
	fallback Processor
}

// NewRouter builds a dispatcher with the given fallback for methods
// without a dedicated processor.
func NewRouter(fallback Processor) *Router {
	return &Router{byMethod: make(map[Method]Processor), fallback: fallback}
}

// Route assigns a processor to a method.
func (r *Router) Route(m Method, p Processor) *Router {
	r.byMethod[m] = p
	return r
}

// Charge forwards to the processor registered for the request's method.
func (r *Router) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if p, ok := r.byMethod[req.Method]; ok {
		return p.Charge(ctx, req)
	}
	return r.fallback.Charge(ctx, req)
}

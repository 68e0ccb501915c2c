package bridge

// -----------------------------------------------------------------------------
// Status implements interfaces.IBridgeStatus for the HTTP status endpoint.
// -----------------------------------------------------------------------------

type Status struct {
	resolver *SubscriptionResolver
	orders   *OrderManager
}

func NewStatus(resolver *SubscriptionResolver, orders *OrderManager) *Status {
	return &Status{resolver: resolver, orders: orders}
}

func (s *Status) ActiveSubscriptions() int { return s.resolver.ActiveCount() }
func (s *Status) PendingResolutions() int  { return s.resolver.PendingCount() }
func (s *Status) NextOrderID() int64       { return s.orders.NextOrderID() }

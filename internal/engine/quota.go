package engine

// DefaultMaxOrders is the default cap on orders per turn.
const DefaultMaxOrders = 12

// orderQuota rejects a turn carrying more orders than the cult can act on.
// A zero max disables the check.
type orderQuota struct {
	max int
}

func (q orderQuota) check(turn, n int) error {
	if q.max > 0 && n > q.max {
		return newError(ErrCodeInvalidOrder, turn, -1, nil, "%d orders exceed the limit of %d per turn", n, q.max)
	}
	return nil
}

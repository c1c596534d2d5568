package aggregates

// Contract documents one write aggregate: the row it locks before deciding and the rule every
// committed write keeps. Writes always run in a transaction the aggregate opens itself.
type Contract struct {
	Name      string
	Locks     string
	Invariant string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) String() string {
	if c.Locks == "" {
		return c.Name
	}
	return c.Name + " (locks " + c.Locks + ")"
}

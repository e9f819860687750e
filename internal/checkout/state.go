package checkout

// State is the progress of one checkout attempt. Attempts move forward
// through the states in order; any failure goes to Failed, which is terminal
// and leaves no trace in the database.
type State int

const (
	Started State = iota
	Validated
	OrderWritten
	InventoryReserved
	CartCleared
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Started:
		return "started"
	case Validated:
		return "validated"
	case OrderWritten:
		return "order_written"
	case InventoryReserved:
		return "inventory_reserved"
	case CartCleared:
		return "cart_cleared"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Path names the entry point an attempt came through.
type Path string

const (
	PathCart   Path = "cart"
	PathWalkIn Path = "walkin"
)

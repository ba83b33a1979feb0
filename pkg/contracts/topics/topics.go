package topics

const (
	// Wagers
	WagerPlaced  = "wager_placed"
	WagerSettled = "wager_settled"

	// DLQs
	WagerPlacedDLQ = "wager_placed_dlq"
)

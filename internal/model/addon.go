package model

// BookingAddon holds the optional extras a customer attaches to a
// ticket (interval refreshments and flowers delivered to the seat).
// One row per ticket.
type BookingAddon struct {
	TicketID uint64  // booking_addons.ticket_id (primary key)
	Food     *string // booking_addons.food (nullable)
	Drinks   *string // booking_addons.drinks (nullable)
	Flowers  bool    // booking_addons.flowers
}

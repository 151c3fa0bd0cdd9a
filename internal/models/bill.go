package models

import "fmt"

// Category is the kind of bill, which decides how it is split.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryEntertainment Category = "entertainment"
	CategoryAccommodation Category = "accommodation"
	CategorySports        Category = "sports"
)

// Categories lists every supported category in display order.
var Categories = []Category{CategoryFood, CategoryEntertainment, CategoryAccommodation, CategorySports}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Bill represents a saved bill with items to be split among participants.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name, e.g. "Dinner at Olive Garden".
	Title string

	Category Category

	// Date is the day the expense happened, as YYYY-MM-DD.
	Date string

	// PayerID is the participant who paid the bill up front.
	PayerID string

	// Items are the individual line items on the bill.
	Items []LineItem

	// Tax, Tip and Additional are surcharges spread proportionally over
	// participants with item shares. Even-split categories leave them zero.
	Tax        float64
	Tip        float64
	Additional float64

	// Participants is everyone involved, in display order.
	Participants []string

	// Shares are the computed owed amounts, in the same order as Participants
	// minus anyone who owes nothing.
	Shares []Share

	// Unassigned is the price of items nobody was assigned to. It is shown
	// in the subtotal but not owed by anyone.
	Unassigned float64

	// Nights is set for accommodation bills.
	Nights int

	// Location is the venue, event location or accommodation name.
	Location string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64
}

// Subtotal is the raw sum of all item prices, assigned or not.
func (b *Bill) Subtotal() float64 {
	var sum float64
	for _, item := range b.Items {
		sum += item.Price
	}
	return sum
}

// Total is the subtotal plus every surcharge.
func (b *Bill) Total() float64 {
	return b.Subtotal() + b.Tax + b.Tip + b.Additional
}

// LineItem represents a single line item on a bill.
type LineItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the description of the item (e.g., "Pizza", "Concert ticket").
	Name string

	// Price is the full price of the line. For tickets this is quantity * unit price.
	Price float64

	// Quantity and UnitPrice are kept for ticket lines; zero otherwise.
	Quantity  int
	UnitPrice float64

	// AssignedTo lists the participants who split this item equally.
	// Empty means the item is unassigned.
	AssignedTo []string
}

// Share represents one participant's calculated share of a bill.
type Share struct {
	Participant string

	// Subtotal is the participant's share of the line items.
	Subtotal float64

	// Surcharge is the participant's proportional share of tax, tip and
	// additional expenses.
	Surcharge float64

	// Amount is the total owed (Subtotal + Surcharge).
	Amount float64

	// Paid is set once the participant has settled with the payer.
	Paid bool
}

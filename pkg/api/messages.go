// Package api defines the splitbill RPC messages and the Connect handlers and
// clients that carry them. Messages are plain Go structs encoded as JSON.
package api

// ItemInput is one raw item, ticket or expense row from a bill form.
type ItemInput struct {
	Name       string   `json:"name"`
	Price      string   `json:"price,omitempty"`
	Quantity   string   `json:"quantity,omitempty"`
	UnitPrice  string   `json:"unit_price,omitempty"`
	AssignedTo []string `json:"assigned_to,omitempty"`
}

// BillForm is the raw, unvalidated state of a bill-entry screen.
type BillForm struct {
	Category     string      `json:"category"`
	Title        string      `json:"title"`
	Location     string      `json:"location,omitempty"`
	Date         string      `json:"date,omitempty"`
	PayerID      string      `json:"payer_id,omitempty"`
	Items        []ItemInput `json:"items,omitempty"`
	Tax          string      `json:"tax,omitempty"`
	Tip          string      `json:"tip,omitempty"`
	Additional   string      `json:"additional,omitempty"`
	Price        string      `json:"price,omitempty"`
	CheckIn      string      `json:"check_in,omitempty"`
	CheckOut     string      `json:"check_out,omitempty"`
	Participants []string    `json:"participants,omitempty"`
}

// PersonShare is one participant's share. Amounts are unrounded; Display is
// the total formatted for presentation.
type PersonShare struct {
	Participant string  `json:"participant"`
	Subtotal    float64 `json:"subtotal"`
	Surcharge   float64 `json:"surcharge"`
	Total       float64 `json:"total"`
	Display     string  `json:"display"`
	Paid        bool    `json:"paid"`
}

// SplitSummary is the outcome of a split calculation.
type SplitSummary struct {
	Shares     []PersonShare `json:"shares"`
	Subtotal   float64       `json:"subtotal"`
	Tax        float64       `json:"tax"`
	Tip        float64       `json:"tip"`
	Additional float64       `json:"additional"`
	Total      float64       `json:"total"`

	// Unassigned is the price of items nobody was assigned to.
	Unassigned float64 `json:"unassigned"`
	// UndistributedSurcharge is surcharge nobody carries because no
	// participant had an item share.
	UndistributedSurcharge float64 `json:"undistributed_surcharge"`
}

type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	Quantity   int      `json:"quantity,omitempty"`
	UnitPrice  float64  `json:"unit_price,omitempty"`
	AssignedTo []string `json:"assigned_to"`
}

type Bill struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Category     string       `json:"category"`
	Date         string       `json:"date"`
	PayerID      string       `json:"payer_id"`
	Location     string       `json:"location,omitempty"`
	Nights       int          `json:"nights,omitempty"`
	Items        []Item       `json:"items"`
	Participants []string     `json:"participants"`
	Split        SplitSummary `json:"split"`
	CreatedAt    int64        `json:"created_at"`
}

type BillSummary struct {
	BillID           string  `json:"bill_id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Date             string  `json:"date"`
	Total            float64 `json:"total"`
	ParticipantCount int32   `json:"participant_count"`
	CreatedAt        int64   `json:"created_at"`
}

type CalculateSplitRequest struct {
	Form BillForm `json:"form"`
}

type CalculateSplitResponse struct {
	Split SplitSummary `json:"split"`
}

type CreateBillRequest struct {
	Form BillForm `json:"form"`
}

type CreateBillResponse struct {
	BillID string       `json:"bill_id"`
	Split  SplitSummary `json:"split"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetBillResponse struct {
	Bill Bill `json:"bill"`
}

type ListBillsRequest struct {
	// Category filters the history; empty means all.
	Category string `json:"category,omitempty"`
}

type ListBillsResponse struct {
	Bills []BillSummary `json:"bills"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteBillResponse struct{}

type MarkSharePaidRequest struct {
	BillID      string `json:"bill_id"`
	Participant string `json:"participant"`
	Paid        bool   `json:"paid"`
}

type MarkSharePaidResponse struct{}

type GetSpendingRequest struct {
	// Period is week, month or year. Empty means month.
	Period string `json:"period,omitempty"`
}

type CategorySpending struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
	Bills      int32   `json:"bills"`
}

type GetSpendingResponse struct {
	Period     string             `json:"period"`
	Since      string             `json:"since"`
	TotalSpent float64            `json:"total_spent"`
	Categories []CategorySpending `json:"categories"`
}

type GetBalancesRequest struct{}

type MemberBalance struct {
	Participant string  `json:"participant"`
	NetBalance  float64 `json:"net_balance"`
	TotalPaid   float64 `json:"total_paid"`
	TotalOwed   float64 `json:"total_owed"`
}

type Debt struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type GetBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
	Debts    []Debt          `json:"debts"`
}

type Friend struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type AddFriendRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type AddFriendResponse struct {
	Friend Friend `json:"friend"`
}

type ListFriendsRequest struct {
	Query string `json:"query,omitempty"`
}

type ListFriendsResponse struct {
	Friends []Friend `json:"friends"`
}

type DeleteFriendRequest struct {
	FriendID string `json:"friend_id"`
}

type DeleteFriendResponse struct{}

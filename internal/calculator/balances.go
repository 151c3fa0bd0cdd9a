package calculator

import (
	"sort"
)

// settleThreshold ignores sub-cent floating point noise when matching debts.
const settleThreshold = 0.005

// ShareForBalance is one participant's owed amount on a saved bill.
type ShareForBalance struct {
	Participant string
	Amount      float64
	Paid        bool
}

// BillForBalance represents a saved bill with the minimal information needed
// for balance calculations.
type BillForBalance struct {
	PayerID string
	Shares  []ShareForBalance
}

// MemberBalance represents the balance information for one participant.
type MemberBalance struct {
	Participant string
	NetBalance  float64 // Positive = owed money, Negative = owes money
	TotalPaid   float64 // Outstanding amount fronted for others
	TotalOwed   float64 // Amount this person owes across all bills
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// CalculateBalances aggregates outstanding shares across bills and returns
// per-participant balances plus a simplified list of who should pay whom.
//
// Algorithm:
//   - For each unpaid share of a non-payer: payer is owed +amount, participant owes amount
//   - Paid shares and the payer's own share are already settled and ignored
//   - net_balance = total_paid - total_owed
//   - Debts are simplified by greedily matching the largest debtor with the largest creditor
//
// Balances are returned sorted by participant so output is stable.
func CalculateBalances(bills []BillForBalance) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	get := func(p string) *MemberBalance {
		if _, ok := balances[p]; !ok {
			balances[p] = &MemberBalance{Participant: p}
		}
		return balances[p]
	}

	for _, bill := range bills {
		// Skip bills without payer (can't calculate balances)
		if bill.PayerID == "" {
			continue
		}
		for _, share := range bill.Shares {
			if share.Participant == bill.PayerID || share.Paid {
				continue
			}
			get(bill.PayerID).TotalPaid += share.Amount
			get(share.Participant).TotalOwed += share.Amount
		}
	}

	members := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid - bal.TotalOwed
		members = append(members, *bal)
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].Participant < members[j].Participant
	})

	return members, simplifyDebts(members)
}

// simplifyDebts matches debtors with creditors to minimize transactions.
func simplifyDebts(members []MemberBalance) []DebtEdge {
	type party struct {
		name   string
		amount float64
	}
	var creditors, debtors []party
	for _, m := range members {
		switch {
		case m.NetBalance > settleThreshold:
			creditors = append(creditors, party{m.Participant, m.NetBalance})
		case m.NetBalance < -settleThreshold:
			debtors = append(debtors, party{m.Participant, -m.NetBalance})
		}
	}
	byAmount := func(ps []party) {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].amount > ps[j].amount })
	}
	byAmount(creditors)
	byAmount(debtors)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}

		if amount > settleThreshold {
			edges = append(edges, DebtEdge{
				From:   debtors[i].name,
				To:     creditors[j].name,
				Amount: amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		// Move to next debtor/creditor if fully settled
		if debtors[i].amount <= settleThreshold {
			i++
		}
		if creditors[j].amount <= settleThreshold {
			j++
		}
	}
	return edges
}

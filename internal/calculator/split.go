package calculator

import (
	"fmt"
	"math"
)

// LineItem is one priced entry on a bill and the participants it is attributed to.
type LineItem struct {
	ID         string
	Price      float64
	AssignedTo []string
}

// PersonSplit represents the calculated split for one person
type PersonSplit struct {
	Subtotal  float64 // Share of the line items
	Surcharge float64 // Proportional share of tax, tip and additional expenses
	Total     float64
}

// Result maps participants to the amount they owe. Iteration order is the
// order in which participants were first seen.
type Result struct {
	order  []string
	splits map[string]*PersonSplit

	// Unassigned is the summed price of items nobody was assigned to.
	// It is not distributed to anyone.
	Unassigned float64

	// UndistributedSurcharge is the surcharge total that could not be spread
	// because no participant had a positive item share.
	UndistributedSurcharge float64
}

func newResult() *Result {
	return &Result{splits: make(map[string]*PersonSplit)}
}

func (r *Result) add(participant string, amount float64) {
	split, ok := r.splits[participant]
	if !ok {
		split = &PersonSplit{}
		r.splits[participant] = split
		r.order = append(r.order, participant)
	}
	split.Subtotal += amount
}

// Participants returns participant ids in deterministic display order.
func (r *Result) Participants() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Amount returns the total owed by participant.
func (r *Result) Amount(participant string) (float64, bool) {
	split, ok := r.splits[participant]
	if !ok {
		return 0, false
	}
	return split.Total, true
}

// Split returns the detailed breakdown for participant.
func (r *Result) Split(participant string) (PersonSplit, bool) {
	split, ok := r.splits[participant]
	if !ok {
		return PersonSplit{}, false
	}
	return *split, true
}

// Len returns the number of participants in the result.
func (r *Result) Len() int {
	return len(r.order)
}

// Total returns the sum of all owed amounts.
func (r *Result) Total() float64 {
	var sum float64
	for _, p := range r.order {
		sum += r.splits[p].Total
	}
	return sum
}

// Map returns a copy of the result as a plain map of totals.
func (r *Result) Map() map[string]float64 {
	out := make(map[string]float64, len(r.order))
	for _, p := range r.order {
		out[p] = r.splits[p].Total
	}
	return out
}

// InvalidInputError reports a call with structurally impossible input.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// InvalidLineItemError reports a line item whose price is negative or not a number.
type InvalidLineItemError struct {
	ItemID string
	Price  float64
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid line item %q: price %v must be a non-negative number", e.ItemID, e.Price)
}

func isAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ComputeEvenSplit divides total equally among participantIDs.
func ComputeEvenSplit(total float64, participantIDs []string) (*Result, error) {
	if len(participantIDs) == 0 {
		return nil, &InvalidInputError{Reason: "must have at least one participant"}
	}
	if !isAmount(total) {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("total %v must be a non-negative number", total)}
	}

	result := newResult()
	share := total / float64(len(participantIDs))
	for _, p := range participantIDs {
		if _, dup := result.splits[p]; dup {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("duplicate participant %q", p)}
		}
		result.add(p, share)
	}
	for _, split := range result.splits {
		split.Total = split.Subtotal
	}
	return result, nil
}

// ComputeItemizedSplit computes how much each person owes including a
// proportional share of the surcharges.
//
// Each item's price is split equally among its assignees. The summed
// surcharges are then spread in proportion to each person's item share:
//
//	person_total = person_subtotal + surcharge_total * (person_subtotal / distributed_subtotal)
//
// Items without assignees and surcharges with nobody to carry them are
// reported on the result instead of being redistributed.
func ComputeItemizedSplit(items []LineItem, surcharges []float64) (*Result, error) {
	for _, item := range items {
		if !isAmount(item.Price) {
			return nil, &InvalidLineItemError{ItemID: item.ID, Price: item.Price}
		}
	}
	var surchargeTotal float64
	for i, s := range surcharges {
		if !isAmount(s) {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("surcharge %d (%v) must be a non-negative number", i, s)}
		}
		surchargeTotal += s
	}

	result := newResult()
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			result.Unassigned += item.Price
			continue
		}
		if item.Price == 0 {
			continue
		}
		assignees := uniq(item.AssignedTo)
		perPerson := item.Price / float64(len(assignees))
		for _, p := range assignees {
			result.add(p, perPerson)
		}
	}

	var distributed float64
	for _, p := range result.order {
		distributed += result.splits[p].Subtotal
	}

	if distributed > 0 {
		for _, p := range result.order {
			split := result.splits[p]
			split.Surcharge = surchargeTotal * (split.Subtotal / distributed)
		}
	} else {
		result.UndistributedSurcharge = surchargeTotal
	}

	for _, split := range result.splits {
		split.Total = split.Subtotal + split.Surcharge
	}
	result.dropNonPositive()
	return result, nil
}

// dropNonPositive removes participants that ended up owing nothing.
func (r *Result) dropNonPositive() {
	kept := r.order[:0]
	for _, p := range r.order {
		if r.splits[p].Total > 0 {
			kept = append(kept, p)
			continue
		}
		delete(r.splits, p)
	}
	r.order = kept
}

// uniq drops repeated ids, keeping first occurrences.
func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Subtotal returns the raw sum of all item prices, assigned or not.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price
	}
	return sum
}

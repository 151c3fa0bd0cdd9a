// Package billform turns raw bill-entry form state into validated bills and
// runs the split calculation for them.
//
// Every string a user typed is parsed here. The calculator only ever sees
// non-negative numbers; anything else is reported as ValidationErrors naming
// the offending fields.
package billform

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/money"
)

const dateLayout = "2006-01-02"

// ItemInput is one row of the items (food), tickets (entertainment) or
// expenses (sports) list, exactly as entered.
type ItemInput struct {
	Name string

	// Price is used by food and sports rows.
	Price string

	// Quantity and UnitPrice are used by ticket rows. A blank quantity means 1.
	Quantity  string
	UnitPrice string

	// AssignedTo is used by itemized categories (food, entertainment).
	AssignedTo []string
}

// Form is the raw state of a bill-entry screen.
type Form struct {
	Category models.Category

	// Title is the restaurant, event, accommodation or sport name.
	Title string

	// Location is the event location or sports venue.
	Location string

	// Date is YYYY-MM-DD; blank means today.
	Date string

	// PayerID defaults to the current user.
	PayerID string

	Items []ItemInput

	// Surcharges for itemized categories. Blank means zero.
	Tax        string
	Tip        string
	Additional string

	// Price is the total for accommodation bills.
	Price string

	// CheckIn and CheckOut are YYYY-MM-DD, accommodation only.
	CheckIn  string
	CheckOut string

	// Participants are the selected friends for even-split categories.
	Participants []string
}

// ValidationError describes one invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every invalid field of a form.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Itemized reports whether bills of category c are split per item.
func Itemized(c models.Category) bool {
	return c == models.CategoryFood || c == models.CategoryEntertainment
}

// Parse validates a form and converts it into an unsaved bill. Shares are
// not computed; call Split for that.
func Parse(f Form, me string, now time.Time) (*models.Bill, error) {
	var errs ValidationErrors

	bill := &models.Bill{
		Category: f.Category,
		Title:    strings.TrimSpace(f.Title),
		Location: strings.TrimSpace(f.Location),
		PayerID:  strings.TrimSpace(f.PayerID),
	}
	if bill.PayerID == "" {
		bill.PayerID = me
	}

	if _, err := models.ParseCategory(string(f.Category)); err != nil {
		errs.add("category", "must be one of food, entertainment, accommodation, sports")
		return nil, errs
	}
	if bill.Title == "" {
		errs.add("title", "is required")
	}
	if (f.Category == models.CategoryEntertainment || f.Category == models.CategorySports) && bill.Location == "" {
		errs.add("location", "is required")
	}

	bill.Date = now.Format(dateLayout)
	if d := strings.TrimSpace(f.Date); d != "" {
		if _, err := time.Parse(dateLayout, d); err != nil {
			errs.add("date", "must be YYYY-MM-DD")
		} else {
			bill.Date = d
		}
	}

	switch f.Category {
	case models.CategoryFood, models.CategoryEntertainment:
		parseItemized(f, bill, &errs)
	case models.CategoryAccommodation:
		parseAccommodation(f, bill, &errs)
	case models.CategorySports:
		parseSports(f, bill, &errs)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return bill, nil
}

func parseItemized(f Form, bill *models.Bill, errs *ValidationErrors) {
	if len(f.Items) == 0 {
		errs.add("items", "at least one item is required")
	}

	seen := make(map[string]bool)
	for i, in := range f.Items {
		field := fmt.Sprintf("items[%d]", i)
		item := models.LineItem{
			Name:       strings.TrimSpace(in.Name),
			AssignedTo: cleanIDs(in.AssignedTo),
		}
		if item.Name == "" {
			errs.add(field+".name", "is required")
		}

		if f.Category == models.CategoryEntertainment {
			item.Quantity = 1
			if q := strings.TrimSpace(in.Quantity); q != "" {
				n, err := strconv.Atoi(q)
				if err != nil || n < 1 {
					errs.add(field+".quantity", "must be a whole number of at least 1")
				}
				item.Quantity = n
			}
			unit, err := money.ParseAmount(in.UnitPrice)
			if err != nil {
				errs.add(field+".unit_price", "%v", err)
			}
			item.UnitPrice = unit
			item.Price = float64(item.Quantity) * unit
		} else {
			price, err := money.ParseAmount(in.Price)
			if err != nil {
				errs.add(field+".price", "%v", err)
			}
			item.Price = price
		}

		for _, p := range item.AssignedTo {
			if !seen[p] {
				seen[p] = true
				bill.Participants = append(bill.Participants, p)
			}
		}
		bill.Items = append(bill.Items, item)
	}

	var err error
	if f.Category == models.CategoryFood {
		if bill.Tax, err = money.ParseOptionalAmount(f.Tax); err != nil {
			errs.add("tax", "%v", err)
		}
		if bill.Tip, err = money.ParseOptionalAmount(f.Tip); err != nil {
			errs.add("tip", "%v", err)
		}
	} else {
		if bill.Additional, err = money.ParseOptionalAmount(f.Additional); err != nil {
			errs.add("additional", "%v", err)
		}
	}
}

func parseAccommodation(f Form, bill *models.Bill, errs *ValidationErrors) {
	price, err := money.ParseAmount(f.Price)
	if err != nil {
		errs.add("price", "%v", err)
	}
	bill.Participants = evenParticipants(f.Participants, errs)
	bill.Items = []models.LineItem{{Name: bill.Title, Price: price, AssignedTo: bill.Participants}}

	checkIn, errIn := time.Parse(dateLayout, strings.TrimSpace(f.CheckIn))
	if errIn != nil {
		errs.add("check_in", "must be YYYY-MM-DD")
	}
	checkOut, errOut := time.Parse(dateLayout, strings.TrimSpace(f.CheckOut))
	if errOut != nil {
		errs.add("check_out", "must be YYYY-MM-DD")
	}
	if errIn == nil && errOut == nil {
		bill.Nights = Nights(checkIn, checkOut)
		if bill.Nights == 0 {
			errs.add("check_out", "must be after check-in")
		}
	}
}

func parseSports(f Form, bill *models.Bill, errs *ValidationErrors) {
	bill.Participants = evenParticipants(f.Participants, errs)
	if len(f.Items) == 0 {
		errs.add("items", "at least one expense is required")
	}
	for i, in := range f.Items {
		field := fmt.Sprintf("items[%d]", i)
		item := models.LineItem{Name: strings.TrimSpace(in.Name), AssignedTo: bill.Participants}
		if item.Name == "" {
			errs.add(field+".name", "is required")
		}
		price, err := money.ParseAmount(in.Price)
		if err != nil {
			errs.add(field+".price", "%v", err)
		}
		item.Price = price
		bill.Items = append(bill.Items, item)
	}
}

func evenParticipants(ids []string, errs *ValidationErrors) []string {
	ps := cleanIDs(ids)
	if len(ps) == 0 {
		errs.add("participants", "select at least one person")
	}
	return ps
}

// cleanIDs trims ids and drops blanks and repeats.
func cleanIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Nights returns the number of started days between two dates.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(d.Hours() / 24))
}

// RequireAssigned enforces the save rule that every line item of an itemized
// bill has at least one assignee. Previews may still contain unassigned items.
func RequireAssigned(bill *models.Bill) error {
	if !Itemized(bill.Category) {
		return nil
	}
	var errs ValidationErrors
	for i, item := range bill.Items {
		if len(item.AssignedTo) == 0 {
			errs.add(fmt.Sprintf("items[%d].assigned_to", i), "assign %q to at least one person", item.Name)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Split computes the shares for bill and stores them on it. Itemized
// categories spread tax, tip and additional expenses proportionally; the
// others divide the subtotal evenly.
func Split(bill *models.Bill) (*calculator.Result, error) {
	var (
		result *calculator.Result
		err    error
	)
	if Itemized(bill.Category) {
		items := make([]calculator.LineItem, len(bill.Items))
		for i, item := range bill.Items {
			id := item.ID
			if id == "" {
				id = strconv.Itoa(i + 1)
			}
			items[i] = calculator.LineItem{ID: id, Price: item.Price, AssignedTo: item.AssignedTo}
		}
		result, err = calculator.ComputeItemizedSplit(items, []float64{bill.Tax, bill.Tip, bill.Additional})
	} else {
		result, err = calculator.ComputeEvenSplit(bill.Subtotal(), bill.Participants)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to calculate split: %w", err)
	}

	bill.Unassigned = result.Unassigned
	bill.Shares = bill.Shares[:0]
	for _, p := range result.Participants() {
		split, _ := result.Split(p)
		bill.Shares = append(bill.Shares, models.Share{
			Participant: p,
			Subtotal:    split.Subtotal,
			Surcharge:   split.Surcharge,
			Amount:      split.Total,
		})
	}
	return result, nil
}

// IsValidation reports whether err came from form validation.
func IsValidation(err error) bool {
	var v ValidationErrors
	return errors.As(err, &v)
}

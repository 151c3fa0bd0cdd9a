package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/billform"
	"github.com/mmynk/splitbill/internal/calculator"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/money"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

// Ensure BillService implements api.BillServiceHandler
var _ api.BillServiceHandler = (*BillService)(nil)

// BillService implements the Connect BillService
type BillService struct {
	store   storage.Store
	metrics *metrics.Metrics
	me      string
	now     func() time.Time
}

// NewBillService creates a new BillService with the given storage backend.
// me is the participant id of the current user, used as the default payer.
func NewBillService(store storage.Store, m *metrics.Metrics, me string) *BillService {
	return &BillService{store: store, metrics: m, me: me, now: time.Now}
}

// toForm converts the wire form into the billform input.
func toForm(f api.BillForm) billform.Form {
	items := make([]billform.ItemInput, len(f.Items))
	for i, item := range f.Items {
		items[i] = billform.ItemInput{
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			AssignedTo: item.AssignedTo,
		}
	}
	return billform.Form{
		Category:     models.Category(f.Category),
		Title:        f.Title,
		Location:     f.Location,
		Date:         f.Date,
		PayerID:      f.PayerID,
		Items:        items,
		Tax:          f.Tax,
		Tip:          f.Tip,
		Additional:   f.Additional,
		Price:        f.Price,
		CheckIn:      f.CheckIn,
		CheckOut:     f.CheckOut,
		Participants: f.Participants,
	}
}

// undistributedSurcharge is the surcharge nobody carries. For itemized bills
// shares exist exactly when some participant had a positive item share.
func undistributedSurcharge(bill *models.Bill) float64 {
	if !billform.Itemized(bill.Category) || len(bill.Shares) > 0 {
		return 0
	}
	return bill.Tax + bill.Tip + bill.Additional
}

func summarize(bill *models.Bill) api.SplitSummary {
	shares := make([]api.PersonShare, len(bill.Shares))
	for i, s := range bill.Shares {
		shares[i] = api.PersonShare{
			Participant: s.Participant,
			Subtotal:    s.Subtotal,
			Surcharge:   s.Surcharge,
			Total:       s.Amount,
			Display:     money.Format(s.Amount),
			Paid:        s.Paid,
		}
	}
	return api.SplitSummary{
		Shares:                 shares,
		Subtotal:               bill.Subtotal(),
		Tax:                    bill.Tax,
		Tip:                    bill.Tip,
		Additional:             bill.Additional,
		Total:                  bill.Total(),
		Unassigned:             bill.Unassigned,
		UndistributedSurcharge: undistributedSurcharge(bill),
	}
}

func toAPIBill(bill *models.Bill) api.Bill {
	items := make([]api.Item, len(bill.Items))
	for i, item := range bill.Items {
		items[i] = api.Item{
			ID:         item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			AssignedTo: item.AssignedTo,
		}
	}
	return api.Bill{
		ID:           bill.ID,
		Title:        bill.Title,
		Category:     string(bill.Category),
		Date:         bill.Date,
		PayerID:      bill.PayerID,
		Location:     bill.Location,
		Nights:       bill.Nights,
		Items:        items,
		Participants: bill.Participants,
		Split:        summarize(bill),
		CreatedAt:    bill.CreatedAt,
	}
}

// splitError maps a validation or calculation failure to a Connect error.
func splitError(err error) error {
	var (
		inputErr *calculator.InvalidInputError
		itemErr  *calculator.InvalidLineItemError
	)
	switch {
	case billform.IsValidation(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &inputErr), errors.As(err, &itemErr):
		// The form boundary should have caught this.
		slog.Error("Calculator rejected validated input", "error", err)
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// storeError maps a storage failure to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// prepare validates a form and computes its shares.
func (s *BillService) prepare(f api.BillForm) (*models.Bill, error) {
	bill, err := billform.Parse(toForm(f), s.me, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := billform.Split(bill); err != nil {
		return nil, err
	}
	s.metrics.SplitsTotal.WithLabelValues(string(bill.Category)).Inc()
	s.reportUndistributed(bill)
	return bill, nil
}

// reportUndistributed surfaces money the split leaves unowed. Unassigned
// items and surcharges without carriers are kept as-is rather than spread.
func (s *BillService) reportUndistributed(bill *models.Bill) {
	surcharge := undistributedSurcharge(bill)
	if bill.Unassigned == 0 && surcharge == 0 {
		return
	}
	slog.Warn("Split leaves money unowed",
		"title", bill.Title,
		"unassigned", bill.Unassigned,
		"undistributed_surcharge", surcharge,
	)
	s.metrics.Undistributed.WithLabelValues("unassigned_item").Add(bill.Unassigned)
	s.metrics.Undistributed.WithLabelValues("surcharge").Add(surcharge)
}

// CalculateSplit previews a split without saving anything.
func (s *BillService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	slog.Debug("CalculateSplit request received",
		"category", req.Msg.Form.Category,
		"items_count", len(req.Msg.Form.Items),
	)

	bill, err := s.prepare(req.Msg.Form)
	if err != nil {
		slog.Info("CalculateSplit rejected", "error", err)
		return nil, splitError(err)
	}

	for _, share := range bill.Shares {
		slog.Debug("Person split",
			"person", share.Participant,
			"subtotal", share.Subtotal,
			"surcharge", share.Surcharge,
			"total", share.Amount,
		)
	}

	return connect.NewResponse(&api.CalculateSplitResponse{
		Split: summarize(bill),
	}), nil
}

// CreateBill validates, splits and saves a bill ("Save & Share").
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	slog.Info("CreateBill request received",
		"category", req.Msg.Form.Category,
		"title", req.Msg.Form.Title,
	)

	bill, err := billform.Parse(toForm(req.Msg.Form), s.me, s.now())
	if err == nil {
		err = billform.RequireAssigned(bill)
	}
	if err != nil {
		slog.Info("CreateBill rejected", "error", err)
		return nil, splitError(err)
	}
	if _, err := billform.Split(bill); err != nil {
		return nil, splitError(err)
	}
	s.metrics.SplitsTotal.WithLabelValues(string(bill.Category)).Inc()
	s.reportUndistributed(bill)

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateBill(ctx, bill); err != nil {
		slog.Error("CreateBill failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.BillsSaved.WithLabelValues(string(bill.Category)).Inc()

	slog.Info("Bill created", "bill_id", bill.ID, "shares", len(bill.Shares))

	return connect.NewResponse(&api.CreateBillResponse{
		BillID: bill.ID,
		Split:  summarize(bill),
	}), nil
}

// GetBill retrieves a bill by ID from storage.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id required"))
	}

	bill, err := s.store.GetBill(ctx, req.Msg.BillID)
	if err != nil {
		slog.Error("GetBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.GetBillResponse{Bill: toAPIBill(bill)}), nil
}

// ListBills returns the bill history, newest first.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	var filter storage.BillFilter
	if req.Msg.Category != "" {
		category, err := models.ParseCategory(req.Msg.Category)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		filter.Category = category
	}

	bills, err := s.store.ListBills(ctx, filter)
	if err != nil {
		slog.Error("ListBills failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summaries := make([]api.BillSummary, len(bills))
	for i, bill := range bills {
		summaries[i] = api.BillSummary{
			BillID:           bill.ID,
			Title:            bill.Title,
			Category:         string(bill.Category),
			Date:             bill.Date,
			Total:            bill.Total(),
			ParticipantCount: int32(len(bill.Participants)),
			CreatedAt:        bill.CreatedAt,
		}
	}

	return connect.NewResponse(&api.ListBillsResponse{Bills: summaries}), nil
}

// DeleteBill deletes a bill.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	if req.Msg.BillID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id required"))
	}

	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		slog.Error("DeleteBill failed", "bill_id", req.Msg.BillID, "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}

// MarkSharePaid records that a participant settled (or un-settled) their share.
func (s *BillService) MarkSharePaid(ctx context.Context, req *connect.Request[api.MarkSharePaidRequest]) (*connect.Response[api.MarkSharePaidResponse], error) {
	if req.Msg.BillID == "" || req.Msg.Participant == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("bill_id and participant required"))
	}

	if err := s.store.MarkSharePaid(ctx, req.Msg.BillID, req.Msg.Participant, req.Msg.Paid); err != nil {
		slog.Error("MarkSharePaid failed", "bill_id", req.Msg.BillID, "participant", req.Msg.Participant, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Share updated", "bill_id", req.Msg.BillID, "participant", req.Msg.Participant, "paid", req.Msg.Paid)
	return connect.NewResponse(&api.MarkSharePaidResponse{}), nil
}

// periodStart returns the first day covered by an analytics period.
func periodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "", "month":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q: want week, month or year", period)
	}
}

// GetSpending returns total and per-category spending for a period.
func (s *BillService) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	start, err := periodStart(req.Msg.Period, s.now())
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	period := req.Msg.Period
	if period == "" {
		period = "month"
	}
	since := start.Format("2006-01-02")

	totals, err := s.store.SpendingByCategory(ctx, since)
	if err != nil {
		slog.Error("GetSpending failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	byCategory := make(map[models.Category]storage.CategoryTotal, len(totals))
	var spent float64
	for _, t := range totals {
		byCategory[t.Category] = t
		spent += t.Total
	}

	categories := make([]api.CategorySpending, len(models.Categories))
	for i, c := range models.Categories {
		t := byCategory[c]
		var pct float64
		if spent > 0 {
			pct = t.Total / spent * 100
		}
		categories[i] = api.CategorySpending{
			Category:   string(c),
			Total:      t.Total,
			Percentage: pct,
			Bills:      int32(t.Bills),
		}
	}

	return connect.NewResponse(&api.GetSpendingResponse{
		Period:     period,
		Since:      since,
		TotalSpent: spent,
		Categories: categories,
	}), nil
}

// GetBalances returns outstanding balances across all saved bills.
func (s *BillService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	bills, err := s.store.ListBills(ctx, storage.BillFilter{})
	if err != nil {
		slog.Error("GetBalances: failed to list bills", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	input := make([]calculator.BillForBalance, len(bills))
	for i, bill := range bills {
		shares := make([]calculator.ShareForBalance, len(bill.Shares))
		for j, share := range bill.Shares {
			shares[j] = calculator.ShareForBalance{
				Participant: share.Participant,
				Amount:      share.Amount,
				Paid:        share.Paid,
			}
		}
		input[i] = calculator.BillForBalance{PayerID: bill.PayerID, Shares: shares}
	}

	members, edges := calculator.CalculateBalances(input)

	balances := make([]api.MemberBalance, len(members))
	for i, m := range members {
		balances[i] = api.MemberBalance{
			Participant: m.Participant,
			NetBalance:  m.NetBalance,
			TotalPaid:   m.TotalPaid,
			TotalOwed:   m.TotalOwed,
		}
	}
	debts := make([]api.Debt, len(edges))
	for i, e := range edges {
		debts[i] = api.Debt{From: e.From, To: e.To, Amount: e.Amount}
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances: balances,
		Debts:    debts,
	}), nil
}

package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/storage/sqlite"
	"github.com/mmynk/splitbill/pkg/api"
)

var testNow = time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	bills   api.BillServiceClient
	friends api.FriendServiceClient
	metrics *metrics.Metrics
}

// setupTestServer creates a test server with both BillService and FriendService
func setupTestServer(t *testing.T) (*testEnv, func()) {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	m := metrics.New()
	billSvc := NewBillService(store, m, "me")
	billSvc.now = func() time.Time { return testNow }
	friendSvc := NewFriendService(store)

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)
	billPath, billHandler := api.NewBillServiceHandler(billSvc, interceptors)
	friendPath, friendHandler := api.NewFriendServiceHandler(friendSvc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(billPath, billHandler)
	mux.Handle(friendPath, friendHandler)

	server := httptest.NewServer(mux)

	env := &testEnv{
		bills:   api.NewBillServiceClient(http.DefaultClient, server.URL),
		friends: api.NewFriendServiceClient(http.DefaultClient, server.URL),
		metrics: m,
	}

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
	}

	return env, cleanup
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func connectCode(err error) connect.Code {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code()
	}
	return connect.CodeUnknown
}

func dinnerForm() api.BillForm {
	return api.BillForm{
		Category: "food",
		Title:    "Dinner",
		Date:     "2023-10-15",
		Items: []api.ItemInput{
			{Name: "Pizza", Price: "$30.00", AssignedTo: []string{"me", "alice", "bob"}},
		},
	}
}

func TestCalculateSplit(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("itemized with unassigned item", func(t *testing.T) {
		resp, err := env.bills.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			Form: api.BillForm{
				Category: "food",
				Title:    "Dinner",
				Items: []api.ItemInput{
					{Name: "Pizza", Price: "20", AssignedTo: []string{"alice", "bob"}},
					{Name: "Beer", Price: "10", AssignedTo: []string{"bob"}},
					{Name: "Bread", Price: "4"},
				},
				Tax: "3",
			},
		}))
		if err != nil {
			t.Fatalf("CalculateSplit failed: %v", err)
		}

		split := resp.Msg.Split
		if len(split.Shares) != 2 {
			t.Fatalf("expected 2 shares, got %d", len(split.Shares))
		}
		want := []struct {
			participant string
			total       float64
			display     string
		}{
			{"alice", 11, "$11.00"},
			{"bob", 22, "$22.00"},
		}
		for i, w := range want {
			got := split.Shares[i]
			if got.Participant != w.participant || !approx(got.Total, w.total) || got.Display != w.display {
				t.Errorf("share %d = %+v, want %s %v %s", i, got, w.participant, w.total, w.display)
			}
		}
		if !approx(split.Unassigned, 4) {
			t.Errorf("Unassigned = %v, want 4", split.Unassigned)
		}
		if !approx(split.Total, 37) {
			t.Errorf("Total = %v, want 37", split.Total)
		}

		if got := testutil.ToFloat64(env.metrics.Undistributed.WithLabelValues("unassigned_item")); got != 4 {
			t.Errorf("unassigned metric = %v, want 4", got)
		}
	})

	t.Run("surcharge with nobody involved", func(t *testing.T) {
		resp, err := env.bills.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			Form: api.BillForm{
				Category: "food",
				Title:    "Nobody ate",
				Items:    []api.ItemInput{{Name: "Bread", Price: "4"}},
				Tip:      "2",
			},
		}))
		if err != nil {
			t.Fatalf("CalculateSplit failed: %v", err)
		}
		if len(resp.Msg.Split.Shares) != 0 {
			t.Errorf("expected no shares, got %+v", resp.Msg.Split.Shares)
		}
		if !approx(resp.Msg.Split.UndistributedSurcharge, 2) {
			t.Errorf("UndistributedSurcharge = %v, want 2", resp.Msg.Split.UndistributedSurcharge)
		}
	})

	t.Run("accommodation splits evenly", func(t *testing.T) {
		resp, err := env.bills.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{
			Form: api.BillForm{
				Category:     "accommodation",
				Title:        "Cabin",
				Price:        "300",
				CheckIn:      "2023-10-01",
				CheckOut:     "2023-10-04",
				Participants: []string{"me", "alice", "bob"},
			},
		}))
		if err != nil {
			t.Fatalf("CalculateSplit failed: %v", err)
		}
		for _, s := range resp.Msg.Split.Shares {
			if !approx(s.Total, 100) {
				t.Errorf("%s owes %v, want 100", s.Participant, s.Total)
			}
		}
	})

	t.Run("invalid form", func(t *testing.T) {
		tests := []struct {
			name string
			form api.BillForm
		}{
			{"unknown category", api.BillForm{Category: "travel", Title: "x"}},
			{"missing title", api.BillForm{Category: "food", Items: []api.ItemInput{{Name: "a", Price: "1"}}}},
			{"negative price", api.BillForm{Category: "food", Title: "x", Items: []api.ItemInput{{Name: "a", Price: "-1"}}}},
			{"sports without participants", api.BillForm{Category: "sports", Title: "x", Location: "Court",
				Items: []api.ItemInput{{Name: "Court", Price: "20"}}}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.bills.CalculateSplit(ctx, connect.NewRequest(&api.CalculateSplitRequest{Form: tt.form}))
				if code := connectCode(err); code != connect.CodeInvalidArgument {
					t.Errorf("expected InvalidArgument, got %v (%v)", code, err)
				}
			})
		}
	})
}

func TestCreateAndGetBill(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("rejects unassigned items", func(t *testing.T) {
		form := dinnerForm()
		form.Items = append(form.Items, api.ItemInput{Name: "Bread", Price: "4"})
		_, err := env.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{Form: form}))
		if code := connectCode(err); code != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v (%v)", code, err)
		}
	})

	created, err := env.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{Form: dinnerForm()}))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	if created.Msg.BillID == "" {
		t.Fatal("expected bill ID")
	}

	got, err := env.bills.GetBill(ctx, connect.NewRequest(&api.GetBillRequest{BillID: created.Msg.BillID}))
	if err != nil {
		t.Fatalf("GetBill failed: %v", err)
	}
	bill := got.Msg.Bill
	if bill.Title != "Dinner" || bill.PayerID != "me" || bill.Date != "2023-10-15" {
		t.Errorf("unexpected bill header: %+v", bill)
	}
	if len(bill.Split.Shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(bill.Split.Shares))
	}
	for _, s := range bill.Split.Shares {
		if !approx(s.Total, 10) || s.Paid {
			t.Errorf("share %+v, want 10 unpaid", s)
		}
	}

	t.Run("not found", func(t *testing.T) {
		_, err := env.bills.GetBill(ctx, connect.NewRequest(&api.GetBillRequest{BillID: "missing"}))
		if code := connectCode(err); code != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v (%v)", code, err)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		list, err := env.bills.ListBills(ctx, connect.NewRequest(&api.ListBillsRequest{Category: "food"}))
		if err != nil {
			t.Fatalf("ListBills failed: %v", err)
		}
		if len(list.Msg.Bills) != 1 || !approx(list.Msg.Bills[0].Total, 30) {
			t.Fatalf("unexpected list: %+v", list.Msg.Bills)
		}

		if _, err := env.bills.ListBills(ctx, connect.NewRequest(&api.ListBillsRequest{Category: "travel"})); connectCode(err) != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument for unknown category, got %v", err)
		}

		if _, err := env.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.Msg.BillID})); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}
		_, err = env.bills.DeleteBill(ctx, connect.NewRequest(&api.DeleteBillRequest{BillID: created.Msg.BillID}))
		if code := connectCode(err); code != connect.CodeNotFound {
			t.Errorf("expected NotFound on second delete, got %v", code)
		}
	})

	if got := testutil.ToFloat64(env.metrics.BillsSaved.WithLabelValues("food")); got != 1 {
		t.Errorf("bills saved metric = %v, want 1", got)
	}
}

func TestBalancesAndPaidShares(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	dinner, err := env.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{Form: dinnerForm()}))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	_, err = env.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{Form: api.BillForm{
		Category:     "sports",
		Title:        "Tennis",
		Location:     "Court 3",
		Date:         "2023-01-05",
		PayerID:      "alice",
		Items:        []api.ItemInput{{Name: "Court rental", Price: "20"}},
		Participants: []string{"me", "alice"},
	}}))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	balances := func() (map[string]api.MemberBalance, []api.Debt) {
		t.Helper()
		resp, err := env.bills.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		byName := make(map[string]api.MemberBalance)
		for _, b := range resp.Msg.Balances {
			byName[b.Participant] = b
		}
		return byName, resp.Msg.Debts
	}

	got, debts := balances()
	if !approx(got["me"].NetBalance, 10) || !approx(got["alice"].NetBalance, 0) || !approx(got["bob"].NetBalance, -10) {
		t.Errorf("unexpected balances: %+v", got)
	}
	if len(debts) != 1 || debts[0].From != "bob" || debts[0].To != "me" || !approx(debts[0].Amount, 10) {
		t.Errorf("unexpected debts: %+v", debts)
	}

	_, err = env.bills.MarkSharePaid(ctx, connect.NewRequest(&api.MarkSharePaidRequest{
		BillID: dinner.Msg.BillID, Participant: "bob", Paid: true,
	}))
	if err != nil {
		t.Fatalf("MarkSharePaid failed: %v", err)
	}

	got, debts = balances()
	for name, b := range got {
		if !approx(b.NetBalance, 0) {
			t.Errorf("%s net = %v, want 0", name, b.NetBalance)
		}
	}
	if len(debts) != 0 {
		t.Errorf("expected no debts, got %+v", debts)
	}

	_, err = env.bills.MarkSharePaid(ctx, connect.NewRequest(&api.MarkSharePaidRequest{
		BillID: dinner.Msg.BillID, Participant: "stranger", Paid: true,
	}))
	if code := connectCode(err); code != connect.CodeNotFound {
		t.Errorf("expected NotFound for unknown participant, got %v", code)
	}
}

func TestGetSpending(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	forms := []api.BillForm{
		dinnerForm(),
		{
			Category:     "sports",
			Title:        "Tennis",
			Location:     "Court 3",
			Date:         "2023-01-05",
			Items:        []api.ItemInput{{Name: "Court rental", Price: "20"}},
			Participants: []string{"me", "alice"},
		},
	}
	for _, f := range forms {
		if _, err := env.bills.CreateBill(ctx, connect.NewRequest(&api.CreateBillRequest{Form: f})); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
	}

	tests := []struct {
		period    string
		wantSince string
		wantSpent float64
		wantFood  float64
	}{
		{"", "2023-09-20", 30, 100},
		{"week", "2023-10-13", 30, 100},
		{"year", "2022-10-20", 50, 60},
	}
	for _, tt := range tests {
		t.Run("period "+tt.period, func(t *testing.T) {
			resp, err := env.bills.GetSpending(ctx, connect.NewRequest(&api.GetSpendingRequest{Period: tt.period}))
			if err != nil {
				t.Fatalf("GetSpending failed: %v", err)
			}
			if resp.Msg.Since != tt.wantSince || !approx(resp.Msg.TotalSpent, tt.wantSpent) {
				t.Errorf("since/spent = %s/%v, want %s/%v", resp.Msg.Since, resp.Msg.TotalSpent, tt.wantSince, tt.wantSpent)
			}
			if len(resp.Msg.Categories) != 4 {
				t.Fatalf("expected all 4 categories, got %d", len(resp.Msg.Categories))
			}
			if food := resp.Msg.Categories[0]; food.Category != "food" || !approx(food.Percentage, tt.wantFood) {
				t.Errorf("food = %+v, want %v%%", food, tt.wantFood)
			}
		})
	}

	_, err := env.bills.GetSpending(ctx, connect.NewRequest(&api.GetSpendingRequest{Period: "decade"}))
	if code := connectCode(err); code != connect.CodeInvalidArgument {
		t.Errorf("expected InvalidArgument for unknown period, got %v", code)
	}
}

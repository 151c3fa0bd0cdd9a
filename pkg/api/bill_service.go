package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// BillServiceName is the fully-qualified name of the BillService.
	BillServiceName = "splitbill.v1.BillService"

	BillServiceCalculateSplitProcedure = "/splitbill.v1.BillService/CalculateSplit"
	BillServiceCreateBillProcedure     = "/splitbill.v1.BillService/CreateBill"
	BillServiceGetBillProcedure        = "/splitbill.v1.BillService/GetBill"
	BillServiceListBillsProcedure      = "/splitbill.v1.BillService/ListBills"
	BillServiceDeleteBillProcedure     = "/splitbill.v1.BillService/DeleteBill"
	BillServiceMarkSharePaidProcedure  = "/splitbill.v1.BillService/MarkSharePaid"
	BillServiceGetSpendingProcedure    = "/splitbill.v1.BillService/GetSpending"
	BillServiceGetBalancesProcedure    = "/splitbill.v1.BillService/GetBalances"
)

// BillServiceHandler is implemented by the server side of BillService.
type BillServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
	MarkSharePaid(context.Context, *connect.Request[MarkSharePaidRequest]) (*connect.Response[MarkSharePaidResponse], error)
	GetSpending(context.Context, *connect.Request[GetSpendingRequest]) (*connect.Response[GetSpendingResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, WithJSON())
	mux := http.NewServeMux()
	mux.Handle(BillServiceCalculateSplitProcedure, connect.NewUnaryHandler(BillServiceCalculateSplitProcedure, svc.CalculateSplit, opts...))
	mux.Handle(BillServiceCreateBillProcedure, connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...))
	mux.Handle(BillServiceGetBillProcedure, connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...))
	mux.Handle(BillServiceListBillsProcedure, connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...))
	mux.Handle(BillServiceDeleteBillProcedure, connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...))
	mux.Handle(BillServiceMarkSharePaidProcedure, connect.NewUnaryHandler(BillServiceMarkSharePaidProcedure, svc.MarkSharePaid, opts...))
	mux.Handle(BillServiceGetSpendingProcedure, connect.NewUnaryHandler(BillServiceGetSpendingProcedure, svc.GetSpending, opts...))
	mux.Handle(BillServiceGetBalancesProcedure, connect.NewUnaryHandler(BillServiceGetBalancesProcedure, svc.GetBalances, opts...))
	return "/" + BillServiceName + "/", mux
}

// BillServiceClient is a client for BillService.
type BillServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	DeleteBill(context.Context, *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error)
	MarkSharePaid(context.Context, *connect.Request[MarkSharePaidRequest]) (*connect.Response[MarkSharePaidResponse], error)
	GetSpending(context.Context, *connect.Request[GetSpendingRequest]) (*connect.Response[GetSpendingResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewBillServiceClient constructs a client for BillService at baseURL,
// e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	opts = append(opts, WithJSONClient())
	return &billServiceClient{
		calculateSplit: connect.NewClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, baseURL+BillServiceCalculateSplitProcedure, opts...),
		createBill:     connect.NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:        connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:      connect.NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		deleteBill:     connect.NewClient[DeleteBillRequest, DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		markSharePaid:  connect.NewClient[MarkSharePaidRequest, MarkSharePaidResponse](httpClient, baseURL+BillServiceMarkSharePaidProcedure, opts...),
		getSpending:    connect.NewClient[GetSpendingRequest, GetSpendingResponse](httpClient, baseURL+BillServiceGetSpendingProcedure, opts...),
		getBalances:    connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+BillServiceGetBalancesProcedure, opts...),
	}
}

type billServiceClient struct {
	calculateSplit *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
	createBill     *connect.Client[CreateBillRequest, CreateBillResponse]
	getBill        *connect.Client[GetBillRequest, GetBillResponse]
	listBills      *connect.Client[ListBillsRequest, ListBillsResponse]
	deleteBill     *connect.Client[DeleteBillRequest, DeleteBillResponse]
	markSharePaid  *connect.Client[MarkSharePaidRequest, MarkSharePaidResponse]
	getSpending    *connect.Client[GetSpendingRequest, GetSpendingResponse]
	getBalances    *connect.Client[GetBalancesRequest, GetBalancesResponse]
}

func (c *billServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[DeleteBillRequest]) (*connect.Response[DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) MarkSharePaid(ctx context.Context, req *connect.Request[MarkSharePaidRequest]) (*connect.Response[MarkSharePaidResponse], error) {
	return c.markSharePaid.CallUnary(ctx, req)
}

func (c *billServiceClient) GetSpending(ctx context.Context, req *connect.Request[GetSpendingRequest]) (*connect.Response[GetSpendingResponse], error) {
	return c.getSpending.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

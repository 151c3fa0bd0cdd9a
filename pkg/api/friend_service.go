package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// FriendServiceName is the fully-qualified name of the FriendService.
	FriendServiceName = "splitbill.v1.FriendService"

	FriendServiceAddFriendProcedure    = "/splitbill.v1.FriendService/AddFriend"
	FriendServiceListFriendsProcedure  = "/splitbill.v1.FriendService/ListFriends"
	FriendServiceDeleteFriendProcedure = "/splitbill.v1.FriendService/DeleteFriend"
)

// FriendServiceHandler is implemented by the server side of FriendService.
type FriendServiceHandler interface {
	AddFriend(context.Context, *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error)
	ListFriends(context.Context, *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error)
	DeleteFriend(context.Context, *connect.Request[DeleteFriendRequest]) (*connect.Response[DeleteFriendResponse], error)
}

// NewFriendServiceHandler builds an HTTP handler for svc. It returns the path
// to mount the handler on.
func NewFriendServiceHandler(svc FriendServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, WithJSON())
	mux := http.NewServeMux()
	mux.Handle(FriendServiceAddFriendProcedure, connect.NewUnaryHandler(FriendServiceAddFriendProcedure, svc.AddFriend, opts...))
	mux.Handle(FriendServiceListFriendsProcedure, connect.NewUnaryHandler(FriendServiceListFriendsProcedure, svc.ListFriends, opts...))
	mux.Handle(FriendServiceDeleteFriendProcedure, connect.NewUnaryHandler(FriendServiceDeleteFriendProcedure, svc.DeleteFriend, opts...))
	return "/" + FriendServiceName + "/", mux
}

// FriendServiceClient is a client for FriendService.
type FriendServiceClient interface {
	AddFriend(context.Context, *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error)
	ListFriends(context.Context, *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error)
	DeleteFriend(context.Context, *connect.Request[DeleteFriendRequest]) (*connect.Response[DeleteFriendResponse], error)
}

// NewFriendServiceClient constructs a client for FriendService at baseURL.
func NewFriendServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FriendServiceClient {
	opts = append(opts, WithJSONClient())
	return &friendServiceClient{
		addFriend:    connect.NewClient[AddFriendRequest, AddFriendResponse](httpClient, baseURL+FriendServiceAddFriendProcedure, opts...),
		listFriends:  connect.NewClient[ListFriendsRequest, ListFriendsResponse](httpClient, baseURL+FriendServiceListFriendsProcedure, opts...),
		deleteFriend: connect.NewClient[DeleteFriendRequest, DeleteFriendResponse](httpClient, baseURL+FriendServiceDeleteFriendProcedure, opts...),
	}
}

type friendServiceClient struct {
	addFriend    *connect.Client[AddFriendRequest, AddFriendResponse]
	listFriends  *connect.Client[ListFriendsRequest, ListFriendsResponse]
	deleteFriend *connect.Client[DeleteFriendRequest, DeleteFriendResponse]
}

func (c *friendServiceClient) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error) {
	return c.addFriend.CallUnary(ctx, req)
}

func (c *friendServiceClient) ListFriends(ctx context.Context, req *connect.Request[ListFriendsRequest]) (*connect.Response[ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}

func (c *friendServiceClient) DeleteFriend(ctx context.Context, req *connect.Request[DeleteFriendRequest]) (*connect.Response[DeleteFriendResponse], error) {
	return c.deleteFriend.CallUnary(ctx, req)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/models"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

var _ api.FriendServiceHandler = (*FriendService)(nil)

// FriendService implements the Connect FriendService
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

func toAPIFriend(f *models.Friend) api.Friend {
	return api.Friend{
		ID:        f.ID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		CreatedAt: f.CreatedAt,
	}
}

// AddFriend adds someone to the directory. A friend with the same email or
// phone number already present is rejected.
func (s *FriendService) AddFriend(ctx context.Context, req *connect.Request[api.AddFriendRequest]) (*connect.Response[api.AddFriendResponse], error) {
	friend := &models.Friend{
		Name:  strings.TrimSpace(req.Msg.Name),
		Email: strings.TrimSpace(req.Msg.Email),
		Phone: strings.TrimSpace(req.Msg.Phone),
	}
	slog.Info("AddFriend request received", "name", friend.Name)

	if friend.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}
	if friend.Email != "" && !strings.Contains(friend.Email, "@") {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid email %q", friend.Email))
	}

	existing, err := s.store.FindFriendByContact(ctx, friend.Email, friend.Phone)
	if err != nil {
		slog.Error("AddFriend: contact lookup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if existing != nil {
		return nil, connect.NewError(connect.CodeAlreadyExists,
			fmt.Errorf("a friend with this email or phone number already exists: %s", existing.Name))
	}

	if err := s.store.CreateFriend(ctx, friend); err != nil {
		slog.Error("AddFriend failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Friend added", "friend_id", friend.ID)
	return connect.NewResponse(&api.AddFriendResponse{Friend: toAPIFriend(friend)}), nil
}

// ListFriends lists the directory, optionally filtered by a search query.
func (s *FriendService) ListFriends(ctx context.Context, req *connect.Request[api.ListFriendsRequest]) (*connect.Response[api.ListFriendsResponse], error) {
	friends, err := s.store.ListFriends(ctx, strings.TrimSpace(req.Msg.Query))
	if err != nil {
		slog.Error("ListFriends failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]api.Friend, len(friends))
	for i, f := range friends {
		out[i] = toAPIFriend(f)
	}
	return connect.NewResponse(&api.ListFriendsResponse{Friends: out}), nil
}

// DeleteFriend removes someone from the directory. Saved bills keep the id.
func (s *FriendService) DeleteFriend(ctx context.Context, req *connect.Request[api.DeleteFriendRequest]) (*connect.Response[api.DeleteFriendResponse], error) {
	if req.Msg.FriendID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("friend_id required"))
	}

	if err := s.store.DeleteFriend(ctx, req.Msg.FriendID); err != nil {
		slog.Error("DeleteFriend failed", "friend_id", req.Msg.FriendID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Friend deleted", "friend_id", req.Msg.FriendID)
	return connect.NewResponse(&api.DeleteFriendResponse{}), nil
}

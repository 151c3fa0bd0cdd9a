package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/pkg/api"
)

func TestFriendService(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	add := func(name, email, phone string) (*api.Friend, error) {
		resp, err := env.friends.AddFriend(ctx, connect.NewRequest(&api.AddFriendRequest{
			Name: name, Email: email, Phone: phone,
		}))
		if err != nil {
			return nil, err
		}
		return &resp.Msg.Friend, nil
	}

	sarah, err := add("  Sarah Davis ", "sarah@example.com", "+1 234 567 8902")
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if sarah.ID == "" || sarah.Name != "Sarah Davis" {
		t.Errorf("unexpected friend: %+v", sarah)
	}
	if _, err := add("Mike Johnson", "", ""); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	t.Run("rejects bad input", func(t *testing.T) {
		tests := []struct {
			name  string
			fname string
			email string
			phone string
			want  connect.Code
		}{
			{"blank name", "   ", "", "", connect.CodeInvalidArgument},
			{"bad email", "Bob", "bob-at-example", "", connect.CodeInvalidArgument},
			{"duplicate email", "Sarah D", "SARAH@example.com", "", connect.CodeAlreadyExists},
			{"duplicate phone", "Someone", "", "+1 234 567 8902", connect.CodeAlreadyExists},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := add(tt.fname, tt.email, tt.phone)
				if code := connectCode(err); code != tt.want {
					t.Errorf("expected %v, got %v (%v)", tt.want, code, err)
				}
			})
		}
	})

	t.Run("list and search", func(t *testing.T) {
		resp, err := env.friends.ListFriends(ctx, connect.NewRequest(&api.ListFriendsRequest{}))
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(resp.Msg.Friends) != 2 || resp.Msg.Friends[0].Name != "Mike Johnson" {
			t.Errorf("unexpected friends: %+v", resp.Msg.Friends)
		}

		resp, err = env.friends.ListFriends(ctx, connect.NewRequest(&api.ListFriendsRequest{Query: "sarah"}))
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if len(resp.Msg.Friends) != 1 || resp.Msg.Friends[0].ID != sarah.ID {
			t.Errorf("search returned %+v", resp.Msg.Friends)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if _, err := env.friends.DeleteFriend(ctx, connect.NewRequest(&api.DeleteFriendRequest{FriendID: sarah.ID})); err != nil {
			t.Fatalf("DeleteFriend failed: %v", err)
		}
		_, err := env.friends.DeleteFriend(ctx, connect.NewRequest(&api.DeleteFriendRequest{FriendID: sarah.ID}))
		if code := connectCode(err); code != connect.CodeNotFound {
			t.Errorf("expected NotFound, got %v", code)
		}
		_, err = env.friends.DeleteFriend(ctx, connect.NewRequest(&api.DeleteFriendRequest{}))
		if code := connectCode(err); code != connect.CodeInvalidArgument {
			t.Errorf("expected InvalidArgument, got %v", code)
		}
	})
}

package kafka

import (
	"context"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingSessions struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingSessions) SignOutUser(_ context.Context, userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return 1
}

func (r *recordingSessions) signedOut() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users...)
}

func TestIdentityEventHandler(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantCode codes.Code
		wantUser []string
	}{
		{
			name:     "signed out",
			value:    `{"pattern":"user.signed_out","data":{"user_id":"u1"}}`,
			wantCode: codes.OK,
			wantUser: []string{"u1"},
		},
		{
			name:     "other pattern",
			value:    `{"pattern":"user.signed_in","data":{"user_id":"u1"}}`,
			wantCode: codes.OK,
		},
		{
			name:     "missing user",
			value:    `{"pattern":"user.signed_out","data":{}}`,
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "malformed",
			value:    `{not json`,
			wantCode: codes.InvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &recordingSessions{}
			h := NewIdentityEventHandler(sessions)

			err := h.HandleMessage(context.Background(), kafka.Message{Value: []byte(tt.value)})

			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.Equal(t, tt.wantUser, sessions.signedOut())
		})
	}
}

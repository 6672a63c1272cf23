package service

import (
	"testing"

	"github.com/reshetovitsme/keyword-monitor/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildLink(t *testing.T) {
	tests := []struct {
		name   string
		chat   domain.ChatRef
		msgID  int64
		want   string
		wantOK bool
	}{
		{
			name:   "public handle",
			chat:   domain.ChatRef{ID: -1001111111111, Username: "abc", Kind: domain.ChatKindPublicChannel},
			msgID:  42,
			want:   "https://t.me/abc/42",
			wantOK: true,
		},
		{
			name:   "handle with at sign",
			chat:   domain.ChatRef{Username: "@abc", Kind: domain.ChatKindPublicChannel},
			msgID:  7,
			want:   "https://t.me/abc/7",
			wantOK: true,
		},
		{
			name:   "private supergroup",
			chat:   domain.ChatRef{ID: -1001234567890, Kind: domain.ChatKindPrivateSupergroup},
			msgID:  42,
			want:   "https://t.me/c/1234567890/42",
			wantOK: true,
		},
		{
			name:  "small group",
			chat:  domain.ChatRef{ID: -123456, Kind: domain.ChatKindSmallGroup},
			msgID: 42,
		},
		{
			name:  "id outside channel space",
			chat:  domain.ChatRef{ID: -123456, Kind: domain.ChatKindPrivateSupergroup},
			msgID: 42,
		},
		{
			name:  "missing message id",
			chat:  domain.ChatRef{Username: "abc", Kind: domain.ChatKindPublicChannel},
			msgID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BuildLink(tt.chat, tt.msgID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			if !ok {
				assert.Empty(t, got)
			}
		})
	}
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name           string
		serverVersion  int64
		clientVersion  *int64
		forceOverwrite bool
		want           bool
	}{
		{
			name:          "no client version proceeds unconditionally",
			serverVersion: 7,
			clientVersion: nil,
			want:          true,
		},
		{
			name:          "matching versions proceed",
			serverVersion: 3,
			clientVersion: int64Ptr(3),
			want:          true,
		},
		{
			name:          "stale client version is rejected",
			serverVersion: 3,
			clientVersion: int64Ptr(2),
			want:          false,
		},
		{
			name:          "client version ahead of server is rejected",
			serverVersion: 3,
			clientVersion: int64Ptr(5),
			want:          false,
		},
		{
			name:           "force overwrite bypasses the check",
			serverVersion:  3,
			clientVersion:  int64Ptr(1),
			forceOverwrite: true,
			want:           true,
		},
		{
			name:           "force overwrite with no client version proceeds",
			serverVersion:  3,
			clientVersion:  nil,
			forceOverwrite: true,
			want:           true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckVersion(tt.serverVersion, tt.clientVersion, tt.forceOverwrite)
			assert.Equal(t, tt.want, got)
		})
	}
}

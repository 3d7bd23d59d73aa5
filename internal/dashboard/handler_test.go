package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAchievement(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		target     string
		want       string
	}{
		{"quarter", "2500", "10000", "25"},
		{"over target", "12000", "10000", "120"},
		{"four place ratio", "250", "300", "83.33"},
		{"zero collection", "0", "10000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := achievement(decimal.RequireFromString(tt.collection), decimal.RequireFromString(tt.target))
			require.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestAchievementZeroTarget(t *testing.T) {
	require.True(t, achievement(decimal.RequireFromString("500"), decimal.Zero).IsZero())
	require.True(t, achievement(decimal.Zero, decimal.RequireFromString("-10")).IsZero())
}

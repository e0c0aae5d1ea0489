package catalog

import (
	"testing"

	"ai-imagegen-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		id          entity.PlanId
		wantOk      bool
		wantPrice   int64
		wantCredits int
	}{
		{entity.PlanBasic, true, 10, 100},
		{entity.PlanAdvanced, true, 50, 500},
		{entity.PlanBusiness, true, 250, 5000},
		{"basic", false, 0, 0},
		{"Enterprise", false, 0, 0},
		{"", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, ok := Lookup(tt.id)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantPrice, p.Price)
			assert.Equal(t, tt.wantCredits, p.CreditsGranted)
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	assert.Equal(t, entity.PlanBasic, all[0].Id)

	all[0].CreditsGranted = 1
	p, _ := Lookup(entity.PlanBasic)
	assert.Equal(t, 100, p.CreditsGranted)
}

func TestMinorUnits(t *testing.T) {
	p, _ := Lookup(entity.PlanAdvanced)
	assert.Equal(t, int64(5000), p.MinorUnits())
}

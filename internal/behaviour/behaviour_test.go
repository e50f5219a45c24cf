package behaviour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    Version
		wantErr bool
	}{
		{name: "absent defaults to legacy", raw: nil, want: Legacy},
		{name: "legacy tag", raw: "legacy", want: Legacy},
		{name: "empty string", raw: "", want: Legacy},
		{name: "number one", raw: float64(1), want: Numbered(1)},
		{name: "int two", raw: 2, want: Numbered(2)},
		{name: "numeric string", raw: "1", want: Numbered(1)},
		{name: "dotted whole version", raw: "2.0", want: Numbered(2)},
		{name: "fractional version", raw: 1.5, wantErr: true},
		{name: "zero", raw: float64(0), wantErr: true},
		{name: "too new", raw: float64(LatestVersion + 1), wantErr: true},
		{name: "garbage", raw: "banana", wantErr: true},
		{name: "bool", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVersion(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "legacy", Legacy.String())
	assert.Equal(t, "2", Numbered(2).String())
	assert.Equal(t, "legacy", Legacy.RecordValue())
	assert.InDelta(t, 1.0, Numbered(1).RecordValue(), 0)
	assert.Len(t, AllVersions(), LatestVersion+1)
}

func TestConstructFlags(t *testing.T) {
	legacy := ConstructFlags(Legacy)
	v1 := ConstructFlags(Numbered(1))
	v2 := ConstructFlags(Numbered(2))

	assert.True(t, legacy.CarbonCoopAppliancesCooking.TreatMonthlyGainAsPower)
	assert.False(t, v1.CarbonCoopAppliancesCooking.TreatMonthlyGainAsPower)

	assert.False(t, legacy.Generation.CountSavingsUsingOnsiteFraction)
	assert.True(t, v1.Generation.CountSavingsUsingOnsiteFraction)
	assert.True(t, v1.CurrentEnergy.CalculateSavingsIncorporatingOnsiteUse)

	assert.False(t, v1.Lighting.UseOneIndexedMonthInSeasonalVariation)
	assert.True(t, v2.Lighting.UseOneIndexedMonthInSeasonalVariation)
	assert.True(t, v2.Appliances.UseOneIndexedMonthInSeasonalVariation)
	assert.True(t, v2.WaterCommon.SkipDistributionLossForInstantaneous)

	for _, v := range AllVersions() {
		assert.True(t, ConstructFlags(v).FansAndPumps.WarmAirSystemFanGainAlwaysZero,
			"warm air fan gain stays broken in %s", v)
	}

	assert.Equal(t, legacy, ConstructFlags(Legacy), "construction must be pure")
}

func TestDescribe(t *testing.T) {
	descriptions := Describe(ConstructFlags(Numbered(2)))
	require.NotEmpty(t, descriptions)

	seen := map[string]bool{}
	for _, d := range descriptions {
		key := d.Group + "." + d.Name
		assert.False(t, seen[key], "duplicate flag %s", key)
		seen[key] = true
		assert.Contains(t, []Severity{SevereBug, MinorBug, MinorImprovement}, d.Severity)
	}
}

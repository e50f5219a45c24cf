package behaviour

// Severity classifies what a flag reproduces or corrects.
type Severity string

// Flag severities.
const (
	SevereBug        Severity = "severe bug"
	MinorBug         Severity = "minor bug"
	MinorImprovement Severity = "minor improvement"
)

// CarbonCoopAppliancesCookingFlags govern the carbon co-op appliance and cooking lists.
type CarbonCoopAppliancesCookingFlags struct {
	// TreatMonthlyGainAsPower uses a monthly kWh figure directly as a heat gain in
	// watts instead of converting it. Severe bug.
	TreatMonthlyGainAsPower bool

	// UseFuelInputForFuelFraction splits fuel fractions by fuel input rather than
	// by energy demand. Minor improvement.
	UseFuelInputForFuelFraction bool

	// UseWeightedMonthsForEnergyDemand spreads annual demand by days per month
	// instead of twelve equal parts. Minor improvement.
	UseWeightedMonthsForEnergyDemand bool
}

// CurrentEnergyFlags govern the bill-based current energy reconciliation.
type CurrentEnergyFlags struct {
	// CalculateSavingsIncorporatingOnsiteUse counts only the generation used on
	// site as a bill saving. Without it every generated kWh is counted. Severe bug.
	CalculateSavingsIncorporatingOnsiteUse bool
}

// GenerationFlags govern on-site generation savings.
type GenerationFlags struct {
	// CountSavingsUsingOnsiteFraction values only the on-site fraction of
	// generation at the import price. Without it exported energy is also counted
	// as a saving. Severe bug.
	CountSavingsUsingOnsiteFraction bool
}

// SeasonalVariationFlags govern the cosine seasonal profile of SAP lighting and appliances.
type SeasonalVariationFlags struct {
	// UseOneIndexedMonthInSeasonalVariation evaluates the seasonal cosine with
	// January as month 1. Without it the profile is shifted by one month. Minor bug.
	UseOneIndexedMonthInSeasonalVariation bool
}

// WaterCommonFlags govern hot water demand.
type WaterCommonFlags struct {
	// SkipDistributionLossForInstantaneous omits the distribution loss for
	// instantaneous point-of-use heaters. Minor bug.
	SkipDistributionLossForInstantaneous bool
}

// FansAndPumpsFlags govern the fans and pumps internal gains.
type FansAndPumpsFlags struct {
	// WarmAirSystemFanGainAlwaysZero drops the warm air heating fan gain. Severe
	// bug, retained in every version until a product decision retires it.
	WarmAirSystemFanGainAlwaysZero bool
}

// Flags is the immutable set of behaviour switches for one engine run.
type Flags struct {
	CarbonCoopAppliancesCooking CarbonCoopAppliancesCookingFlags
	CurrentEnergy               CurrentEnergyFlags
	Generation                  GenerationFlags
	Lighting                    SeasonalVariationFlags
	Appliances                  SeasonalVariationFlags
	WaterCommon                 WaterCommonFlags
	FansAndPumps                FansAndPumpsFlags
}

// ConstructFlags returns the flags for version v. Unknown numbered versions
// receive the latest behaviour.
func ConstructFlags(v Version) Flags {
	if v.IsLegacy() {
		return Flags{
			CarbonCoopAppliancesCooking: CarbonCoopAppliancesCookingFlags{
				TreatMonthlyGainAsPower: true,
			},
			FansAndPumps: FansAndPumpsFlags{WarmAirSystemFanGainAlwaysZero: true},
		}
	}

	flags := Flags{
		CarbonCoopAppliancesCooking: CarbonCoopAppliancesCookingFlags{
			TreatMonthlyGainAsPower:          false,
			UseFuelInputForFuelFraction:      true,
			UseWeightedMonthsForEnergyDemand: true,
		},
		CurrentEnergy: CurrentEnergyFlags{CalculateSavingsIncorporatingOnsiteUse: true},
		Generation:    GenerationFlags{CountSavingsUsingOnsiteFraction: true},
		FansAndPumps:  FansAndPumpsFlags{WarmAirSystemFanGainAlwaysZero: true},
	}

	if v.Number() >= 2 {
		flags.Lighting.UseOneIndexedMonthInSeasonalVariation = true
		flags.Appliances.UseOneIndexedMonthInSeasonalVariation = true
		flags.WaterCommon.SkipDistributionLossForInstantaneous = true
	}

	return flags
}

// FlagDescription describes one flag for display.
type FlagDescription struct {
	Group    string   `json:"group"`
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Value    bool     `json:"value"`
}

// Describe lists every flag in f with its documented severity.
func Describe(f Flags) []FlagDescription {
	return []FlagDescription{
		{"carbonCoopAppliancesCooking", "treatMonthlyGainAsPower", SevereBug,
			f.CarbonCoopAppliancesCooking.TreatMonthlyGainAsPower},
		{"carbonCoopAppliancesCooking", "useFuelInputForFuelFraction", MinorImprovement,
			f.CarbonCoopAppliancesCooking.UseFuelInputForFuelFraction},
		{"carbonCoopAppliancesCooking", "useWeightedMonthsForEnergyDemand", MinorImprovement,
			f.CarbonCoopAppliancesCooking.UseWeightedMonthsForEnergyDemand},
		{"currentEnergy", "calculateSavingsIncorporatingOnsiteUse", SevereBug,
			f.CurrentEnergy.CalculateSavingsIncorporatingOnsiteUse},
		{"generation", "countSavingsUsingOnsiteFraction", SevereBug,
			f.Generation.CountSavingsUsingOnsiteFraction},
		{"lighting", "useOneIndexedMonthInSeasonalVariation", MinorBug,
			f.Lighting.UseOneIndexedMonthInSeasonalVariation},
		{"appliances", "useOneIndexedMonthInSeasonalVariation", MinorBug,
			f.Appliances.UseOneIndexedMonthInSeasonalVariation},
		{"waterCommon", "skipDistributionLossForInstantaneous", MinorBug,
			f.WaterCommon.SkipDistributionLossForInstantaneous},
		{"fansAndPumps", "warmAirSystemFanGainAlwaysZero", SevereBug,
			f.FansAndPumps.WarmAirSystemFanGainAlwaysZero},
	}
}

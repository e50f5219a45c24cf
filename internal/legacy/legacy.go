// Package legacy runs the second-stage monthly energy balance over a scenario
// record the model modules have already written into: internal gains, mean
// internal temperature, space heating demand, heating system fuel use, fuel
// totals and the SAP rating.
//
// The pipeline reads the record the way the original calculation did, so it
// tolerates missing fields by reading them as zero. Only structural problems
// such as a heating system naming an unknown fuel are returned as errors.
package legacy

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/logging"
	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
)

const tracerName = "github.com/carboncoop/homeenergy/internal/legacy"

// pipeline is the state shared by the steps of one run.
type pipeline struct {
	rec   scenario.Record
	flags behaviour.Flags
	fuels *model.Fuels

	region    datasets.Region
	tfa       float64
	volume    float64
	occupancy float64
	tmp       float64

	systems []heatingSystem

	// Set by the temperature step.
	heatLoss     model.Monthly
	gains        model.Monthly
	internalTemp model.Monthly

	// Set by the space heating step, in kWh.
	spaceHeating model.Monthly
	spaceCooling model.Monthly
}

type step struct {
	name string
	run  func(*pipeline) error
}

//nolint:gochecknoglobals // Fixed step order.
var steps = []step{
	{"current-energy", (*pipeline).currentEnergy},
	{"gains", (*pipeline).internalGains},
	{"temperature", (*pipeline).temperature},
	{"space-heating", (*pipeline).spaceHeatingDemand},
	{"heating-systems", (*pipeline).heatingSystems},
	{"fuel-totals", (*pipeline).fuelTotals},
	{"sap-rating", (*pipeline).sapRating},
}

// Run executes every step in order over rec. The record must already hold
// the outputs of (*model.CombinedModules).MutateLegacyData, including the
// model handle.
func Run(ctx context.Context, rec scenario.Record, flags behaviour.Flags) error {
	logger := logging.FromContext(ctx).With().
		Str("component", "legacy").
		Str("operation", "Run").
		Logger()

	p, err := newPipeline(rec, flags)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(tracerName)
	for _, s := range steps {
		_, span := tracer.Start(ctx, "legacy."+s.name)
		err = s.run(p)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			logger.Debug().Ctx(ctx).Str("step", s.name).Err(err).Msg("legacy step failed")
			return err
		}
		span.SetAttributes(attribute.Float64("tfa", p.tfa))
		span.End()
		logger.Debug().Ctx(ctx).Str("step", s.name).Msg("legacy step complete")
	}
	return nil
}

func newPipeline(rec scenario.Record, flags behaviour.Flags) (*pipeline, error) {
	handle, ok := model.Handle(rec)
	if !ok {
		return nil, result.NewModelError("record has no model handle", nil)
	}
	cm, err := handle.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("model handle holds an error: %w", err)
	}

	p := &pipeline{
		rec:       rec,
		flags:     flags,
		fuels:     cm.Fuels,
		region:    datasets.Region(scenario.ToInt(rec["region"], 0)),
		tfa:       rec.Float("TFA"),
		volume:    rec.Float("volume"),
		occupancy: rec.Float("occupancy"),
		tmp:       rec.Float("TMP"),
	}
	p.systems = parseHeatingSystems(rec)
	return p, nil
}

// monthlyCategories reads every monthly array under section, keyed by name.
func (p *pipeline) monthlyCategories(section string) ([]string, map[string]model.Monthly) {
	sub := p.rec.Sub(section)
	names := make([]string, 0, len(sub))
	for name := range sub {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]model.Monthly, len(names))
	for _, name := range names {
		values[name] = model.Monthly(sub.Monthly(name))
	}
	return names, values
}

// sumCategories adds the categories in name order so repeated runs give
// identical totals.
func sumCategories(names []string, values map[string]model.Monthly) model.Monthly {
	var total model.Monthly
	for _, name := range names {
		total = total.Add(values[name])
	}
	return total
}

func externalTemperatures(r datasets.Region) model.Monthly {
	return model.MonthlyOf(func(m model.Month) float64 {
		return datasets.ExternalTemperature(r, m.Index())
	})
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// kwhFactor converts a mean power in W to energy over month m in kWh.
func kwhFactor(m model.Month) float64 {
	return 0.024 * m.Days()
}

func (p *pipeline) currentEnergy() error {
	current := p.rec.Sub("currentenergy")
	if current == nil {
		return nil
	}
	use := current.Float("enduse_annual_kwh")
	current.Set(safeDiv(use, p.tfa), "energyuse_per_m2")
	current.Set(safeDiv(current.Float("annual_co2"), p.tfa), "co2_per_m2")
	current.Set(safeDiv(current.Float("primaryenergy_annual_kwh"), p.tfa), "primaryenergy_per_m2")
	current.Set(safeDiv(use, model.DaysInYear*p.occupancy), "kwhdpp")
	return nil
}

// Package engine runs the complete home energy calculation for one scenario
// record and derives the fabric energy efficiency from a nested run.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/carboncoop/homeenergy/internal/behaviour"
	"github.com/carboncoop/homeenergy/internal/bridge"
	"github.com/carboncoop/homeenergy/internal/datasets"
	"github.com/carboncoop/homeenergy/internal/legacy"
	"github.com/carboncoop/homeenergy/internal/logging"
	"github.com/carboncoop/homeenergy/internal/model"
	"github.com/carboncoop/homeenergy/internal/result"
	"github.com/carboncoop/homeenergy/internal/scenario"
	"github.com/carboncoop/homeenergy/internal/schema"
)

const tracerName = "github.com/carboncoop/homeenergy/internal/engine"

// VersionKey is the record field selecting the behaviour version.
const VersionKey = "modelBehaviourVersion"

// FEEKey is the record field holding the fabric energy efficiency in kWh/m²/yr.
const FEEKey = "fabric_energy_efficiency"

// ErrNotIdempotent is returned by CheckIdempotent when a second run changes
// the record.
var ErrNotIdempotent = errors.New("scenario is not idempotent")

// Engine calculates scenario records. The zero value is not usable; call New.
type Engine struct {
	defaultVersion behaviour.Version
	computeFEE     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultVersion sets the behaviour version used when a record has no
// modelBehaviourVersion field.
func WithDefaultVersion(v behaviour.Version) Option {
	return func(e *Engine) { e.defaultVersion = v }
}

// WithFEE enables or disables the fabric energy efficiency run.
func WithFEE(enabled bool) Option {
	return func(e *Engine) { e.computeFEE = enabled }
}

// New returns an Engine that defaults to legacy behaviour and computes FEE.
func New(opts ...Option) *Engine {
	e := &Engine{defaultVersion: behaviour.Legacy, computeFEE: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run calculates rec in place with the default engine and returns it.
func Run(ctx context.Context, rec scenario.Record) scenario.Record {
	return New().Run(ctx, rec)
}

// Run calculates rec in place and returns it. A nil record is replaced by an
// empty one.
//
// Failures never propagate as errors. The error is stored as the model handle
// (see Err), the pipeline outputs are reset and a warning is logged, so a
// batch can carry on with the next scenario.
func (e *Engine) Run(ctx context.Context, rec scenario.Record) scenario.Record {
	if rec == nil {
		rec = scenario.New()
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.Run")
	defer span.End()

	log := logging.FromContext(ctx).With().
		Str("component", "engine").
		Str("operation", "Run").
		Logger()
	start := time.Now()

	if err := e.calculate(ctx, rec); err != nil {
		markFailed(rec, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Ctx(ctx).Err(err).Msg("scenario calculation failed")
		return rec
	}

	if e.computeFEE {
		e.fabricEnergyEfficiency(ctx, rec)
	}

	span.SetAttributes(attribute.Float64("sap.rating", rec.Float("SAP", "rating")))
	log.Debug().Ctx(ctx).
		Float64("sap_rating", rec.Float("SAP", "rating")).
		Dur("duration", time.Since(start)).
		Msg("scenario calculated")
	return rec
}

// calculate runs every stage up to and including the legacy pipeline.
func (e *Engine) calculate(ctx context.Context, rec scenario.Record) error {
	log := logging.FromContext(ctx).With().Str("component", "engine").Logger()

	if err := schema.Validate(rec); err != nil {
		return err
	}
	scenario.ApplyDefaults(rec)

	version, err := e.version(rec)
	if err != nil {
		return result.NewModelError(err.Error(), map[string]any{"fields": []string{VersionKey}})
	}
	flags := behaviour.ConstructFlags(version)
	log.Debug().Ctx(ctx).Str("behaviour_version", version.String()).Msg("behaviour flags constructed")

	inputs, err := bridge.Extract(rec).Unwrap()
	if err != nil {
		return err
	}
	cm, err := model.NewCombinedModules(inputs, flags)
	if err != nil {
		return err
	}
	cm.MutateLegacyData(rec)
	log.Debug().Ctx(ctx).Msg("model outputs written")

	return legacy.Run(ctx, rec, flags)
}

func (e *Engine) version(rec scenario.Record) (behaviour.Version, error) {
	raw, ok := rec.Get(VersionKey)
	if !ok || raw == nil {
		return e.defaultVersion, nil
	}
	return behaviour.ParseVersion(raw)
}

// Err returns the error stored by a failed Run, or nil.
func Err(rec scenario.Record) error {
	handle, ok := model.Handle(rec)
	if !ok {
		return nil
	}
	return handle.Err()
}

// resetOutputs are the pipeline totals a failed run zeroes, so nothing from an
// earlier run of the same record survives.
//
//nolint:gochecknoglobals // Fixed list.
var resetOutputs = []string{
	"space_heating_demand_m2",
	"energy_use",
	"annualco2",
	"primary_energy_use",
	"total_cost",
	"total_income",
	"net_cost",
	"kwhdpp",
	"primary_energy_use_m2",
	"kgco2perm2",
}

// markFailed stores err as the model handle and resets the pipeline outputs.
func markFailed(rec scenario.Record, err error) {
	rec.Set(result.Err[*model.CombinedModules](err), scenario.ModelKey)
	for _, key := range resetOutputs {
		rec.Set(0.0, key)
	}
	rec.Set(map[string]any{}, "fuel_totals")
	rec.Set(map[string]any{"rating": 0.0}, "SAP")
	rec.Delete(FEEKey)
}

// fabricEnergyEfficiency reruns a clone of rec under the standard occupancy,
// ventilation and heating profile and records its space heating and cooling
// demand per m². A failed nested run records NaN.
func (e *Engine) fabricEnergyEfficiency(ctx context.Context, rec scenario.Record) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "engine.FEE")
	defer span.End()

	standard := standardProfile(rec)
	nested := &Engine{defaultVersion: e.defaultVersion}
	if err := nested.calculate(ctx, standard); err != nil {
		span.RecordError(err)
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Msg("fabric energy efficiency run failed")
		rec.Set(math.NaN(), FEEKey)
		return
	}

	tfa := standard.Float("TFA")
	fee := 0.0
	if tfa > 0 {
		heating := standard.Float("space_heating", "annual_heating_demand")
		cooling := standard.Float("space_heating", "annual_cooling_demand")
		fee = (heating + cooling) / tfa
	}
	rec.Set(fee, FEEKey)
}

// Standard profile constants for the fabric energy efficiency run.
const (
	standardFuel       = datasets.MainsGas
	standardEfficiency = 0.9
	standardTarget     = 21.0
)

// standardIntermittentFans is the extract fan count for a floor area.
func standardIntermittentFans(tfa float64) float64 {
	switch {
	case tfa <= 70:
		return 2
	case tfa <= 100:
		return 3
	default:
		return 4
	}
}

// standardProfile returns a clone of rec whose occupancy, ventilation,
// heating and lighting inputs are replaced with the standard assumptions.
func standardProfile(rec scenario.Record) scenario.Record {
	out := scenario.Clone(rec)
	out.Delete(FEEKey)

	out.Set(0.0, "use_custom_occupancy")

	out.Set("NV", "ventilation", "ventilation_type")
	out.Set(standardIntermittentFans(rec.Float("TFA")), "ventilation", "number_of_intermittentfans")
	out.Set(0.0, "ventilation", "number_of_chimneys")
	out.Set(0.0, "ventilation", "number_of_openflues")

	out.Set([]any{
		map[string]any{
			"id":                        1.0,
			"fuel":                      standardFuel,
			"provides":                  "heating_and_water",
			"main_space_heating_system": "mainHS1",
			"fraction_space":            1.0,
			"fraction_water_heating":    1.0,
			"efficiency":                standardEfficiency,
			"heating_controls":          2.0,
			"responsiveness":            1.0,
		},
	}, "heating_systems")

	out.Set(standardTarget, "temperature", "target")
	out.Set(0.0, "space_heating", "heating_off_summer")

	out.Set("SAP2012", "LAC_calculation_type")
	out.Set(out.Float("LAC", "L"), "LAC", "LLE")
	return out
}

// CheckIdempotent runs a clone of rec twice and reports whether the second
// run left the normalized record unchanged.
func CheckIdempotent(ctx context.Context, rec scenario.Record) error {
	return New().CheckIdempotent(ctx, rec)
}

// CheckIdempotent runs a clone of rec twice and reports whether the second
// run left the normalized record unchanged.
func (e *Engine) CheckIdempotent(ctx context.Context, rec scenario.Record) error {
	first := e.Run(ctx, scenario.Clone(rec))
	if err := Err(first); err != nil {
		return fmt.Errorf("first run: %w", err)
	}
	second := e.Run(ctx, scenario.Clone(first))
	if err := Err(second); err != nil {
		return fmt.Errorf("second run: %w", err)
	}

	if diff := scenario.Diff(first, second); len(diff) > 0 {
		return fmt.Errorf("%w: %d fields changed, first %s", ErrNotIdempotent, len(diff), diff[0])
	}
	return nil
}

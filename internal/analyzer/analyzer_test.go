package analyzer

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/penwyp/go-counter-recovery/internal/core/costing"
	"github.com/penwyp/go-counter-recovery/internal/core/model"
	"github.com/penwyp/go-counter-recovery/internal/core/pricing"
	"github.com/penwyp/go-counter-recovery/internal/data/aggregator"
	"github.com/penwyp/go-counter-recovery/internal/data/parser"
	"github.com/penwyp/go-counter-recovery/internal/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(dir string) *Analyzer {
	return New(&Config{
		DataDir:      dir,
		OutputFormat: model.OutputTable,
		Rates:        pricing.DefaultRates(),
	})
}

func TestBuildTwoLabScenario(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 3)
	require.NoError(t, err)
	_, err = gen.AddSamples("02", "LabB", 2)
	require.NoError(t, err)

	report, err := newAnalyzer(gen.BaseDir()).Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"01", "02"}, report.Days)
	assert.Equal(t, []string{"LabA", "LabB"}, report.Labs)
	assert.Equal(t, 3.0, report.Counts.Total("LabA"))
	assert.Equal(t, 2.0, report.Counts.Total("LabB"))
	assert.Equal(t, []float64{1, 0}, report.UsageDays.Row(0))
	assert.Equal(t, []float64{0, 1}, report.UsageDays.Row(1))
	assert.InDelta(t, 10.68, report.StartupShutdown.Row(0)[0], 1e-9)
	assert.InDelta(t, 10.68, report.StartupShutdown.Row(1)[1], 1e-9)

	require.Len(t, report.Costs.Labs, 2)
	assert.Equal(t, 17.72, report.Costs.Labs[0].Rounded().Total)
}

func TestBuildEmptyDay(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 2)
	require.NoError(t, err)
	require.NoError(t, gen.AddDay("02"))

	report, err := newAnalyzer(gen.BaseDir()).Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"01", "02"}, report.Days)
	assert.Equal(t, []float64{0}, report.Counts.Row(1))
	assert.Equal(t, []float64{0}, report.StartupShutdown.Row(1))
	assert.Equal(t, 1, report.Costs.StartupShutdowns)
}

func TestBuildSingleLabBearsEverything(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 1)
	require.NoError(t, err)
	_, err = gen.AddSamples("02", "LabA", 4)
	require.NoError(t, err)
	rates := pricing.DefaultRates()

	report, err := newAnalyzer(gen.BaseDir()).Build()
	require.NoError(t, err)

	require.Len(t, report.Costs.Labs, 1)
	c := report.Costs.Labs[0]
	assert.InDelta(t, 2*rates.StartupShutdown(), c.StartupShutdown, 1e-9)
	assert.InDelta(t, rates.QCCost()+rates.BleachCost(), c.QC+c.Bleach, 1e-9)
	assert.InDelta(t, 5*rates.CostPerCount+2*rates.StartupShutdown()+rates.QCCost()+rates.BleachCost(), c.Total, 1e-9)
}

func TestBuildEmptyMonth(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	require.NoError(t, gen.AddDay("01"))

	_, err := newAnalyzer(gen.BaseDir()).Build()

	assert.True(t, errors.Is(err, costing.ErrNoLabs))
}

func TestBuildShortSampleIsFatal(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 1)
	require.NoError(t, err)
	_, err = gen.AddTruncatedSample("01")
	require.NoError(t, err)

	_, err = newAnalyzer(gen.BaseDir()).Build()

	assert.True(t, errors.Is(err, parser.ErrShortSampleFile))
}

func TestBuildSampleOutsideDaysStillDefinesLab(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 1)
	require.NoError(t, err)
	_, err = gen.AddFile("S09999.CSV", fixtures.SampleContent(9999, "", "LabStray"))
	require.NoError(t, err)

	report, err := newAnalyzer(gen.BaseDir()).Build()
	require.NoError(t, err)

	// The lab is part of the month and shares QC costs, but has no daily counts
	assert.Equal(t, []string{"LabA", "LabStray"}, report.Labs)
	assert.Equal(t, 0.0, report.Counts.Total("LabStray"))
	assert.InDelta(t, pricing.DefaultRates().QCCost()/2, report.Costs.Labs[1].QC, 1e-9)
}

func TestBuildMissingDirectory(t *testing.T) {
	_, err := newAnalyzer("/path/that/does/not/exist").Build()

	assert.Error(t, err)
	assert.False(t, errors.Is(err, aggregator.ErrUnknownLab))
}

func TestRunWritesReport(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 3)
	require.NoError(t, err)
	_, err = gen.AddSamples("02", "LabB", 2)
	require.NoError(t, err)

	for _, output := range []string{model.OutputTable, model.OutputJSON, model.OutputCSV} {
		t.Run(output, func(t *testing.T) {
			var buf bytes.Buffer
			a := New(&Config{DataDir: gen.BaseDir(), OutputFormat: output, Rates: pricing.DefaultRates()})

			require.NoError(t, a.Run(&buf))
			assert.Contains(t, buf.String(), "17.72")
		})
	}
}

func TestBuildReusesLabsAcrossRuns(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 3)
	require.NoError(t, err)
	a := newAnalyzer(gen.BaseDir())

	_, err = a.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, a.labs.Len())

	paths, err := gen.AddSamples("02", "LabB", 1)
	require.NoError(t, err)
	report, err := a.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"LabA", "LabB"}, report.Labs)
	assert.Equal(t, 4, a.labs.Len())

	// Removed samples leave the cache and the report
	require.NoError(t, os.Remove(paths[0]))
	report, err = a.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"LabA"}, report.Labs)
	assert.Equal(t, 3, a.labs.Len())
}

func TestBuildBillsEmptyOperatorFieldAsLab(t *testing.T) {
	gen := fixtures.NewMonthGenerator(t.TempDir())
	_, err := gen.AddSamples("01", "LabA", 3)
	require.NoError(t, err)
	_, err = gen.AddSamples("01", "", 1)
	require.NoError(t, err)

	report, err := newAnalyzer(gen.BaseDir()).Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"", "LabA"}, report.Labs)
	assert.Equal(t, 1.0, report.Counts.Total(""))
	assert.InDelta(t, 10.68/2, report.StartupShutdown.Row(0)[0], 1e-9)
}

package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideafactory/ideas/internal/model"
)

func newCriteriaFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	criteriaFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestCriteriaFromFlags(t *testing.T) {
	fs := newCriteriaFlags(t, "--category", "agriculture", "--market", "9-10", "-q", "solar")
	c, err := criteriaFromFlags(fs, []string{"dryers"})
	require.NoError(t, err)
	assert.Equal(t, model.FilterCriteria{
		SearchTerm:  "solar dryers",
		Category:    "agriculture",
		MarketScore: "9-10",
	}, c)
}

func TestCriteriaFromFlagsRejectsMalformedBuckets(t *testing.T) {
	fs := newCriteriaFlags(t, "--investment", "lots", "--timing", "5-x")
	c, err := criteriaFromFlags(fs, nil)
	require.Error(t, err)
	assert.True(t, c.IsEmpty(), "no criteria escape a failed validation")

	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"investmentRange", "timingScore"}, fields)
}

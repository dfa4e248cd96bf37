package rates

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/ratesheet-backend/internal/errs"
	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

func samplePatch() RatesPatch {
	prime := 6.95
	return RatesPatch{
		Terms: map[models.Term]TermPatch{
			models.FiveYrFixed: {
				models.SlotUnder65:          {Value: 4.29, Lender: "MCAP"},
				models.SlotRefinanceUnder25: {Value: 4.49, Lender: "RFA"},
			},
			models.FiveYrVariable: {
				models.SlotUnder65:      {Value: -0.9, Lender: models.DefaultLender},
				models.SlotRentalOver25: {Value: 0.25, Lender: "Equitable"},
			},
		},
		Prime: &prime,
	}
}

func pathStrings(p Patch) []string {
	var out []string
	for _, f := range p.Paths() {
		out = append(out, f.String())
	}
	return out
}

func TestFieldPathRendering(t *testing.T) {
	assert.Equal(t, "ON.fiveYrFixed.under65", EntryPath(models.ON, models.FiveYrFixed, models.SlotUnder65).String())
	assert.Equal(t, "BC.threeYrVariable.refinance.over25", EntryPath(models.BC, models.ThreeYrVariable, models.SlotRefinanceOver25).String())
	assert.Equal(t, "QC.fourYrFixed.rental.under25", EntryPath(models.QC, models.FourYrFixed, models.SlotRentalUnder25).String())
	assert.Equal(t, "NU.prime", ProvincePrimePath(models.NU).String())
	assert.Equal(t, "prime", PrimePath().String())

	assert.False(t, EntryPath(0, models.FiveYrFixed, models.SlotUnder65).Valid())
	assert.Equal(t, 13*5*9+13+1, len(pathTable))
}

func TestUpdateOne(t *testing.T) {
	patch, err := UpdateOne(models.ON, samplePatch())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ON.fiveYrFixed.refinance.under25",
		"ON.fiveYrFixed.under65",
		"ON.fiveYrVariable.rental.over25",
		"ON.fiveYrVariable.under65",
		"ON.prime",
	}, pathStrings(patch))
	assert.Equal(t, models.RateEntry{Value: 4.29, Lender: "MCAP"}, patch[EntryPath(models.ON, models.FiveYrFixed, models.SlotUnder65)])
	assert.Equal(t, 6.95, patch[ProvincePrimePath(models.ON)])
	assert.Equal(t, []models.Province{models.ON}, patch.Provinces())
}

func TestUpdateOne_Rejects(t *testing.T) {
	_, err := UpdateOne(0, samplePatch())
	assert.True(t, errs.IsValidation(err))

	_, err = UpdateOne(models.ON, RatesPatch{})
	assert.True(t, errs.IsValidation(err))
}

func TestUpdateMany(t *testing.T) {
	patch, err := UpdateMany(models.ON, []models.Province{models.AB, models.BC}, samplePatch())
	require.NoError(t, err)

	assert.Equal(t, []models.Province{models.AB, models.BC, models.ON}, patch.Provinces())
	assert.Len(t, patch, 3*5)
	for _, p := range []models.Province{models.AB, models.BC, models.ON} {
		assert.Equal(t,
			models.RateEntry{Value: 0.25, Lender: "Equitable"},
			patch[EntryPath(p, models.FiveYrVariable, models.SlotRentalOver25)], p.String())
	}
}

func TestUpdateMany_NoTargets(t *testing.T) {
	_, err := UpdateMany(models.ON, nil, samplePatch())
	var nt *errs.NoTargetsError
	assert.True(t, errors.As(err, &nt))

	_, err = UpdateMany(models.ON, []models.Province{}, samplePatch())
	assert.True(t, errors.As(err, &nt))
}

func TestUpdateMany_Idempotent(t *testing.T) {
	sheet := models.NewRateSheet(models.SheetStandard, fixedNow)
	targets := []models.Province{models.AB, models.BC}

	first, err := UpdateMany(models.ON, targets, samplePatch())
	require.NoError(t, err)
	first.ApplyTo(sheet)
	snapshot := cloneSheet(t, sheet)

	second, err := UpdateMany(models.ON, targets, samplePatch())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	second.ApplyTo(sheet)

	assert.Equal(t, snapshot, sheet)
}

func TestUpdateAll(t *testing.T) {
	rp := samplePatch()
	patch, err := UpdateAll(rp)
	require.NoError(t, err)

	assert.Equal(t, models.Provinces, patch.Provinces())
	assert.Len(t, patch, 13*4)
	for f := range patch {
		assert.False(t, f.IsPrime(), "apply-to-all must not write prime: %s", f)
	}

	_, err = UpdateAll(RatesPatch{Prime: rp.Prime})
	assert.True(t, errs.IsValidation(err))
}

func TestUpdatePrime(t *testing.T) {
	sheet := models.NewRateSheet(models.SheetStandard, fixedNow)
	UpdatePrime(7.2).ApplyTo(sheet)
	require.NotNil(t, sheet.Prime)
	assert.Equal(t, 7.2, *sheet.Prime)
	for _, p := range models.Provinces {
		got, ok := sheet.EffectivePrime(p)
		assert.True(t, ok)
		assert.Equal(t, 7.2, got)
	}
}

func TestApplyTo_SparseLeavesOtherFieldsAlone(t *testing.T) {
	sheet := models.NewRateSheet(models.SheetStandard, fixedNow)
	sheet.ON.FiveYrFixed.Under70 = models.RateEntry{Value: 5.55, Lender: "Keep"}

	patch, err := UpdateOne(models.ON, samplePatch())
	require.NoError(t, err)
	patch.ApplyTo(sheet)

	assert.Equal(t, models.RateEntry{Value: 5.55, Lender: "Keep"}, sheet.ON.FiveYrFixed.Under70)
	assert.Equal(t, models.RateEntry{Value: 4.29, Lender: "MCAP"}, sheet.ON.FiveYrFixed.Under65)
	require.NotNil(t, sheet.ON.Prime)
	assert.Equal(t, 6.95, *sheet.ON.Prime)
	assert.Equal(t, 0.0, *sheet.Prime, "province prime must not touch the document prime")
}

func TestApplyTo_CreatesMissingProvince(t *testing.T) {
	sheet := &models.RateSheet{}
	patch, err := UpdateOne(models.YT, samplePatch())
	require.NoError(t, err)
	patch.ApplyTo(sheet)

	require.NotNil(t, sheet.YT)
	require.NotNil(t, sheet.YT.FiveYrVariable.Rental)
	assert.Equal(t, 0.25, sheet.YT.FiveYrVariable.Rental.Over25.Value)
	assert.Nil(t, sheet.ON)
}

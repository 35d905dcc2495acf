package services_test

import (
	"testing"

	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"
	"innerai_backend/internal/testutil"
	"innerai_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptionService() services.OptionService {
	return services.NewOptionService(repositories.NewOptionRepository())
}

func TestOptions_ListIsSorted(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Vendor{}).Error)
	svc := newOptionService()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := svc.Create(db, "vendor", &dto.OptionRequest{Name: name})
		require.NoError(t, err)
	}

	names, err := svc.List(db, "vendor")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, names)
}

func TestOptions_SeededDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newOptionService()

	for _, kind := range []string{"client", "vendor", "product", "tag"} {
		names, err := svc.List(db, kind)
		require.NoError(t, err, kind)
		assert.Len(t, names, 4, kind)
	}

	statuses, err := svc.ListStatuses(db)
	require.NoError(t, err)
	require.Len(t, statuses, 3)
	assert.Equal(t, models.FollowUpCompletedStatus, statuses[2].Name)
}

func TestOptions_Duplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newOptionService()

	resp, err := svc.Create(db, "client", &dto.OptionRequest{Name: "  Umbrella "})
	require.NoError(t, err)
	assert.Equal(t, "Umbrella", resp.Name)

	_, err = svc.Create(db, "client", &dto.OptionRequest{Name: "Umbrella"})
	assert.ErrorIs(t, err, apperrors.ErrOptionAlreadyExists)
}

func TestOptions_UnknownType(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newOptionService()

	_, err := svc.List(db, "planet")
	assert.ErrorIs(t, err, apperrors.ErrUnknownOptionType)

	_, err = svc.Create(db, "planet", &dto.OptionRequest{Name: "Mars"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownOptionType)
}

func TestOptions_BlankName(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newOptionService()

	_, err := svc.Create(db, "tag", &dto.OptionRequest{Name: "   "})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

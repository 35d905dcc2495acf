package services_test

import (
	"testing"

	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"
	"innerai_backend/internal/testutil"
	"innerai_backend/internal/utils"
	"innerai_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSubmissionService() services.SubmissionService {
	return services.NewSubmissionService(repositories.NewUserRepository(), repositories.NewSubmissionRepository())
}

func statusID(t *testing.T, db *gorm.DB, name string) *uint {
	t.Helper()
	var st models.FollowUpStatus
	require.NoError(t, db.Where("name = ?", name).First(&st).Error)
	return &st.ID
}

func baseRequest() *dto.SubmissionRequest {
	return &dto.SubmissionRequest{
		Client:          "日昇科技",
		Vendor:          "青雲材料",
		Product:         "智慧儀表 X1",
		Tag:             utils.StringList{"客戶跟進"},
		RelatedUserMail: utils.StringList{"alice@example.com"},
		Location:        "Taipei",
		ScheduledAt:     "2024-01-01T10:00",
	}
}

func TestCreateSubmission_UnknownRelatedUserLeavesNoRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	req := baseRequest()
	req.RelatedUserMail = utils.StringList{"alice@example.com", "ghost@example.com"}

	_, err := svc.Create(db, req, actor)
	assert.ErrorIs(t, err, apperrors.ErrUnknownRelatedUser)

	for _, model := range []interface{}{&models.TaskSubmission{}, &models.SubmissionUser{}, &models.SubmissionTag{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}
}

func TestCreateSubmission_UnknownStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	missing := uint(999)
	req := baseRequest()
	req.FollowUp = []dto.FollowUpInput{{Content: "call", StatusID: &missing}}

	_, err := svc.Create(db, req, actor)
	assert.ErrorIs(t, err, apperrors.ErrUnknownFollowUpStatus)

	var count int64
	require.NoError(t, db.Model(&models.TaskSubmission{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateSubmission_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	req := baseRequest()
	req.Tag = utils.StringList{"  ", ""}
	req.RelatedUserMail = nil
	req.ScheduledAt = "not a date"

	_, err := svc.Create(db, req, actor)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "tag")
	assert.Contains(t, details, "related_user_mail")
	assert.Contains(t, details, "scheduled_at")
}

func TestCreateAndListSubmission(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	testutil.CreateUser(t, db, "bob@example.com", "secret2")
	svc := newSubmissionService()

	req := baseRequest()
	req.Tag = utils.StringList{"客戶跟進", " 需求整理 ", "客戶跟進"}
	req.RelatedUserMail = utils.StringList{"bob@example.com", "alice@example.com"}
	req.RecordedAt = "2024-01-01T02:00:00.000Z"
	req.FollowUp = []dto.FollowUpInput{
		{Content: "<i>send quote</i>", StatusID: statusID(t, db, "待處理")},
		{Content: "confirm", StatusID: statusID(t, db, models.FollowUpCompletedStatus)},
		{Content: "no status"},
		{Content: "   "},
	}

	created, err := svc.Create(db, req, actor)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	list, err := svc.List(db)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "日昇科技", got.ClientName)
	assert.Equal(t, "alice@example.com", got.CreatedByEmail)
	require.NotNil(t, got.ScheduledAt)
	assert.Equal(t, "2024-01-01 10:00:00", *got.ScheduledAt)
	require.NotNil(t, got.RecordedAt)
	assert.Equal(t, "2024-01-01 10:00:00", *got.RecordedAt)

	assert.Equal(t, []string{"客戶跟進", "需求整理"}, got.Tags)
	require.Len(t, got.RelatedUsers, 2)
	assert.Equal(t, "bob@example.com", got.RelatedUsers[0].Mail)
	assert.Equal(t, "alice@example.com", got.RelatedUsers[1].Mail)

	require.Len(t, got.FollowUps, 3)
	assert.Equal(t, "send quote", got.FollowUps[0].Content)
	require.NotNil(t, got.FollowUps[0].StatusName)
	assert.Equal(t, "待處理", *got.FollowUps[0].StatusName)
	assert.Nil(t, got.FollowUps[2].StatusName)
	assert.Equal(t, 2, got.PendingFollowUps)
}

func TestListSubmissions_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	first, err := svc.Create(db, baseRequest(), actor)
	require.NoError(t, err)
	second, err := svc.Create(db, baseRequest(), actor)
	require.NoError(t, err)

	list, err := svc.List(db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Empty(t, list[0].FollowUps)
	assert.NotNil(t, list[0].FollowUps)
}

func TestUpdateSubmission_ReplacesChildSets(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	testutil.CreateUser(t, db, "bob@example.com", "secret2")
	svc := newSubmissionService()

	req := baseRequest()
	req.Tag = utils.StringList{"客戶跟進", "需求整理"}
	req.FollowUp = []dto.FollowUpInput{{Content: "old"}}
	created, err := svc.Create(db, req, actor)
	require.NoError(t, err)

	update := baseRequest()
	update.Client = "遠誠貿易"
	update.Tag = utils.StringList{"合約追蹤"}
	update.RelatedUserMail = utils.StringList{"bob@example.com"}
	update.FollowUp = []dto.FollowUpInput{{Content: "new"}}
	update.ScheduledAt = ""
	require.NoError(t, svc.Update(db, created.ID, update, actor))

	list, err := svc.List(db)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, "遠誠貿易", got.ClientName)
	assert.Nil(t, got.ScheduledAt)
	assert.Equal(t, []string{"合約追蹤"}, got.Tags)
	require.Len(t, got.RelatedUsers, 1)
	assert.Equal(t, "bob@example.com", got.RelatedUsers[0].Mail)
	require.Len(t, got.FollowUps, 1)
	assert.Equal(t, "new", got.FollowUps[0].Content)
}

func TestUpdateSubmission_SameValuesIsNotNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	created, err := svc.Create(db, baseRequest(), actor)
	require.NoError(t, err)
	assert.NoError(t, svc.Update(db, created.ID, baseRequest(), actor))
}

func TestUpdateSubmission_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	err := svc.Update(db, 42, baseRequest(), actor)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)

	var count int64
	require.NoError(t, db.Model(&models.SubmissionUser{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteSubmission(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	req := baseRequest()
	req.FollowUp = []dto.FollowUpInput{{Content: "x"}}
	created, err := svc.Create(db, req, actor)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(db, created.ID, actor))

	for _, model := range []interface{}{&models.TaskSubmission{}, &models.SubmissionUser{}, &models.SubmissionTag{}, &models.SubmissionFollowUp{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	err = svc.Delete(db, created.ID, actor)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)
}

func TestDeleteSubmission_NotFoundRollsBackChildDeletes(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newSubmissionService()

	// осиротевшая строка связи для несуществующей заявки
	require.NoError(t, db.Create(&models.SubmissionUser{SubmissionID: 77, UserMail: "alice@example.com"}).Error)

	err := svc.Delete(db, 77, actor)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionNotFound)

	var count int64
	require.NoError(t, db.Model(&models.SubmissionUser{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowUpSummary(t *testing.T) {
	db := testutil.NewTestDB(t)
	alice := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	testutil.CreateUser(t, db, "bob@example.com", "secret2")
	svc := newSubmissionService()
	done := statusID(t, db, models.FollowUpCompletedStatus)

	req := baseRequest()
	req.ScheduledAt = "2024-01-01T23:30:00Z" // 2024-01-02 07:30 UTC+8
	req.FollowUp = []dto.FollowUpInput{{Content: "a", StatusID: done}, {Content: "b"}}
	_, err := svc.Create(db, req, alice)
	require.NoError(t, err)

	req = baseRequest()
	req.ScheduledAt = "2024-01-02 15:00"
	req.FollowUp = []dto.FollowUpInput{{Content: "c"}}
	_, err = svc.Create(db, req, alice)
	require.NoError(t, err)

	// без follow-up не учитывается
	_, err = svc.Create(db, baseRequest(), alice)
	require.NoError(t, err)

	// чужая заявка
	req = baseRequest()
	req.RelatedUserMail = utils.StringList{"bob@example.com"}
	req.FollowUp = []dto.FollowUpInput{{Content: "d"}}
	_, err = svc.Create(db, req, alice)
	require.NoError(t, err)

	summary, err := svc.FollowUpSummary(db, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, map[string]dto.FollowUpDaySummary{
		"2024-01-02": {Total: 3, Pending: 2},
	}, summary)
}

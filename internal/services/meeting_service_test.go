package services_test

import (
	"encoding/base64"
	"testing"

	"innerai_backend/internal/models"
	"innerai_backend/internal/repositories"
	"innerai_backend/internal/services"
	"innerai_backend/internal/services/dto"
	"innerai_backend/internal/testutil"
	"innerai_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMeetingService(store *memoryStorage) services.MeetingService {
	return services.NewMeetingService(repositories.NewMeetingRepository(), store)
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func folderRequest(client, vendor, product string, files ...dto.MeetingFileInput) *dto.MeetingFolderRequest {
	if len(files) == 0 {
		files = []dto.MeetingFileInput{{Name: "notes.txt", Type: "text/plain", ContentBase64: b64("hello")}}
	}
	return &dto.MeetingFolderRequest{
		Client:      client,
		Vendor:      vendor,
		Product:     product,
		MeetingTime: "2024-03-01T09:30",
		Files:       files,
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateFolder_StoresFilesAndText(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	store := newMemoryStorage()
	svc := newMeetingService(store)

	pdf := "%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n"
	req := folderRequest("ACME", "Globex", "Widget",
		dto.MeetingFileInput{Name: "../../notes.txt", Type: "", ContentBase64: "data:text/plain;base64," + b64("minutes")},
		dto.MeetingFileInput{Name: "slides.pdf", Type: "", ContentBase64: b64(pdf)},
	)

	created, err := svc.CreateFolder(db, req, actor)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Records, 2)
	assert.Equal(t, 2, store.count())

	text, err := svc.GetRecordFile(db, created.Records[0])
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", text.FileName)
	assert.Equal(t, []byte("minutes"), text.FileContent)
	require.NotNil(t, text.ContentText)
	assert.Equal(t, "minutes", *text.ContentText)

	doc, err := svc.GetRecordFile(db, created.Records[1])
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Nil(t, doc.ContentText)
	assert.Contains(t, doc.FilePath, "meeting-records/")
}

func TestCreateFolder_Validation(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newMeetingService(newMemoryStorage())

	req := folderRequest("ACME", "Globex", "Widget",
		dto.MeetingFileInput{Name: "a.txt", ContentBase64: "%%% not base64"})
	_, err := svc.CreateFolder(db, req, actor)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	req = folderRequest("ACME", "Globex", "Widget")
	req.MeetingTime = "yesterday"
	_, err = svc.CreateFolder(db, req, actor)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)

	assert.Zero(t, countRows(t, db, &models.MeetingFolder{}))
}

func TestCreateFolder_LinksAreDeduplicated(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newMeetingService(newMemoryStorage())

	for i := 0; i < 2; i++ {
		_, err := svc.CreateFolder(db, folderRequest("ACME", "Globex", "Widget"), actor)
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, countRows(t, db, &models.ClientVendorLink{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.VendorProductLink{}))
	assert.EqualValues(t, 2, countRows(t, db, &models.ProductMeetingLink{}))
	assert.EqualValues(t, 2, countRows(t, db, &models.MeetingFolder{}))
}

func TestCreateFolder_StorageFailureRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	store := newMemoryStorage()
	store.failAfter = 1
	svc := newMeetingService(store)

	req := folderRequest("ACME", "Globex", "Widget",
		dto.MeetingFileInput{Name: "a.txt", Type: "text/plain", ContentBase64: b64("a")},
		dto.MeetingFileInput{Name: "b.txt", Type: "text/plain", ContentBase64: b64("b")},
	)
	_, err := svc.CreateFolder(db, req, actor)
	require.Error(t, err)

	assert.Zero(t, store.count())
	assert.Zero(t, countRows(t, db, &models.MeetingFolder{}))
	assert.Zero(t, countRows(t, db, &models.MeetingRecord{}))
	assert.Zero(t, countRows(t, db, &models.ClientVendorLink{}))
}

func TestListTree(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	svc := newMeetingService(newMemoryStorage())

	a, err := svc.CreateFolder(db, folderRequest("ACME", "Globex", "Widget"), actor)
	require.NoError(t, err)
	b, err := svc.CreateFolder(db, folderRequest("Initech", "Globex", "Widget"), actor)
	require.NoError(t, err)

	tree, err := svc.ListTree(db)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	byClient := map[string]dto.ClientNode{}
	for _, node := range tree {
		byClient[node.Name] = node
	}

	// общий vendor/product не смешивает встречи разных клиентов
	acme := byClient["ACME"]
	require.Len(t, acme.Vendors, 1)
	require.Len(t, acme.Vendors[0].Products, 1)
	meetings := acme.Vendors[0].Products[0].Meetings
	require.Len(t, meetings, 1)
	assert.Equal(t, a.ID, meetings[0].ID)
	assert.Equal(t, "2024-03-01 09:30:00", meetings[0].MeetingTime)
	require.Len(t, meetings[0].Records, 1)
	assert.Equal(t, "notes.txt", meetings[0].Records[0].FileName)

	initech := byClient["Initech"]
	require.Len(t, initech.Vendors, 1)
	assert.Equal(t, b.ID, initech.Vendors[0].Products[0].Meetings[0].ID)
}

func TestListTree_Empty(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newMeetingService(newMemoryStorage())

	tree, err := svc.ListTree(db)
	require.NoError(t, err)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestGetRecordFile_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newMeetingService(newMemoryStorage())

	_, err := svc.GetRecordFile(db, 404)
	assert.ErrorIs(t, err, apperrors.ErrMeetingRecordNotFound)
}

func TestGetRecordFile_FallsBackToStorage(t *testing.T) {
	db := testutil.NewTestDB(t)
	actor := testutil.CreateUser(t, db, "alice@example.com", "secret1")
	store := newMemoryStorage()
	svc := newMeetingService(store)

	created, err := svc.CreateFolder(db, folderRequest("ACME", "Globex", "Widget"), actor)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.MeetingRecord{}).
		Where("id = ?", created.Records[0]).
		Update("file_content", nil).Error)

	record, err := svc.GetRecordFile(db, created.Records[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), record.FileContent)
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Shukurulla/stream-service/internal/database"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/repository"
	"github.com/Shukurulla/stream-service/internal/video"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProvider implements video.Provider in-memory.
type fakeProvider struct {
	createCalls int
	createErr   error
	savedVideo  *video.SavedVideo
}

func (p *fakeProvider) CreateLiveStream(_ context.Context, name string) (*video.LiveStream, error) {
	p.createCalls++
	if p.createErr != nil {
		return nil, p.createErr
	}
	ls := &video.LiveStream{
		LiveStreamID: fmt.Sprintf("li-test-%d", p.createCalls),
		Name:         name,
		StreamKey:    "sk-test",
	}
	ls.Raw, _ = json.Marshal(ls)
	return ls, nil
}

func (p *fakeProvider) GetLiveStream(_ context.Context, liveStreamID string) (*video.LiveStream, error) {
	return &video.LiveStream{LiveStreamID: liveStreamID}, nil
}

func (p *fakeProvider) GetSavedVideo(_ context.Context, liveStreamID string) (*video.SavedVideo, error) {
	if p.savedVideo == nil {
		return nil, models.NewNotFoundError("saved video", liveStreamID)
	}
	return p.savedVideo, nil
}

func (p *fakeProvider) Token(_ context.Context) (string, error) {
	return "test-token", nil
}

func setupStreamTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newStreamService(db *gorm.DB, provider video.Provider) *StreamService {
	return NewStreamService(
		repository.NewStreamRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewGroupRepository(db),
		repository.NewWebhookRepository(db),
		provider,
	)
}

func createTestTeacher(t *testing.T, db *gorm.DB, name string) *models.Teacher {
	t.Helper()
	teacher := &models.Teacher{Name: name, Password: "pw", Science: "Listening"}
	require.NoError(t, db.Create(teacher).Error)
	return teacher
}

func createTestGroup(t *testing.T, db *gorm.DB, name string) *models.Group {
	t.Helper()
	group := &models.Group{Name: name, Kurs: "2"}
	require.NoError(t, db.Create(group).Error)
	return group
}

func TestCreateStream(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	provider := &fakeProvider{}
	svc := newStreamService(db, provider)

	teacher := createTestTeacher(t, db, "Mr. Karimov")
	group := createTestGroup(t, db, "ENG-201")

	stream, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title:      "Unit 4 review",
		PlanStream: time.Now().Add(2 * time.Hour),
		ClassRoom:  "204",
		Group:      group.Name,
		Science:    "Listening",
		TeacherID:  teacher.ID,
	})
	require.NoError(t, err)

	assert.NotZero(t, stream.ID)
	assert.Equal(t, "li-test-1", stream.LiveStreamID)
	assert.Equal(t, teacher.Name, stream.Teacher.Name)
	assert.NotEmpty(t, stream.StreamInfo, "provider payload must be persisted verbatim")
	assert.False(t, stream.IsStart)
	assert.False(t, stream.IsEnded)
	assert.Equal(t, 1, provider.createCalls)
}

func TestCreateStream_UnknownTeacherOrGroup(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	provider := &fakeProvider{}
	svc := newStreamService(db, provider)
	group := createTestGroup(t, db, "ENG-202")

	_, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "No teacher", Group: group.Name, TeacherID: 999,
	})
	require.Error(t, err)
	assert.Equal(t, 0, provider.createCalls, "provider must not be called on validation failure")

	teacher := createTestTeacher(t, db, "Ms. Yusupova")
	_, err = svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "No group", Group: "missing", TeacherID: teacher.ID,
	})
	require.Error(t, err)
	assert.Equal(t, 0, provider.createCalls)
}

func TestCreateStream_ProviderFailure(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	provider := &fakeProvider{createErr: models.NewUpstreamError("provider down", nil)}
	svc := newStreamService(db, provider)

	teacher := createTestTeacher(t, db, "Mr. Rashidov")
	group := createTestGroup(t, db, "ENG-203")

	_, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "Doomed", Group: group.Name, TeacherID: teacher.ID,
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Stream{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no local record when the provider call fails")
}

func TestStreamTransitions(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	teacher := createTestTeacher(t, db, "Mr. Olimov")
	group := createTestGroup(t, db, "ENG-204")

	stream, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "Transitions", Group: group.Name, TeacherID: teacher.ID,
	})
	require.NoError(t, err)

	started, err := svc.StartStream(context.Background(), stream.ID)
	require.NoError(t, err)
	assert.True(t, started.IsStart)
	assert.False(t, started.IsEnded)

	ended, err := svc.EndStream(context.Background(), stream.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsStart)
	assert.True(t, ended.IsEnded)
	assert.NotEmpty(t, ended.EndedTime)

	_, err = svc.StartStream(context.Background(), 9999)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestPreviousStreams_GroupedByDay(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	teacher := createTestTeacher(t, db, "Ms. Nazarova")

	day1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	for i, plan := range []time.Time{day1, day1.Add(2 * time.Hour), day2} {
		stream := &models.Stream{
			Title:      fmt.Sprintf("Lesson %d", i+1),
			PlanStream: plan,
			ClassRoom:  "101",
			Group:      "ENG-205",
			Teacher:    teacher.Snapshot(),
			IsEnded:    true,
		}
		require.NoError(t, db.Create(stream).Error)
	}
	// a live stream must not show up in the previous listing
	require.NoError(t, db.Create(&models.Stream{
		Title: "Live now", PlanStream: day2, ClassRoom: "101",
		Group: "ENG-205", Teacher: teacher.Snapshot(), IsStart: true,
	}).Error)

	days, err := svc.PreviousStreams(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-02", days[0].Date)
	assert.Len(t, days[0].Streams, 2)
	assert.Equal(t, "2026-03-03", days[1].Date)
	assert.Len(t, days[1].Streams, 1)
}

func TestAddViewer_Deduplication(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	teacher := createTestTeacher(t, db, "Mr. Tashkentov")
	group := createTestGroup(t, db, "ENG-206")
	stream, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "Viewers", Group: group.Name, TeacherID: teacher.ID,
	})
	require.NoError(t, err)

	viewer := ViewerInput{ViewerID: 7, Name: "Aziza", Science: "Listening"}

	updated, err := svc.AddViewer(context.Background(), stream.ID, viewer)
	require.NoError(t, err)
	assert.Len(t, updated.Viewers, 1)

	_, err = svc.AddViewer(context.Background(), stream.ID, viewer)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	// a different viewer still gets in
	_, err = svc.AddViewer(context.Background(), stream.ID, ViewerInput{ViewerID: 8, Name: "Botir"})
	require.NoError(t, err)
}

func TestHandleWebhook_Transitions(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	teacher := createTestTeacher(t, db, "Ms. Umarova")
	group := createTestGroup(t, db, "ENG-207")
	stream, err := svc.CreateStream(context.Background(), CreateStreamInput{
		Title: "Webhooks", Group: group.Name, TeacherID: teacher.ID,
	})
	require.NoError(t, err)

	payload := []byte(fmt.Sprintf(`{"type":%q,"liveStreamId":%q}`,
		models.WebhookBroadcastStarted, stream.LiveStreamID))
	require.NoError(t, svc.HandleWebhook(context.Background(),
		models.WebhookBroadcastStarted, stream.LiveStreamID, payload))

	got, err := svc.GetStream(context.Background(), stream.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStart)

	require.NoError(t, svc.HandleWebhook(context.Background(),
		models.WebhookBroadcastEnded, stream.LiveStreamID, payload))
	got, err = svc.GetStream(context.Background(), stream.ID)
	require.NoError(t, err)
	assert.True(t, got.IsEnded)

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Equal(t, int64(2), events, "every event must be archived")
}

func TestHandleWebhook_UnknownTypeIsArchivedOnly(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	err := svc.HandleWebhook(context.Background(),
		"video.encoding.quality.completed", "li-whatever", []byte(`{}`))
	require.NoError(t, err, "unknown types are acknowledged without a transition")

	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestHandleWebhook_UnknownStream(t *testing.T) {
	t.Parallel()

	db := setupStreamTestDB(t)
	svc := newStreamService(db, &fakeProvider{})

	err := svc.HandleWebhook(context.Background(),
		models.WebhookBroadcastStarted, "li-missing", []byte(`{}`))
	require.NoError(t, err, "events for unknown streams are archived and acknowledged")

	// archived even though no transition applied
	var events int64
	require.NoError(t, db.Model(&models.WebhookEvent{}).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

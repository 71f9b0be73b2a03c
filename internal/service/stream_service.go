// Package service holds the domain logic between HTTP handlers and
// repositories.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Shukurulla/stream-service/internal/cache"
	"github.com/Shukurulla/stream-service/internal/middleware"
	"github.com/Shukurulla/stream-service/internal/models"
	"github.com/Shukurulla/stream-service/internal/observability"
	"github.com/Shukurulla/stream-service/internal/repository"
	"github.com/Shukurulla/stream-service/internal/video"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StreamService struct {
	streamRepo  repository.StreamRepository
	teacherRepo repository.TeacherRepository
	groupRepo   repository.GroupRepository
	webhookRepo repository.WebhookRepository
	provider    video.Provider
}

type CreateStreamInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PlanStream  time.Time `json:"planStream"`
	ClassRoom   string    `json:"classRoom"`
	Group       string    `json:"group"`
	Science     string    `json:"science"`
	TeacherID   uint      `json:"teacherId"`
}

type ViewerInput struct {
	ViewerID     uint   `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Science      string `json:"science"`
}

func NewStreamService(
	streamRepo repository.StreamRepository,
	teacherRepo repository.TeacherRepository,
	groupRepo repository.GroupRepository,
	webhookRepo repository.WebhookRepository,
	provider video.Provider,
) *StreamService {
	return &StreamService{
		streamRepo:  streamRepo,
		teacherRepo: teacherRepo,
		groupRepo:   groupRepo,
		webhookRepo: webhookRepo,
		provider:    provider,
	}
}

// CreateStream validates the teacher and group, registers a recorded live
// stream with the provider, and persists the local record with the provider's
// verbatim payload.
func (s *StreamService) CreateStream(ctx context.Context, in CreateStreamInput) (*models.Stream, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	teacher, err := s.teacherRepo.GetTeacherByID(ctx, in.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Teacher does not exist")
		}
		return nil, err
	}

	if _, err := s.groupRepo.GetGroupByName(ctx, in.Group); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Group does not exist")
		}
		return nil, err
	}

	live, err := s.provider.CreateLiveStream(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	stream := &models.Stream{
		Title:        in.Title,
		Description:  in.Description,
		PlanStream:   in.PlanStream,
		ClassRoom:    in.ClassRoom,
		Group:        in.Group,
		Science:      in.Science,
		Teacher:      teacher.Snapshot(),
		LiveStreamID: live.LiveStreamID,
		StreamInfo:   datatypes.JSON(live.Raw),
	}
	if err := s.streamRepo.CreateStream(ctx, stream); err != nil {
		return nil, err
	}

	observability.StreamsCreatedTotal.Inc()
	cache.InvalidateStreamLists(ctx)
	middleware.Logger.InfoContext(ctx, "stream created",
		slog.Any("stream_id", stream.ID),
		slog.String("live_stream_id", stream.LiveStreamID),
	)
	return stream, nil
}

// GetStream returns one stream with its ratings, comments and viewers.
func (s *StreamService) GetStream(ctx context.Context, id uint) (*models.Stream, error) {
	stream, err := s.streamRepo.GetStreamByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", id)
		}
		return nil, err
	}
	return stream, nil
}

// LiveStreams lists streams currently broadcasting.
func (s *StreamService) LiveStreams(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := cache.CacheAside(ctx, cache.LiveStreamsKey, &streams, cache.StreamListTTL, func() error {
		var fetchErr error
		streams, fetchErr = s.streamRepo.GetLiveStreams(ctx)
		return fetchErr
	})
	return streams, err
}

// UpcomingStreams lists streams planned for the future that have not started.
func (s *StreamService) UpcomingStreams(ctx context.Context) ([]*models.Stream, error) {
	var streams []*models.Stream
	err := cache.CacheAside(ctx, cache.SoonStreamsKey, &streams, cache.StreamListTTL, func() error {
		var fetchErr error
		streams, fetchErr = s.streamRepo.GetUpcomingStreams(ctx)
		return fetchErr
	})
	return streams, err
}

// PreviousStreams lists ended streams grouped by their plan date ascending.
func (s *StreamService) PreviousStreams(ctx context.Context) ([]models.StreamDay, error) {
	var days []models.StreamDay
	err := cache.CacheAside(ctx, cache.PreviousStreamsKey, &days, cache.StreamListTTL, func() error {
		streams, fetchErr := s.streamRepo.GetEndedStreams(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		days = groupByDay(streams)
		return nil
	})
	return days, err
}

// groupByDay buckets streams under their plan date, preserving the ascending
// order the repository returns.
func groupByDay(streams []*models.Stream) []models.StreamDay {
	days := []models.StreamDay{}
	index := map[string]int{}
	for _, stream := range streams {
		date := stream.PlanStream.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			days = append(days, models.StreamDay{Date: date})
			i = len(days) - 1
			index[date] = i
		}
		days[i].Streams = append(days[i].Streams, *stream)
	}
	return days
}

// StartStream marks the stream as broadcasting.
func (s *StreamService) StartStream(ctx context.Context, id uint) (*models.Stream, error) {
	return s.transition(ctx, id, "start", "api")
}

// EndStream marks the stream as finished and stamps the ended time.
func (s *StreamService) EndStream(ctx context.Context, id uint) (*models.Stream, error) {
	return s.transition(ctx, id, "end", "api")
}

func (s *StreamService) transition(ctx context.Context, id uint, kind, source string) (*models.Stream, error) {
	stream, err := s.streamRepo.GetStreamByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", id)
		}
		return nil, err
	}

	applyTransition(stream, kind)
	if err := s.streamRepo.UpdateStream(ctx, stream); err != nil {
		return nil, err
	}

	observability.StreamTransitionsTotal.WithLabelValues(kind, source).Inc()
	cache.InvalidateStream(ctx, stream.ID)
	return stream, nil
}

func applyTransition(stream *models.Stream, kind string) {
	switch kind {
	case "start":
		stream.IsStart = true
		stream.IsEnded = false
	case "end":
		stream.IsStart = false
		stream.IsEnded = true
		stream.EndedTime = time.Now().Format(time.RFC3339)
	}
}

// AddViewer records that a student joined the stream. A second join with the
// same identity is rejected with a conflict.
func (s *StreamService) AddViewer(ctx context.Context, streamID uint, in ViewerInput) (*models.Stream, error) {
	stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", streamID)
		}
		return nil, err
	}

	exists, err := s.streamRepo.ViewerExists(ctx, streamID, in.ViewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("Viewer already joined this stream")
	}

	viewer := &models.StreamViewer{
		StreamID:     streamID,
		ViewerID:     in.ViewerID,
		Name:         in.Name,
		ProfileImage: in.ProfileImage,
		Science:      in.Science,
	}
	if err := s.streamRepo.CreateViewer(ctx, viewer); err != nil {
		return nil, err
	}

	cache.InvalidateStream(ctx, streamID)
	stream.Viewers = append(stream.Viewers, *viewer)
	return stream, nil
}

// SavedVideo resolves the provider's recorded asset for an ended stream.
func (s *StreamService) SavedVideo(ctx context.Context, streamID uint) (*video.SavedVideo, error) {
	stream, err := s.streamRepo.GetStreamByID(ctx, streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Stream", streamID)
		}
		return nil, err
	}
	return s.provider.GetSavedVideo(ctx, stream.LiveStreamID)
}

// HandleWebhook archives the raw event and then applies the matching state
// transition. Archiving happens first so a failed transition never loses the
// event.
func (s *StreamService) HandleWebhook(ctx context.Context, eventType, liveStreamID string, payload []byte) error {
	event := &models.WebhookEvent{
		Type:         eventType,
		LiveStreamID: liveStreamID,
		Payload:      datatypes.JSON(payload),
	}
	if err := s.webhookRepo.CreateEvent(ctx, event); err != nil {
		return err
	}
	observability.WebhooksReceivedTotal.WithLabelValues(eventType).Inc()

	var kind string
	switch eventType {
	case models.WebhookBroadcastStarted:
		kind = "start"
	case models.WebhookBroadcastEnded:
		kind = "end"
	default:
		// Unknown event types are archived and acknowledged without any
		// state change.
		middleware.Logger.InfoContext(ctx, "webhook archived without transition",
			slog.String("type", eventType),
		)
		return nil
	}

	stream, err := s.streamRepo.GetStreamByLiveStreamID(ctx, liveStreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No stream carries this live id. The event is already archived,
			// so the transition is a no-op and the provider gets an ack.
			middleware.Logger.InfoContext(ctx, "webhook archived for unknown live stream",
				slog.String("type", eventType),
				slog.String("live_stream_id", liveStreamID),
			)
			return nil
		}
		return err
	}

	applyTransition(stream, kind)
	if err := s.streamRepo.UpdateStream(ctx, stream); err != nil {
		return err
	}

	observability.StreamTransitionsTotal.WithLabelValues(kind, "webhook").Inc()
	cache.InvalidateStream(ctx, stream.ID)
	middleware.Logger.InfoContext(ctx, "webhook transition applied",
		slog.String("type", eventType),
		slog.String("live_stream_id", liveStreamID),
	)
	return nil
}

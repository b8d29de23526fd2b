package handlers

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// VideoHandler implements video publishing and viewing endpoints.
type VideoHandler struct {
	Videos  VideoStore
	History WatchHistoryStore
	Media   MediaStore
	Views   ViewComposer
	NowFunc func() time.Time
}

// Collection dispatches /api/v1/videos requests by method.
func (h VideoHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.publish(w, r)
	case http.MethodGet:
		h.listByChannel(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h VideoHandler) publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.Warn("invalid video payload", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		respondError(ctx, w, http.StatusBadRequest, "title is required")
		return
	}

	videoURL, err := h.uploadFormFile(r, "videoFile", "videos")
	if err != nil {
		logger.Warn("video upload failed", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "video file is required")
		return
	}

	thumbnailURL, err := h.uploadFormFile(r, "thumbnail", "thumbnails")
	if err != nil {
		logger.Warn("thumbnail upload failed", "error", err)
		respondError(ctx, w, http.StatusBadRequest, "thumbnail is required")
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	now := h.now()
	video := models.Video{
		ID:          uuid.NewString(),
		OwnerID:     viewer.ID,
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    duration,
		Published:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.Videos.Create(ctx, video); err != nil {
		logger.Error("video create failed", "error", err, "userId", viewer.ID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to publish video")
		return
	}

	respondData(ctx, w, http.StatusCreated, videoPayload(video), "video published")
}

func (h VideoHandler) listByChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, ok := viewerOrAbort(ctx, w); !ok {
		return
	}

	channelID := strings.TrimSpace(r.URL.Query().Get("channelId"))
	if channelID == "" {
		respondError(ctx, w, http.StatusBadRequest, "channelId is required")
		return
	}
	if _, err := uuid.Parse(channelID); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid channel id")
		return
	}

	videos, err := h.Videos.ListByOwner(ctx, channelID)
	if err != nil {
		logging.FromContext(ctx).Error("video listing failed", "error", err, "channelId", channelID)
		respondError(ctx, w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	payloads := make([]videoResponse, len(videos))
	for i, video := range videos {
		payloads[i] = videoPayload(video)
	}
	respondData(ctx, w, http.StatusOK, payloads, "videos fetched")
}

// Watch handles GET /api/v1/videos/{videoId} requests. Fetching a video
// counts a view and records the video in the viewer's watch history.
func (h VideoHandler) Watch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, span := logging.StartSpan(r.Context(), "video.watch")
	defer span.End()
	logger := logging.FromContext(ctx)

	viewer, ok := viewerOrAbort(ctx, w)
	if !ok {
		return
	}

	id := r.PathValue("videoId")
	if _, err := uuid.Parse(id); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid video id")
		return
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondError(ctx, w, http.StatusNotFound, "video does not exist")
			return
		}
		logger.Error("video lookup failed", "error", err, "videoId", id)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load video")
		return
	}

	if err := h.Videos.IncrementViews(ctx, id); err != nil {
		logger.Warn("view count update failed", "error", err, "videoId", id)
	} else {
		video.Views++
	}

	if err := h.History.Record(ctx, viewer.ID, id); err != nil {
		logger.Warn("watch history update failed", "error", err, "videoId", id, "userId", viewer.ID)
	}

	view, err := h.Views.VideoByID(ctx, video)
	if err != nil {
		logger.Error("video view composition failed", "error", err, "videoId", id)
		respondError(ctx, w, http.StatusInternalServerError, "failed to load video")
		return
	}

	respondData(ctx, w, http.StatusOK, view, "video fetched")
}

func (h VideoHandler) uploadFormFile(r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	key := prefix + "/" + uuid.NewString() + strings.ToLower(path.Ext(header.Filename))
	return h.Media.Save(r.Context(), key, file)
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}

type videoResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"createdAt"`
}

func videoPayload(video models.Video) videoResponse {
	return videoResponse{
		ID:          video.ID,
		OwnerID:     video.OwnerID,
		Title:       video.Title,
		Description: video.Description,
		VideoFile:   video.VideoFile,
		Thumbnail:   video.Thumbnail,
		Duration:    video.Duration,
		Views:       video.Views,
		CreatedAt:   video.CreatedAt,
	}
}

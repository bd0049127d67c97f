package service

import (
	"context"
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/repository"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/logger"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ContentService ingests course media: lesson videos and course covers.
// Uploaded videos are probed with ffmpeg so the lesson's duration always
// reflects the actual media.
type ContentService struct {
	CourseRepo *repository.CourseRepository
	Storage    *StorageService
}

func NewContentService(courseRepo *repository.CourseRepository, storage *StorageService) *ContentService {
	return &ContentService{
		CourseRepo: courseRepo,
		Storage:    storage,
	}
}

// AttachLessonVideo stores a lesson's video file and updates the lesson
// with the stored URL and probed duration.
func (s *ContentService) AttachLessonVideo(ctx context.Context, lessonID uint, fileHeader *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		return nil, util.ErrLessonNotFound
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream}); err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	// Stage locally so ffmpeg can probe it before it goes to storage.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("lesson_%d_%s", lessonID, filepath.Base(fileHeader.Filename)))
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return nil, err
	}
	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, err
	}
	tmp.Close()
	defer os.Remove(tmpPath)

	objectName := fmt.Sprintf("lessons/%d/%s", lessonID, filepath.Base(fileHeader.Filename))
	url, err := s.Storage.UploadFile(ctx, objectName, tmpPath, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = url
	if info, err := util.GetVideoInfo(tmpPath); err == nil {
		lesson.Duration = int(info.Duration)
	} else {
		logger.Log.Warn("Video probe failed, keeping configured duration",
			zap.Uint("lessonId", lessonID), zap.Error(err))
	}

	// Poster frame is best effort; a lesson without one still plays.
	if thumbURL, err := s.generateThumbnail(ctx, lessonID, tmpPath); err == nil {
		lesson.ThumbnailURL = thumbURL
	} else {
		logger.Log.Warn("Thumbnail generation failed",
			zap.Uint("lessonId", lessonID), zap.Error(err))
	}

	if err := s.CourseRepo.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// generateThumbnail extracts a frame from the staged video and uploads it
// as the lesson's poster image.
func (s *ContentService) generateThumbnail(ctx context.Context, lessonID uint, videoPath string) (string, error) {
	thumbPath := filepath.Join(os.TempDir(), fmt.Sprintf("lesson_%d_thumb.jpg", lessonID))
	if err := util.GenerateThumbnail(videoPath, thumbPath, 1.0); err != nil {
		return "", err
	}
	defer os.Remove(thumbPath)

	objectName := fmt.Sprintf("lessons/%d/thumbnail.jpg", lessonID)
	return s.Storage.UploadFile(ctx, objectName, thumbPath, "image/jpeg")
}

// AttachCourseCover stores a course's cover image and updates the course
// record.
func (s *ContentService) AttachCourseCover(ctx context.Context, courseID uint, fileHeader *multipart.FileHeader) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("covers/%d%s", courseID, filepath.Ext(fileHeader.Filename))
	url, err := s.Storage.Upload(ctx, objectName, src, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	course.CoverURL = url
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoding
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	// Attendance photos are re-encoded as JPEG no larger than this.
	attendanceMaxSize = 150 * 1024
	attendanceTarget  = 100 * 1024
)

type FileService interface {
	// UploadAttendancePhoto compresses and stores an attendance photo. The
	// caller reads any embedded location before this point: re-encoding
	// drops EXIF.
	UploadAttendancePhoto(ctx context.Context, userID string, date time.Time, kind string, photo []byte) (string, error)

	// UploadProfilePhoto stores a jpg/png profile photo as-is.
	UploadProfilePhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, ref string) error
	GetFileURL(ref string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
	now     func() time.Time
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
		now:     time.Now,
	}
}

func (s *fileServiceImpl) UploadAttendancePhoto(ctx context.Context, userID string, date time.Time, kind string, photo []byte) (string, error) {
	compressed, err := compressImage(photo, attendanceMaxSize)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	// attendance/{date}/{userID}-{kind}-{unix}.jpg
	newFilename := fmt.Sprintf("%s-%s-%d.jpg", userID, kind, s.now().Unix())
	path := filepath.Join("attendance", date.Format("2006-01-02"), newFilename)

	ref, err := s.storage.Upload(ctx, bytes.NewReader(compressed), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload attendance photo: %w", err)
	}
	return ref, nil
}

func (s *fileServiceImpl) UploadProfilePhoto(ctx context.Context, userID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", user.ErrInvalidFileType
	}

	newFilename := fmt.Sprintf("%s-%s%s", userID, uuid.NewString(), ext)
	path := filepath.Join("profiles", userID, newFilename)

	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	ref, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile photo: %w", err)
	}
	return ref, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, ref string) error {
	return s.storage.Delete(ctx, ref)
}

func (s *fileServiceImpl) GetFileURL(ref string) string {
	return s.storage.GetURL(ref)
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes buffer as JPEG, lowering quality and then
// resolution until it fits maxSize. Output is always JPEG.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		compressed, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, err
		}
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Still too large: scale down towards the target size, never up.
	for i := 0; i < 6 && len(compressed) > maxSize; i++ {
		ratio := math.Sqrt(float64(attendanceTarget) / float64(len(compressed)))
		bounds := img.Bounds()
		width := max(1, int(float64(bounds.Dx())*ratio))
		height := max(1, int(float64(bounds.Dy())*ratio))

		img = resizeImage(img, width, height)
		compressed, err = encodeJPEG(img, 70)
		if err != nil {
			return nil, err
		}
	}

	return compressed, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage uses CatmullRom for downscaling.
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

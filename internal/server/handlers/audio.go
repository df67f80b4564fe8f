package handlers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/filestore"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/metrics"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

// DefaultMaxUploadBytes limits a single upload when no limit is configured
const DefaultMaxUploadBytes int64 = 50 << 20

// multipartOverhead allows for boundaries and part headers around the file
const multipartOverhead = 1 << 20

// audioContentTypes lists accepted extensions and the type they are served with
var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
}

// AudioConfig настройки загрузки аудио
type AudioConfig struct {
	PublicBaseURL  string
	MaxUploadBytes int64
}

// AudioHandler обрабатывает загрузку и выдачу аудиофайлов
type AudioHandler struct {
	logger  *slog.Logger
	files   storage.AudioFileStorage
	blobs   filestore.Store
	metrics *metrics.Metrics
	now     func() time.Time
	cfg     AudioConfig
}

// NewAudioHandler создает handler для аудиофайлов
func NewAudioHandler(logger *slog.Logger, files storage.AudioFileStorage, blobs filestore.Store, m *metrics.Metrics, cfg AudioConfig) *AudioHandler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return &AudioHandler{
		logger:  logger,
		files:   files,
		blobs:   blobs,
		metrics: m,
		now:     time.Now,
		cfg:     cfg,
	}
}

// Upload обрабатывает POST /uploadfile/ (multipart поле "file")
func (h *AudioHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		sendUnauthorized(w, h.logger, "Could not validate credentials")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			sendError(w, h.logger, "file too large", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, h.logger, "multipart field \"file\" is required", http.StatusBadRequest)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	if header.Size > h.cfg.MaxUploadBytes {
		sendError(w, h.logger, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	name, err := filestore.CleanName(header.Filename)
	if err != nil {
		sendError(w, h.logger, "invalid file name", http.StatusBadRequest)
		return
	}

	if !isAudio(name, file) {
		sendError(w, h.logger, "only audio files are accepted", http.StatusUnsupportedMediaType)
		return
	}

	location, err := h.blobs.Save(ctx, name, file, header.Size)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to store file", slog.String("filename", name), slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	record := &models.AudioFile{
		ID:        uuid.New().String(),
		OwnerID:   user.ID,
		Filename:  name,
		Filepath:  location,
		Size:      header.Size,
		CreatedAt: h.now().UTC(),
	}

	if err := h.files.CreateAudioFile(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to save audio file record", slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	h.metrics.ObserveUpload(record.Size)
	h.logger.InfoContext(ctx, "audio file uploaded",
		slog.String("user_id", user.ID),
		slog.String("file_id", record.ID),
		slog.Int64("size", record.Size))

	sendJSON(w, h.logger, audioFileResponse(record), http.StatusCreated)
}

// List обрабатывает GET /files/ - файлы текущего пользователя
func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		sendUnauthorized(w, h.logger, "Could not validate credentials")
		return
	}

	files, err := h.files.GetUserAudioFiles(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audio files", slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	resp := api.AudioFileListResponse{Files: make([]api.AudioFileResponse, 0, len(files))}
	for _, f := range files {
		resp.Files = append(resp.Files, audioFileResponse(f))
	}

	sendJSON(w, h.logger, resp, http.StatusOK)
}

// FileURL обрабатывает GET /files/{file_name}
func (h *AudioHandler) FileURL(w http.ResponseWriter, r *http.Request) {
	name, err := filestore.CleanName(chi.URLParam(r, "file_name"))
	if err != nil {
		sendError(w, h.logger, "invalid file name", http.StatusBadRequest)
		return
	}

	sendJSON(w, h.logger, api.FileURLResponse{
		FileURL: h.cfg.PublicBaseURL + "/uploads/" + url.PathEscape(name),
	}, http.StatusOK)
}

// Serve обрабатывает GET /uploads/{file_name}
func (h *AudioHandler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name, err := filestore.CleanName(chi.URLParam(r, "file_name"))
	if err != nil {
		sendError(w, h.logger, "invalid file name", http.StatusBadRequest)
		return
	}

	rc, err := h.blobs.Open(ctx, name)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			sendError(w, h.logger, "file not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to open file", slog.String("filename", name), slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}
	defer func() {
		_ = rc.Close()
	}()

	contentType := contentTypeFor(name)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WarnContext(ctx, "failed to stream file", slog.String("filename", name), slog.Any("error", err))
	}
}

// isAudio checks the extension and sniffs the first bytes, then rewinds f
func isAudio(name string, f io.ReadSeeker) bool {
	if _, ok := audioContentTypes[strings.ToLower(filepath.Ext(name))]; !ok {
		return false
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false
	}
	if n == 0 {
		return false
	}

	sniffed := http.DetectContentType(head[:n])
	switch {
	case strings.HasPrefix(sniffed, "audio/"):
		return true
	case sniffed == "application/ogg", sniffed == "video/mp4", sniffed == "application/octet-stream":
		// ogg, m4a, flac and raw aac/mp3 frames are not recognised as audio/* by the sniffer
		return true
	default:
		return false
	}
}

func contentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func audioFileResponse(f *models.AudioFile) api.AudioFileResponse {
	return api.AudioFileResponse{
		ID:        f.ID,
		OwnerID:   f.OwnerID,
		Filename:  f.Filename,
		Filepath:  f.Filepath,
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
	}
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/filestore"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

var (
	mp3Data  = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 32)...)
	wavData  = append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 64)...)
	flacData = append([]byte("fLaC\x00\x00\x00\x22"), make([]byte, 64)...)
)

// mockAudioStorage is an in-memory AudioFileStorage
type mockAudioStorage struct {
	files     []*models.AudioFile
	createErr error
	mu        sync.Mutex
}

func (m *mockAudioStorage) CreateAudioFile(_ context.Context, file *models.AudioFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.files = append(m.files, file)
	return nil
}

func (m *mockAudioStorage) GetAudioFile(_ context.Context, id string) (*models.AudioFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, storage.ErrAudioFileNotFound
}

func (m *mockAudioStorage) GetUserAudioFiles(_ context.Context, ownerID string) ([]*models.AudioFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.AudioFile, 0)
	for _, f := range m.files {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

type audioTestEnv struct {
	handler *AudioHandler
	files   *mockAudioStorage
	blobs   *filestore.LocalStore
	router  chi.Router
}

func newAudioTestEnv(t *testing.T, maxUpload int64) *audioTestEnv {
	t.Helper()

	blobs, err := filestore.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	files := &mockAudioStorage{}
	handler := NewAudioHandler(setupTestLogger(), files, blobs, nil, AudioConfig{
		PublicBaseURL:  "http://localhost:8000/",
		MaxUploadBytes: maxUpload,
	})

	r := chi.NewRouter()
	r.Get("/files/{file_name}", handler.FileURL)
	r.Get("/uploads/{file_name}", handler.Serve)

	return &audioTestEnv{handler: handler, files: files, blobs: blobs, router: r}
}

func uploadRequest(t *testing.T, filename string, content []byte, user *models.User) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploadfile/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	return req
}

func TestAudioHandler_Upload(t *testing.T) {
	alice := &models.User{ID: "u-1", Email: "alice@example.com", IsActive: true}

	tests := []struct {
		user     *models.User
		name     string
		filename string
		content  []byte
		wantCode int
	}{
		{name: "mp3", user: alice, filename: "song.mp3", content: mp3Data, wantCode: http.StatusCreated},
		{name: "wav", user: alice, filename: "take.WAV", content: wavData, wantCode: http.StatusCreated},
		{name: "flac", user: alice, filename: "album.flac", content: flacData, wantCode: http.StatusCreated},
		{name: "path in filename is stripped", user: alice, filename: "../../etc/evil.mp3", content: mp3Data, wantCode: http.StatusCreated},
		{name: "text disguised as mp3", user: alice, filename: "notes.mp3", content: []byte("hello, this is plain text"), wantCode: http.StatusUnsupportedMediaType},
		{name: "png disguised as wav", user: alice, filename: "img.wav", content: []byte("\x89PNG\r\n\x1a\n0000"), wantCode: http.StatusUnsupportedMediaType},
		{name: "wrong extension", user: alice, filename: "song.exe", content: mp3Data, wantCode: http.StatusUnsupportedMediaType},
		{name: "empty file", user: alice, filename: "empty.mp3", content: nil, wantCode: http.StatusUnsupportedMediaType},
		{name: "no identity", filename: "song.mp3", content: mp3Data, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAudioTestEnv(t, 0)

			w := httptest.NewRecorder()
			env.handler.Upload(w, uploadRequest(t, tt.filename, tt.content, tt.user))

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusCreated {
				assert.Empty(t, env.files.files)
				return
			}

			var resp api.AudioFileResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, alice.ID, resp.OwnerID)
			assert.NotContains(t, resp.Filename, "/")
			assert.Equal(t, int64(len(tt.content)), resp.Size)
			require.Len(t, env.files.files, 1)

			rc, err := env.blobs.Open(context.Background(), resp.Filename)
			require.NoError(t, err)
			defer rc.Close()
			stored, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.content, stored)
		})
	}
}

func TestAudioHandler_Upload_TooLarge(t *testing.T) {
	env := newAudioTestEnv(t, 16)

	w := httptest.NewRecorder()
	env.handler.Upload(w, uploadRequest(t, "song.mp3", mp3Data, &models.User{ID: "u-1"}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, env.files.files)
}

func TestAudioHandler_Upload_MissingField(t *testing.T) {
	env := newAudioTestEnv(t, 0)

	req := httptest.NewRequest(http.MethodPost, "/uploadfile/", strings.NewReader("not multipart"))
	req = req.WithContext(auth.WithUser(req.Context(), &models.User{ID: "u-1"}))
	w := httptest.NewRecorder()

	env.handler.Upload(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAudioHandler_Upload_RecordFailure(t *testing.T) {
	env := newAudioTestEnv(t, 0)
	env.files.createErr = errors.New("db down")

	w := httptest.NewRecorder()
	env.handler.Upload(w, uploadRequest(t, "song.mp3", mp3Data, &models.User{ID: "u-1"}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAudioHandler_List(t *testing.T) {
	env := newAudioTestEnv(t, 0)
	alice := &models.User{ID: "u-1"}
	bob := &models.User{ID: "u-2"}

	for _, u := range []*models.User{alice, alice, bob} {
		w := httptest.NewRecorder()
		env.handler.Upload(w, uploadRequest(t, "song.mp3", mp3Data, u))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req = req.WithContext(auth.WithUser(req.Context(), alice))
	w := httptest.NewRecorder()
	env.handler.List(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp api.AudioFileListResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Files, 2)
	for _, f := range resp.Files {
		assert.Equal(t, alice.ID, f.OwnerID)
	}
}

func TestAudioHandler_FileURL(t *testing.T) {
	env := newAudioTestEnv(t, 0)

	tests := []struct {
		name    string
		path    string
		wantURL string
	}{
		{name: "plain", path: "/files/song.mp3", wantURL: "http://localhost:8000/uploads/song.mp3"},
		{name: "escaped", path: "/files/my%20song.mp3", wantURL: "http://localhost:8000/uploads/my%20song.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp api.FileURLResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantURL, resp.FileURL)
		})
	}
}

func TestAudioHandler_Serve(t *testing.T) {
	env := newAudioTestEnv(t, 0)

	_, err := env.blobs.Save(context.Background(), "song.mp3", bytes.NewReader(mp3Data), int64(len(mp3Data)))
	require.NoError(t, err)

	t.Run("existing", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/song.mp3", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, mp3Data, w.Body.Bytes())
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/nope.mp3", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

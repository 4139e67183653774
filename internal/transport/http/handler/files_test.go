package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	fileapp "github.com/go-files-api/internal/application/file"
	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockFileSvc struct{ mock.Mock }

func (m *mockFileSvc) Upload(ctx context.Context, owner *domain.User, req domain.UploadFileRequest) (*domain.File, error) {
	args := m.Called(ctx, owner, req)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileSvc) Get(ctx context.Context, userID, fileID string) (*domain.File, error) {
	args := m.Called(ctx, userID, fileID)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileSvc) List(ctx context.Context, userID string, parentID domain.ParentID, page int) ([]domain.File, error) {
	args := m.Called(ctx, userID, parentID, page)
	files, _ := args.Get(0).([]domain.File)
	return files, args.Error(1)
}

func (m *mockFileSvc) SetPublic(ctx context.Context, userID, fileID string, public bool) (*domain.File, error) {
	args := m.Called(ctx, userID, fileID, public)
	if f, _ := args.Get(0).(*domain.File); f != nil {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileSvc) Content(ctx context.Context, requester *domain.User, fileID string, size int) (*fileapp.Content, error) {
	args := m.Called(ctx, requester, fileID, size)
	if c, _ := args.Get(0).(*fileapp.Content); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

const testMaxBody = 1 << 20

// withChiID injects the {id} URL parameter as chi would.
func withChiID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func authed(r *http.Request) *http.Request {
	r.Header.Set(middleware.TokenHeader, "tok")
	return r
}

func TestUpload_Created(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Upload", mock.Anything, bob, domain.UploadFileRequest{
		Name: "images", Type: domain.FileTypeFolder, ParentID: domain.RootParent,
	}).Return(&domain.File{
		FileID: "f1", UserID: "u1", Name: "images", Type: domain.FileTypeFolder, ParentID: domain.RootParent,
	}, nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString(`{"name":"images","type":"folder","parentId":0}`)))
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, testMaxBody).Upload, bob).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":"f1","userId":"u1","name":"images","type":"folder","isPublic":false,"parentId":0}`, rr.Body.String())
}

func TestUpload_HidesLocalPath(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Upload", mock.Anything, bob, mock.Anything).Return(&domain.File{
		FileID: "f2", UserID: "u1", Name: "a.png", Type: domain.FileTypeImage, ParentID: domain.RootParent, LocalPath: "/tmp/files_manager/x",
	}, nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString(`{"name":"a.png","type":"image","data":"aGk="}`)))
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, testMaxBody).Upload, bob).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "files_manager")
}

func TestUpload_MissingName(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Upload", mock.Anything, bob, mock.Anything).Return(nil, domain.NewFault(domain.ErrInvalidInput, "Missing name"))

	req := authed(httptest.NewRequest(http.MethodPost, "/files", bytes.NewBufferString(`{"type":"file","data":"aGk="}`)))
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, testMaxBody).Upload, bob).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing name", decodeError(t, rr))
}

func TestUpload_NoUserIsUnauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	NewFileHandler(&mockFileSvc{}, testMaxBody).Upload(rr, httptest.NewRequest(http.MethodPost, "/files", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestShow_NotFound(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Get", mock.Anything, "u1", "f9").Return(nil, domain.ErrNotFound)

	req := withChiID(authed(httptest.NewRequest(http.MethodGet, "/files/f9", nil)), "f9")
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, testMaxBody).Show, bob).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Not found", decodeError(t, rr))
}

func TestIndex_ParsesQuery(t *testing.T) {
	cases := []struct {
		query      string
		wantParent domain.ParentID
		wantPage   int
	}{
		{"", "", 0},
		{"?parentId=f1&page=2", "f1", 2},
		{"?page=abc", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			svc := &mockFileSvc{}
			svc.On("List", mock.Anything, "u1", tc.wantParent, tc.wantPage).Return(nil, nil)

			req := authed(httptest.NewRequest(http.MethodGet, "/files"+tc.query, nil))
			rr := httptest.NewRecorder()
			withUser(NewFileHandler(svc, testMaxBody).Index, bob).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `[]`, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestPublishAndUnpublish(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("SetPublic", mock.Anything, "u1", "f1", true).Return(&domain.File{FileID: "f1", IsPublic: true}, nil)
	svc.On("SetPublic", mock.Anything, "u1", "f1", false).Return(&domain.File{FileID: "f1"}, nil)
	h := NewFileHandler(svc, testMaxBody)

	rr := httptest.NewRecorder()
	withUser(h.Publish, bob).ServeHTTP(rr, withChiID(authed(httptest.NewRequest(http.MethodPut, "/files/f1/publish", nil)), "f1"))
	require.Equal(t, http.StatusOK, rr.Code)
	var got domain.File
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.True(t, got.IsPublic)

	rr = httptest.NewRecorder()
	withUser(h.Unpublish, bob).ServeHTTP(rr, withChiID(authed(httptest.NewRequest(http.MethodPut, "/files/f1/unpublish", nil)), "f1"))
	require.Equal(t, http.StatusOK, rr.Code)
	got = domain.File{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.False(t, got.IsPublic)
}

func TestData_WritesBytesWithContentType(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Content", mock.Anything, (*domain.User)(nil), "f1", 250).
		Return(&fileapp.Content{Data: []byte("PNGDATA"), ContentType: "image/png"}, nil)

	rr := httptest.NewRecorder()
	NewFileHandler(svc, testMaxBody).Data(rr, withChiID(httptest.NewRequest(http.MethodGet, "/files/f1/data?size=250", nil), "f1"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "PNGDATA", rr.Body.String())
}

func TestData_NonIntegerSize(t *testing.T) {
	svc := &mockFileSvc{}
	rr := httptest.NewRecorder()
	NewFileHandler(svc, testMaxBody).Data(rr, withChiID(httptest.NewRequest(http.MethodGet, "/files/f1/data?size=big", nil), "f1"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Content", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestData_PrivateLooksMissing(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Content", mock.Anything, (*domain.User)(nil), "f1", 0).Return(nil, domain.ErrNotFound)

	rr := httptest.NewRecorder()
	NewFileHandler(svc, testMaxBody).Data(rr, withChiID(httptest.NewRequest(http.MethodGet, "/files/f1/data", nil), "f1"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rr.Body.String())
}

func TestUpload_BodyOverLimit(t *testing.T) {
	svc := &mockFileSvc{}
	body := `{"name":"big.bin","type":"file","data":"` + strings.Repeat("A", 4096) + `"}`

	req := authed(httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(body)))
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, 1024).Upload, bob).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, "Payload too large", decodeError(t, rr))
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpload_MalformedBody(t *testing.T) {
	svc := &mockFileSvc{}
	req := authed(httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(`{"name":`)))
	rr := httptest.NewRecorder()
	withUser(NewFileHandler(svc, testMaxBody).Upload, bob).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", decodeError(t, rr))
}

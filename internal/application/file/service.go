package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-files-api/internal/domain"
	"github.com/go-files-api/internal/pkg/id"
	"github.com/go-files-api/internal/pkg/validate"
	"github.com/go-files-api/internal/queue"
	"github.com/google/uuid"
)

// PageSize is the number of records returned per List page.
const PageSize = 20

// MaxPage is the last page List will query; later pages are empty.
const MaxPage = math.MaxInt32 / PageSize

// Content is the payload served by GET /files/:id/data.
type Content struct {
	Data        []byte
	ContentType string
}

type Service interface {
	Upload(ctx context.Context, owner *domain.User, req domain.UploadFileRequest) (*domain.File, error)
	Get(ctx context.Context, userID, fileID string) (*domain.File, error)
	List(ctx context.Context, userID string, parentID domain.ParentID, page int) ([]domain.File, error)
	SetPublic(ctx context.Context, userID, fileID string, public bool) (*domain.File, error)
	Content(ctx context.Context, requester *domain.User, fileID string, size int) (*Content, error)
}

type fileStore interface {
	Put(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, fileID string) (*domain.File, error)
	GetOwned(ctx context.Context, fileID, userID string) (*domain.File, error)
	ListByParent(ctx context.Context, userID string, parentID domain.ParentID, page, perPage int) ([]domain.File, error)
	SetPublic(ctx context.Context, fileID string, public bool) (*domain.File, error)
	Delete(ctx context.Context, fileID string) error
}

type contentStore interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Remove(ctx context.Context, path string) error
}

type thumbnailQueue interface {
	EnqueueThumbnail(ctx context.Context, payload queue.ThumbnailPayload) error
}

type service struct {
	files      fileStore
	content    contentStore
	queue      thumbnailQueue
	folderPath string
	log        *slog.Logger
	newName    func() string
}

type ServiceDeps struct {
	FileRepo   fileStore
	Content    contentStore
	Queue      thumbnailQueue
	FolderPath string
	Logger     *slog.Logger
	// NewName overrides content file naming; defaults to a random UUID.
	NewName func() string
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		files:      deps.FileRepo,
		content:    deps.Content,
		queue:      deps.Queue,
		folderPath: deps.FolderPath,
		log:        deps.Logger,
		newName:    deps.NewName,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.newName == nil {
		s.newName = uuid.NewString
	}
	return s
}

var uploadMessages = map[string]string{
	"name": "Missing name",
	"type": "Missing type",
	"data": "Missing data",
}

// Upload stores a folder record, or content plus record plus thumbnail job.
// A failure after the content is written removes what was already stored,
// so a client never sees a partial upload.
func (s *service) Upload(ctx context.Context, owner *domain.User, req domain.UploadFileRequest) (*domain.File, error) {
	if err := validate.Struct(req); err != nil {
		var fe *validate.FieldError
		if errors.As(err, &fe) {
			if msg, ok := uploadMessages[fe.Field]; ok {
				return nil, domain.NewFault(domain.ErrInvalidInput, msg)
			}
		}
		return nil, fmt.Errorf("validate upload: %w", err)
	}

	parentID := req.ParentID.Normalize()
	if !parentID.IsRoot() {
		if err := s.checkParent(ctx, owner.UserID, string(parentID)); err != nil {
			return nil, err
		}
	}

	f := &domain.File{
		FileID:    id.New(),
		UserID:    owner.UserID,
		Name:      req.Name,
		Type:      req.Type,
		IsPublic:  req.IsPublic,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if f.IsFolder() {
		if err := s.files.Put(ctx, f); err != nil {
			return nil, err
		}
		return f, nil
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return nil, domain.NewFault(domain.ErrInvalidInput, "Invalid data")
	}
	f.LocalPath = filepath.Join(s.folderPath, s.newName())

	if err := s.content.Write(ctx, f.LocalPath, data); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}
	if err := s.files.Put(ctx, f); err != nil {
		s.removeContent(ctx, f.LocalPath)
		return nil, err
	}
	if err := s.queue.EnqueueThumbnail(ctx, queue.ThumbnailPayload{UserID: f.UserID, FileID: f.FileID}); err != nil {
		if delErr := s.files.Delete(ctx, f.FileID); delErr != nil {
			s.log.Error("could not remove file record after enqueue failure", "fileId", f.FileID, "err", delErr)
		}
		s.removeContent(ctx, f.LocalPath)
		return nil, err
	}
	return f, nil
}

func (s *service) checkParent(ctx context.Context, userID, parentID string) error {
	if !id.Valid(parentID) {
		return domain.NewFault(domain.ErrParentNotFound, "Parent not found")
	}
	parent, err := s.files.GetOwned(ctx, parentID, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewFault(domain.ErrParentNotFound, "Parent not found")
	}
	if err != nil {
		return err
	}
	if !parent.IsFolder() {
		return domain.NewFault(domain.ErrParentNotAFolder, "Parent is not a folder")
	}
	return nil
}

func (s *service) removeContent(ctx context.Context, path string) {
	if err := s.content.Remove(ctx, path); err != nil {
		s.log.Error("could not remove orphaned content", "path", path, "err", err)
	}
}

func (s *service) Get(ctx context.Context, userID, fileID string) (*domain.File, error) {
	if !id.Valid(fileID) {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrNotFound)
	}
	return s.files.GetOwned(ctx, fileID, userID)
}

func (s *service) List(ctx context.Context, userID string, parentID domain.ParentID, page int) ([]domain.File, error) {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		return []domain.File{}, nil
	}
	return s.files.ListByParent(ctx, userID, parentID.Normalize(), page, PageSize)
}

func (s *service) SetPublic(ctx context.Context, userID, fileID string, public bool) (*domain.File, error) {
	if _, err := s.Get(ctx, userID, fileID); err != nil {
		return nil, err
	}
	return s.files.SetPublic(ctx, fileID, public)
}

// Content returns the original bytes (size 0) or a thumbnail. Records the
// requester may not see are reported exactly like missing ones.
func (s *service) Content(ctx context.Context, requester *domain.User, fileID string, size int) (*Content, error) {
	if !id.Valid(fileID) {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrNotFound)
	}
	f, err := s.files.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	owner := requester != nil && requester.UserID == f.UserID
	if !f.IsPublic && !owner {
		return nil, fmt.Errorf("file %q: %w", fileID, domain.ErrNotFound)
	}
	if f.IsFolder() {
		return nil, domain.NewFault(domain.ErrBadRequest, "A folder doesn't have content")
	}
	if !domain.ValidSize(size) {
		return nil, domain.NewFault(domain.ErrBadRequest, "Invalid size")
	}
	data, err := s.content.Read(ctx, f.ContentPath(size))
	if err != nil {
		s.log.Debug("content unavailable", "fileId", fileID, "size", size, "err", err)
		return nil, fmt.Errorf("file %q size %d: %w", fileID, size, domain.ErrNotFound)
	}
	return &Content{Data: data, ContentType: contentType(f.Name, data)}, nil
}

// contentType prefers the name's extension and falls back to sniffing.
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}

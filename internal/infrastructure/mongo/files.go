package mongoinfra

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-files-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FileRepo stores file records in the "files" collection.
type FileRepo struct {
	c *mongo.Collection
}

func NewFileRepo(db *mongo.Database) *FileRepo {
	return &FileRepo{c: db.Collection(filesCollection)}
}

func (r *FileRepo) Put(ctx context.Context, f *domain.File) error {
	if _, err := r.c.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *FileRepo) Get(ctx context.Context, fileID string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": fileID})
}

func (r *FileRepo) GetOwned(ctx context.Context, fileID, userID string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": fileID, "userId": userID})
}

// ListByParent returns one zero-based page of userID's files under parentID,
// ordered by id.
func (r *FileRepo) ListByParent(ctx context.Context, userID string, parentID domain.ParentID, page, perPage int) ([]domain.File, error) {
	skip, ok := pageOffset(page, perPage)
	if !ok {
		return []domain.File{}, nil
	}
	files := make([]domain.File, 0, perPage)
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(skip).
		SetLimit(int64(perPage))
	cur, err := r.c.Find(ctx, listFilter(userID, parentID), opts)
	if err != nil {
		return nil, fmt.Errorf("find files: %w", err)
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	return files, nil
}

func (r *FileRepo) SetPublic(ctx context.Context, fileID string, public bool) (*domain.File, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var f domain.File
	err := r.c.FindOneAndUpdate(ctx,
		bson.M{"_id": fileID},
		bson.M{"$set": bson.M{"isPublic": public}},
		opts,
	).Decode(&f)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update file: %w", err)
	}
	return &f, nil
}

func (r *FileRepo) Delete(ctx context.Context, fileID string) error {
	if _, err := r.c.DeleteOne(ctx, bson.M{"_id": fileID}); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (r *FileRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

func (r *FileRepo) findOne(ctx context.Context, filter bson.M) (*domain.File, error) {
	var f domain.File
	if err := r.c.FindOne(ctx, filter).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return &f, nil
}

func listFilter(userID string, parentID domain.ParentID) bson.M {
	return bson.M{"userId": userID, "parentId": string(parentID.Normalize())}
}

// pageOffset returns the document offset of a zero-based page, or false when
// the page holds nothing or its offset overflows.
func pageOffset(page, perPage int) (int64, bool) {
	if perPage <= 0 || page > math.MaxInt/perPage {
		return 0, false
	}
	if page < 0 {
		page = 0
	}
	return int64(page) * int64(perPage), true
}

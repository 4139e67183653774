package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-files-api/internal/domain"
)

// FileRepo provides typed DynamoDB operations for the files table.
type FileRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFileRepo(client *dynamodb.Client, tableName string) *FileRepo {
	return &FileRepo{client: client, tableName: tableName}
}

func (r *FileRepo) Put(ctx context.Context, f *domain.File) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal file: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put file: %w", err)
	}
	return nil
}

// Get reads a file with strong consistency so a job enqueued right after Put
// always sees the record.
func (r *FileRepo) Get(ctx context.Context, fileID string) (*domain.File, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldFileID, fileID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	var f domain.File
	if err := attributevalue.UnmarshalMap(out.Item, &f); err != nil {
		return nil, fmt.Errorf("unmarshal file: %w", err)
	}
	return &f, nil
}

// GetOwned returns the file only when it belongs to userID.
func (r *FileRepo) GetOwned(ctx context.Context, fileID, userID string) (*domain.File, error) {
	f, err := r.Get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
	}
	return f, nil
}

// ListByParent returns one zero-based page of userID's files under parentID,
// ordered by file id. DynamoDB has no offset, so earlier pages are walked.
func (r *FileRepo) ListByParent(ctx context.Context, userID string, parentID domain.ParentID, page, perPage int) ([]domain.File, error) {
	skip, take := pageWindow(page, perPage)
	files := make([]domain.File, 0, take)
	if take == 0 {
		return files, nil
	}
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(indexParentID),
		KeyConditionExpression: aws.String("#p = :p"),
		FilterExpression:       aws.String("#u = :u"),
		ExpressionAttributeNames: map[string]string{
			"#p": fieldParentID,
			"#u": fieldUserID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: string(parentID.Normalize())},
			":u": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(true),
	})
	for p.HasMorePages() && len(files) < take {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query files: %w", err)
		}
		var batch []domain.File
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
		for _, f := range batch {
			if skip > 0 {
				skip--
				continue
			}
			if len(files) == take {
				break
			}
			files = append(files, f)
		}
	}
	return files, nil
}

// SetPublic updates is_public on an existing file and returns the new record.
func (r *FileRepo) SetPublic(ctx context.Context, fileID string, public bool) (*domain.File, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldIsPublic:  public,
		fieldUpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	ue.Names["#pk"] = fieldFileID
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldFileID, fileID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, fmt.Errorf("file not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update file: %w", err)
	}
	var f domain.File
	if err := attributevalue.UnmarshalMap(out.Attributes, &f); err != nil {
		return nil, fmt.Errorf("unmarshal file: %w", err)
	}
	return &f, nil
}

func (r *FileRepo) Delete(ctx context.Context, fileID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldFileID, fileID),
	})
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (r *FileRepo) Count(ctx context.Context) (int64, error) {
	return countItems(ctx, r.client, r.tableName)
}

package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/movietrack-api/internal/domain"
)

// ListRepo persists one whole-document movie list per user. The same repo
// type serves both the watchlists and the watched table — the table name is
// the only difference.
//
// Writes are version-conditioned: a rewrite only succeeds when the stored
// version still matches the one the document was read at, so two concurrent
// read-modify-write cycles cannot silently drop each other's entries.
type ListRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewListRepo(client *dynamodb.Client, tableName string) *ListRepo {
	return &ListRepo{client: client, tableName: tableName}
}

// Get returns the user's list document, or domain.ErrNotFound if the user
// has never written one.
func (r *ListRepo) Get(ctx context.Context, userID string) (*domain.ListDocument, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("list not found: %w", domain.ErrNotFound)
	}
	var doc domain.ListDocument
	if err := attributevalue.UnmarshalMap(out.Item, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Put rewrites the whole document. doc.Version must be the version the
// caller read (0 for a document that does not exist yet); the stored version
// is bumped on success. A failed condition check means another writer got
// there first and is reported as domain.ErrConflict.
func (r *ListRepo) Put(ctx context.Context, doc *domain.ListDocument) error {
	readVersion := doc.Version
	doc.Version = readVersion + 1
	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		doc.Version = readVersion
		return fmt.Errorf("marshal list document: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}
	if readVersion == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(user_id)")
	} else {
		input.ConditionExpression = aws.String("version = :expected")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":expected": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", readVersion)},
		}
	}

	_, err = r.client.PutItem(ctx, input)
	if err != nil {
		doc.Version = readVersion
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("list modified concurrently: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nonomnouns/clankpad/internal/domain"
)

// NotificationTokenRepo provides typed DynamoDB operations for the
// notification_tokens table. The table is keyed by (fid, token), so writing
// the same token again is an upsert and a fid can hold several tokens.
type NotificationTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewNotificationTokenRepo(client *dynamodb.Client, tableName string) *NotificationTokenRepo {
	return &NotificationTokenRepo{client: client, tableName: tableName}
}

func (r *NotificationTokenRepo) Upsert(ctx context.Context, t *domain.NotificationToken) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal notification token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByFID returns every stored delivery token for the fid. An empty slice
// is not an error — callers decide what "no tokens" means.
func (r *NotificationTokenRepo) ListByFID(ctx context.Context, fid int64) ([]domain.NotificationToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("fid = :fid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fid": &types.AttributeValueMemberN{Value: strconv.FormatInt(fid, 10)},
		},
	})
	if err != nil {
		return nil, err
	}
	var tokens []domain.NotificationToken
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteByFID removes every token stored for the fid.
func (r *NotificationTokenRepo) DeleteByFID(ctx context.Context, fid int64) error {
	tokens, err := r.ListByFID(ctx, fid)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       numStrKey("fid", t.FID, "token", t.Token),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

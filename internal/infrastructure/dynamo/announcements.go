package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nonomnouns/clankpad/internal/domain"
)

// feedPartition is the constant hash key of the feed GSI. Every announcement
// carries it so the whole feed lives in one queryable partition, ordered by id.
const feedPartition = "all"

// AnnouncementRepo provides typed DynamoDB operations for the announcements table.
// Announcements are written out-of-band; this service only reads them.
type AnnouncementRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAnnouncementRepo(client *dynamodb.Client, tableName string) *AnnouncementRepo {
	return &AnnouncementRepo{client: client, tableName: tableName}
}

// List returns all announcements, most recent first.
func (r *AnnouncementRepo) List(ctx context.Context) ([]domain.Announcement, error) {
	out, err := r.queryFeed(ctx, 0)
	if err != nil {
		return nil, err
	}
	var announcements []domain.Announcement
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// GetLatest returns the most recent announcement.
func (r *AnnouncementRepo) GetLatest(ctx context.Context) (*domain.Announcement, error) {
	out, err := r.queryFeed(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("no announcements: %w", domain.ErrNotFound)
	}
	var a domain.Announcement
	if err := attributevalue.UnmarshalMap(out.Items[0], &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementRepo) queryFeed(ctx context.Context, limit int32) (*dynamodb.QueryOutput, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("feed-id-index"),
		KeyConditionExpression: aws.String("feed = :feed"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":feed": &types.AttributeValueMemberS{Value: feedPartition},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	return r.client.Query(ctx, input)
}

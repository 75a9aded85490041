package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nonomnouns/clankpad/internal/domain"
)

// TokenRequestRepo provides typed DynamoDB operations for the token_requests table.
type TokenRequestRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTokenRequestRepo(client *dynamodb.Client, tableName string) *TokenRequestRepo {
	return &TokenRequestRepo{client: client, tableName: tableName}
}

func (r *TokenRequestRepo) Put(ctx context.Context, req *domain.TokenRequest) error {
	item, err := attributevalue.MarshalMap(req)
	if err != nil {
		return fmt.Errorf("marshal token request: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetByTickerFID looks up a request via the fid-ticker GSI.
func (r *TokenRequestRepo) GetByTickerFID(ctx context.Context, ticker string, fid int64) (*domain.TokenRequest, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("fid-ticker-index"),
		KeyConditionExpression: aws.String("fid = :fid AND ticker = :ticker"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fid":    &types.AttributeValueMemberN{Value: strconv.FormatInt(fid, 10)},
			":ticker": &types.AttributeValueMemberS{Value: ticker},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("token request not found: %w", domain.ErrNotFound)
	}
	var req domain.TokenRequest
	if err := attributevalue.UnmarshalMap(out.Items[0], &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// SetTerminalStatus commits the pending -> success|failed transition for the
// request identified by (ticker, fid). The update is conditional on the
// current status still being pending, so concurrent polls commit at most once;
// a lost race is treated as success because the terminal state is already
// durable.
func (r *TokenRequestRepo) SetTerminalStatus(ctx context.Context, ticker string, fid int64, status, message string) error {
	req, err := r.GetByTickerFID(ctx, ticker, fid)
	if err != nil {
		return err
	}

	expr, names, values, err := buildUpdateExpr(map[string]interface{}{
		"status":     status,
		"message":    message,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	names["#st"] = "status"
	values[":pending"] = &types.AttributeValueMemberS{Value: domain.StatusPending}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("request_id", req.RequestID),
		UpdateExpression:          aws.String(expr),
		ConditionExpression:       aws.String("#st = :pending"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil
		}
		return err
	}
	return nil
}

// Delete removes the request for (ticker, fid). Deleting a request that does
// not exist is not an error.
func (r *TokenRequestRepo) Delete(ctx context.Context, ticker string, fid int64) error {
	req, err := r.GetByTickerFID(ctx, ticker, fid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("request_id", req.RequestID),
	})
	return err
}

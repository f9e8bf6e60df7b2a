package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	dynamoinfra "github.com/cassiomorais/checkout/internal/infrastructure/dynamodb"
)

const keyAttribute = "external_reference"

type paidItem struct {
	ExternalReference string `dynamodbav:"external_reference"`
	PaidAt            string `dynamodbav:"paid_at"`
}

// PaidSetRepository stores one item per paid reference, keyed by
// external_reference. A conditional put keeps the first paid_at.
type PaidSetRepository struct {
	client    dynamoinfra.API
	tableName string
	nowFunc   func() time.Time
}

func NewPaidSetRepository(client dynamoinfra.API, tableName string) *PaidSetRepository {
	return &PaidSetRepository{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

func (r *PaidSetRepository) MarkPaid(ctx context.Context, externalReference string) error {
	item, err := attributevalue.MarshalMap(paidItem{
		ExternalReference: externalReference,
		PaidAt:            r.nowFunc().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal paid item: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + keyAttribute + ")"),
	})
	if err != nil {
		// already paid
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return nil
		}
		return fmt.Errorf("mark paid: %w", err)
	}
	return nil
}

func (r *PaidSetRepository) IsPaid(ctx context.Context, externalReference string) (bool, error) {
	out, err := r.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			keyAttribute: &types.AttributeValueMemberS{Value: externalReference},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("is paid: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (r *PaidSetRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dyn.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", r.tableName, err)
	}
	return nil
}

package dynamodb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTable is a small in-memory stand-in for one DynamoDB table.
type memoryTable struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	putCalls int
	err      error
}

func newMemoryTable() *memoryTable {
	return &memoryTable{items: map[string]map[string]types.AttributeValue{}}
}

func (m *memoryTable) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.err != nil {
		return nil, m.err
	}
	k := params.Item[keyAttribute].(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(external_reference)" {
		if _, ok := m.items[k]; ok {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *memoryTable) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	k := params.Key[keyAttribute].(*types.AttributeValueMemberS).Value
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *memoryTable) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dyn.DescribeTableOutput{}, nil
}

func TestPaidSetRepository_MarkPaidIsIdempotent(t *testing.T) {
	table := newMemoryTable()
	repo := NewPaidSetRepository(table, "paid_references")
	first := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.nowFunc = func() time.Time { return first }
	ctx := context.Background()

	require.NoError(t, repo.MarkPaid(ctx, "ORDER-1"))

	repo.nowFunc = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, repo.MarkPaid(ctx, "ORDER-1"))

	assert.Equal(t, 2, table.putCalls)
	require.Len(t, table.items, 1)
	paidAt := table.items["ORDER-1"]["paid_at"].(*types.AttributeValueMemberS).Value
	assert.Equal(t, "2024-03-10T12:00:00Z", paidAt)
}

func TestPaidSetRepository_IsPaid(t *testing.T) {
	table := newMemoryTable()
	repo := NewPaidSetRepository(table, "paid_references")
	ctx := context.Background()

	paid, err := repo.IsPaid(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.False(t, paid)

	require.NoError(t, repo.MarkPaid(ctx, "ORDER-1"))

	paid, err = repo.IsPaid(ctx, "ORDER-1")
	require.NoError(t, err)
	assert.True(t, paid)

	paid, err = repo.IsPaid(ctx, "ORDER-2")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestPaidSetRepository_Errors(t *testing.T) {
	table := newMemoryTable()
	table.err = errors.New("throttled")
	repo := NewPaidSetRepository(table, "paid_references")
	ctx := context.Background()

	assert.ErrorContains(t, repo.MarkPaid(ctx, "ORDER-1"), "mark paid")

	_, err := repo.IsPaid(ctx, "ORDER-1")
	assert.ErrorContains(t, err, "is paid")

	assert.ErrorContains(t, repo.Ping(ctx), "paid_references")
}

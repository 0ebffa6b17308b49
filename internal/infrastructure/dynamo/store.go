package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-otc-auth/internal/domain"
)

// Store is a TTL namespace kept in one DynamoDB table.
// PK: key. expires_at is the table's TTL attribute.
type Store struct {
	client    API
	tableName string
	now       func() time.Time
}

func NewStore(client API, tableName string) *Store {
	return &Store{client: client, tableName: tableName, now: time.Now}
}

func (s *Store) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", domain.ErrBadRequest)
	}
	item, err := attributevalue.MarshalMap(domain.NewEntry(key, value, s.now(), ttl))
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            strKey(fieldKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", err
	}
	if out.Item == nil {
		return "", fmt.Errorf("entry not found: %w", domain.ErrNotFound)
	}
	var e domain.Entry
	if err := attributevalue.UnmarshalMap(out.Item, &e); err != nil {
		return "", err
	}
	if e.Expired(s.now()) {
		return "", fmt.Errorf("entry expired: %w", domain.ErrNotFound)
	}
	return e.Value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       strKey(fieldKey, key),
	})
	return err
}

// Keys scans the whole table. Fine for an admin listing; not for hot paths.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	now := s.now()
	f := newLiveFilter(now)
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.tableName),
		FilterExpression:          aws.String(f.Expr),
		ProjectionExpression:      aws.String(f.Projection),
		ExpressionAttributeNames:  f.Names,
		ExpressionAttributeValues: f.Values,
		ConsistentRead:            aws.Bool(true),
	})
	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var entries []domain.Entry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &entries); err != nil {
			return nil, fmt.Errorf("unmarshal entries: %w", err)
		}
		for _, e := range entries {
			if !e.Expired(now) {
				keys = append(keys, e.Key)
			}
		}
	}
	return keys, nil
}

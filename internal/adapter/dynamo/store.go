// Package dynamo stores partners and statistics in a single DynamoDB table
// keyed by PK=USER#<id> and SK=PARTNER#<id> or SK=STATS.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"supportraise/internal/domain"
)

const (
	partnerPrefix = "PARTNER#"
	statsKey      = "STATS"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type partnerItem struct {
	PK              string     `dynamodbav:"PK"`
	SK              string     `dynamodbav:"SK"`
	ID              string     `dynamodbav:"id"`
	Name            string     `dynamodbav:"name"`
	Email           *string    `dynamodbav:"email,omitempty"`
	Number          *string    `dynamodbav:"number,omitempty"`
	Status          string     `dynamodbav:"status"`
	NextStepDate    *time.Time `dynamodbav:"next_step_date,omitempty"`
	PledgedAmount   *float64   `dynamodbav:"pledged_amount,omitempty"`
	ConfirmedAmount *float64   `dynamodbav:"confirmed_amount,omitempty"`
	ConfirmedDate   *time.Time `dynamodbav:"confirmed_date,omitempty"`
	Notes           string     `dynamodbav:"notes"`
	Saved           bool       `dynamodbav:"saved"`
	UpdatedAt       time.Time  `dynamodbav:"updated_at"`
}

type statsItem struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	Target    float64   `dynamodbav:"target"`
	Deadline  time.Time `dynamodbav:"deadline"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Store implements domain.PartnerStore on DynamoDB.
type Store struct {
	api   API
	table string
	now   func() time.Time
}

func NewStore(api API, table string) *Store {
	return &Store{api: api, table: table, now: time.Now}
}

func userKey(userID string) string {
	return "USER#" + userID
}

func itemKey(userID, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: userKey(userID)},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// ListPartners queries every partner item under the user's partition,
// following pagination.
func (s *Store) ListPartners(ctx context.Context, userID string) ([]domain.Partner, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: userKey(userID)},
			":sk": &types.AttributeValueMemberS{Value: partnerPrefix},
		},
	}

	partners := []domain.Partner{}
	for {
		out, err := s.api.Query(ctx, input)
		if err != nil {
			return nil, remote("query partners", err)
		}
		var items []partnerItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, remote("decode partners", err)
		}
		for _, it := range items {
			partners = append(partners, it.partner())
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return partners, nil
}

func (s *Store) GetPartner(ctx context.Context, userID, partnerID string) (*domain.Partner, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(userID, partnerPrefix+partnerID),
	})
	if err != nil {
		return nil, remote("get partner", err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
	}
	var it partnerItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, remote("decode partner", err)
	}
	p := it.partner()
	return &p, nil
}

func (s *Store) UpsertPartner(ctx context.Context, userID string, p domain.Partner) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if p.ID == "" {
		return domain.Invalid("id", "required")
	}
	item, err := attributevalue.MarshalMap(partnerItem{
		PK:              userKey(userID),
		SK:              partnerPrefix + p.ID,
		ID:              p.ID,
		Name:            p.Name,
		Email:           p.Email,
		Number:          p.Number,
		Status:          string(p.Status),
		NextStepDate:    p.NextStepDate,
		PledgedAmount:   p.PledgedAmount,
		ConfirmedAmount: p.ConfirmedAmount,
		ConfirmedDate:   p.ConfirmedDate,
		Notes:           p.Notes,
		Saved:           p.Saved,
		UpdatedAt:       s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode partner: %w", err)
	}
	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return remote("put partner", err)
	}
	return nil
}

// DeletePartner removes the partner item. A missing item reports
// domain.ErrNotFound through the attribute_exists condition.
func (s *Store) DeletePartner(ctx context.Context, userID, partnerID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.table),
		Key:                 itemKey(userID, partnerPrefix+partnerID),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("partner %s: %w", partnerID, domain.ErrNotFound)
		}
		return remote("delete partner", err)
	}
	return nil
}

func (s *Store) GetStatistics(ctx context.Context, userID string) (*domain.Statistics, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       itemKey(userID, statsKey),
	})
	if err != nil {
		return nil, remote("get statistics", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it statsItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, remote("decode statistics", err)
	}
	return &domain.Statistics{Target: it.Target, Deadline: it.Deadline}, nil
}

func (s *Store) PutStatistics(ctx context.Context, userID string, stats domain.Statistics) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	item, err := attributevalue.MarshalMap(statsItem{
		PK:        userKey(userID),
		SK:        statsKey,
		Target:    stats.Target,
		Deadline:  stats.Deadline,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	if _, err := s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return remote("put statistics", err)
	}
	return nil
}

func (it partnerItem) partner() domain.Partner {
	id := it.ID
	if id == "" {
		id = strings.TrimPrefix(it.SK, partnerPrefix)
	}
	return domain.Partner{
		ID:              id,
		Name:            it.Name,
		Email:           it.Email,
		Number:          it.Number,
		Status:          domain.Status(it.Status),
		NextStepDate:    it.NextStepDate,
		PledgedAmount:   it.PledgedAmount,
		ConfirmedAmount: it.ConfirmedAmount,
		ConfirmedDate:   it.ConfirmedDate,
		Notes:           it.Notes,
		Saved:           it.Saved,
	}
}

func remote(op string, err error) error {
	return fmt.Errorf("%w: dynamodb %s: %w", domain.ErrRemoteUnavailable, op, err)
}

var _ domain.PartnerStore = (*Store)(nil)

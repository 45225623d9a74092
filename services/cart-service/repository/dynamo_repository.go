package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
)

const batchWriteLimit = 25

// DynamoAPI is the subset of *dynamodb.Client the cart store uses.
type DynamoAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoRepository stores cart items in a table with partition key user_id and
// sort key item_id. Expiry uses the table's native TTL on the ttl attribute.
type DynamoRepository struct {
	client  DynamoAPI
	table   string
	ttlDays int
	now     func() time.Time
}

func NewDynamoRepository(client DynamoAPI, table string, ttlDays int) *DynamoRepository {
	return &DynamoRepository{client: client, table: table, ttlDays: ttlDays, now: time.Now}
}

func (d *DynamoRepository) Name() string { return "dynamodb:" + d.table }

// ddbDecimal stores a decimal as a DynamoDB number without a float round trip.
type ddbDecimal struct {
	decimal.Decimal
}

func (d ddbDecimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.String()}, nil
}

func (d *ddbDecimal) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("price: expected number attribute, got %T", av)
	}
	v, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	d.Decimal = v
	return nil
}

type ddbCartItem struct {
	UserID      string     `dynamodbav:"user_id"`
	ItemID      string     `dynamodbav:"item_id"`
	ProductID   int64      `dynamodbav:"product_id"`
	ProductName string     `dynamodbav:"product_name"`
	Quantity    int        `dynamodbav:"quantity"`
	Price       ddbDecimal `dynamodbav:"price"`
	AddedAt     string     `dynamodbav:"added_at"`
	TTL         *int64     `dynamodbav:"ttl,omitempty"`
}

func toDDB(i *models.CartItem) ddbCartItem {
	return ddbCartItem{
		UserID:      i.UserID,
		ItemID:      i.ItemID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       ddbDecimal{i.Price},
		AddedAt:     i.AddedAt,
		TTL:         i.TTL,
	}
}

func (di ddbCartItem) model() models.CartItem {
	return models.CartItem{
		UserID:      di.UserID,
		ItemID:      di.ItemID,
		ProductID:   di.ProductID,
		ProductName: di.ProductName,
		Quantity:    di.Quantity,
		Price:       di.Price.Decimal,
		AddedAt:     di.AddedAt,
		TTL:         di.TTL,
	}
}

func itemKey(userID, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: userID},
		"item_id": &types.AttributeValueMemberS{Value: itemID},
	}
}

func (d *DynamoRepository) GetUserCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              &d.table,
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})

	now := d.now()
	items := []models.CartItem{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb Query failed: %w", err)
		}
		var raw []ddbCartItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
		for _, r := range raw {
			if it := r.model(); !it.Expired(now) {
				items = append(items, it)
			}
		}
	}
	return items, nil
}

func (d *DynamoRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	item.Prepare(d.now(), d.ttlDays)

	av, err := attributevalue.MarshalMap(toDDB(item))
	if err != nil {
		return fmt.Errorf("marshal cart item: %w", err)
	}
	if _, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{TableName: &d.table, Item: av}); err != nil {
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (d *DynamoRepository) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItem, error) {
	out, err := d.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &d.table,
		Key:                 itemKey(userID, models.ItemIDFor(productID)),
		UpdateExpression:    aws.String("SET quantity = :q"),
		ConditionExpression: aws.String("attribute_exists(item_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q": &types.AttributeValueMemberN{Value: fmt.Sprint(quantity)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}

	var raw ddbCartItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal cart item: %w", err)
	}
	it := raw.model()
	return &it, nil
}

func (d *DynamoRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &d.table,
		Key:       itemKey(userID, models.ItemIDFor(productID)),
	})
	if err != nil {
		return fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	return nil
}

func (d *DynamoRepository) ClearCart(ctx context.Context, userID string) error {
	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              &d.table,
		KeyConditionExpression: aws.String("user_id = :uid"),
		ProjectionExpression:   aws.String("user_id, item_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})

	var deletes []types.WriteRequest
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("dynamodb Query failed: %w", err)
		}
		for _, it := range page.Items {
			deletes = append(deletes, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: map[string]types.AttributeValue{
					"user_id": it["user_id"],
					"item_id": it["item_id"],
				}},
			})
		}
	}

	for i := 0; i < len(deletes); i += batchWriteLimit {
		end := i + batchWriteLimit
		if end > len(deletes) {
			end = len(deletes)
		}
		if err := d.batchWrite(ctx, deletes[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// batchWrite sends one chunk and resubmits unprocessed requests a few times
// with a growing pause.
func (d *DynamoRepository) batchWrite(ctx context.Context, reqs []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{d.table: reqs}
	for attempt := 0; attempt < 3; attempt++ {
		out, err := d.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("dynamodb BatchWriteItem failed: %w", err)
		}
		if len(out.UnprocessedItems) == 0 || len(out.UnprocessedItems[d.table]) == 0 {
			return nil
		}
		pending = out.UnprocessedItems
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(300*(attempt+1)) * time.Millisecond):
		}
	}
	return fmt.Errorf("dynamodb BatchWriteItem left %d unprocessed deletes", len(pending[d.table]))
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tableup/restaurant-auth/internal/core/domain"
	"github.com/tableup/restaurant-auth/internal/core/ports"
)

const orderCollection = "orders"

// OrderRepository persists kitchen orders in MongoDB.
type OrderRepository struct {
	coll *mongo.Collection
	ids  *snowflake.Node
}

func NewOrderRepository(db *mongo.Database, ids *snowflake.Node) *OrderRepository {
	return &OrderRepository{coll: db.Collection(orderCollection), ids: ids}
}

// EnsureIndexes creates the order_number and status/created_at indexes.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_number", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure order indexes: %w", err)
	}
	return nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	created := *order
	created.ID = r.ids.Generate().Int64()

	if _, err := r.coll.InsertOne(ctx, &created); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return &created, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// LastOrderNumber returns the highest order number for the given date prefix.
func (r *OrderRepository) LastOrderNumber(ctx context.Context, datePrefix string) (string, error) {
	filter := bson.M{"order_number": bson.M{"$regex": "^" + datePrefix}}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "order_number", Value: -1}}).
		SetProjection(bson.M{"order_number": 1})

	var doc struct {
		OrderNumber string `bson:"order_number"`
	}
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return doc.OrderNumber, nil
}

func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		created["$lt"] = filter.DateTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	sortDir := -1
	if filter.Ascending {
		sortDir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: sortDir}})

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*domain.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("list orders: decode: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete order: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *OrderRepository) Counts(ctx context.Context, startOfToday time.Time) (*ports.OrderCounts, error) {
	counts := &ports.OrderCounts{}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	counts.Total = total

	byStatus := map[domain.OrderStatus]*int64{
		domain.OrderPending:   &counts.Pending,
		domain.OrderPreparing: &counts.Preparing,
		domain.OrderReady:     &counts.Ready,
	}
	for status, dst := range byStatus {
		n, err := r.coll.CountDocuments(ctx, bson.M{"status": string(status)})
		if err != nil {
			return nil, fmt.Errorf("count %s orders: %w", status, err)
		}
		*dst = n
	}

	today, err := r.coll.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": startOfToday}})
	if err != nil {
		return nil, fmt.Errorf("count today orders: %w", err)
	}
	counts.Today = today

	return counts, nil
}

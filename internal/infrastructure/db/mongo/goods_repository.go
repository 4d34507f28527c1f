package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minishop/storefront/internal/core/domain"
	"github.com/minishop/storefront/internal/core/ports"
)

const goodsCollection = "goods"

type GoodsRepository struct {
	coll *mongo.Collection
}

func NewGoodsRepository(db *mongo.Database) *GoodsRepository {
	return &GoodsRepository{coll: db.Collection(goodsCollection)}
}

type mongoGoods struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	SellerID    string             `bson:"seller_id"`
	Price       float64            `bson:"price"`
	Image       string             `bson:"image,omitempty"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
}

func (mg *mongoGoods) toDomain() *domain.Goods {
	return &domain.Goods{
		ID:          mg.ID.Hex(),
		Name:        mg.Name,
		SellerID:    mg.SellerID,
		Price:       mg.Price,
		Image:       mg.Image,
		Description: mg.Description,
		CreatedAt:   unixToTime(mg.CreatedAt),
	}
}

func (r *GoodsRepository) FindByID(ctx context.Context, id string) (*domain.Goods, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrGoodsNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mg mongoGoods
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGoodsNotFound
		}
		return nil, fmt.Errorf("find goods: %w", err)
	}
	return mg.toDomain(), nil
}

// List returns goods matching filter, newest first. The name filter is a
// case-insensitive substring match.
func (r *GoodsRepository) List(ctx context.Context, filter ports.GoodsFilter) ([]*domain.Goods, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.NameContains != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.NameContains), "$options": "i"}
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}
	defer cur.Close(ctx)

	goods := make([]*domain.Goods, 0)
	for cur.Next(ctx) {
		var mg mongoGoods
		if err := cur.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode goods: %w", err)
		}
		goods = append(goods, mg.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list goods: %w", err)
	}
	return goods, nil
}

// EnsureIndexes creates the indexes backing the listing filters.
func (r *GoodsRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

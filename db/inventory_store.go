package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"carewell-server/models"
	"carewell-server/services"
)

type InventoryStore struct {
	coll *mongo.Collection
}

func NewInventoryStore(database *mongo.Database) *InventoryStore {
	return &InventoryStore{coll: database.Collection(InventoryCollection)}
}

func (s *InventoryStore) Insert(ctx context.Context, item *models.InventoryItem) error {
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.LastUpdated = now
	res, err := s.coll.InsertOne(ctx, item)
	if err != nil {
		return err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *InventoryStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *InventoryStore) FindByName(ctx context.Context, name string) (*models.InventoryItem, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

func (s *InventoryStore) FindAll(ctx context.Context) ([]models.InventoryItem, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var items []models.InventoryItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryStore) Update(ctx context.Context, id primitive.ObjectID, upd services.InventoryUpdate) (*models.InventoryItem, error) {
	now := time.Now()
	set := bson.M{"updatedAt": now, "lastUpdated": now}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Quantity != nil {
		set["quantity"] = *upd.Quantity
	}
	if upd.Unit != nil {
		set["unit"] = *upd.Unit
	}
	if upd.MinQuantity != nil {
		set["minQuantity"] = *upd.MinQuantity
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item models.InventoryItem
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *InventoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return services.ErrNotFound
	}
	return nil
}

// DecrementStock is guarded by quantity >= qty in the filter, so the check
// and the decrement are one atomic update and stock can never go negative
// under concurrent consumption.
func (s *InventoryStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int, sale models.SaleEntry) error {
	filter := bson.M{"_id": id, "quantity": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc":  bson.M{"quantity": -qty, "soldQuantity": qty},
		"$push": bson.M{"sales": sale},
		"$set":  bson.M{"updatedAt": time.Now(), "lastUpdated": time.Now()},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return services.ErrStockConflict
	}
	return nil
}

func (s *InventoryStore) CountLowStock(ctx context.Context) (int64, error) {
	filter := bson.M{"$expr": bson.M{"$lte": bson.A{"$quantity", "$minQuantity"}}}
	return s.coll.CountDocuments(ctx, filter)
}

func (s *InventoryStore) Analytics(ctx context.Context) (*services.InventoryAnalytics, error) {
	categoryPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        "$category",
			"itemCount":  bson.M{"$sum": 1},
			"totalStock": bson.M{"$sum": "$quantity"},
			"totalSold":  bson.M{"$sum": "$soldQuantity"},
			"revenue":    bson.M{"$sum": bson.M{"$multiply": bson.A{"$soldQuantity", "$price"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
	cursor, err := s.coll.Aggregate(ctx, categoryPipeline)
	if err != nil {
		return nil, err
	}
	var catRows []struct {
		ID         string  `bson:"_id"`
		ItemCount  int64   `bson:"itemCount"`
		TotalStock int64   `bson:"totalStock"`
		TotalSold  int64   `bson:"totalSold"`
		Revenue    float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &catRows); err != nil {
		return nil, err
	}

	topPipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "soldQuantity", Value: -1}}}},
		{{Key: "$limit", Value: 5}},
	}
	topCursor, err := s.coll.Aggregate(ctx, topPipeline)
	if err != nil {
		return nil, err
	}
	var topItems []models.InventoryItem
	if err := topCursor.All(ctx, &topItems); err != nil {
		return nil, err
	}

	analytics := &services.InventoryAnalytics{}
	for _, row := range catRows {
		analytics.Categories = append(analytics.Categories, services.CategoryStats{
			Category:   row.ID,
			ItemCount:  row.ItemCount,
			TotalStock: row.TotalStock,
			TotalSold:  row.TotalSold,
			Revenue:    row.Revenue,
		})
		analytics.TotalRevenue += row.Revenue
	}
	for _, item := range topItems {
		analytics.TopSellers = append(analytics.TopSellers, services.ItemSales{
			ItemID:   item.ID,
			Name:     item.Name,
			Sold:     int64(item.SoldQuantity),
			Revenue:  item.TotalRevenue(),
			LowStock: item.IsLowStock(),
		})
	}
	return analytics, nil
}

func (s *InventoryStore) findOne(ctx context.Context, filter bson.M) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.coll.FindOne(ctx, filter).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

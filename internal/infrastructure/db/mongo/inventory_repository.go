package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minimart/pos-api/internal/core/domain"
	"github.com/minimart/pos-api/internal/core/ports"
)

const (
	productsCollection = "products"
	salesCollection    = "sales"
)

// InventoryRepository implements ports.InventoryRepository using MongoDB.
type InventoryRepository struct {
	db *mongo.Database
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// EnsureInventoryIndexes creates the unique sku index and the sales sort
// index. Call once at startup.
func EnsureInventoryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(productsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create sku index: %w", err)
	}

	_, err = db.Collection(salesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create sales index: %w", err)
	}
	return nil
}

type mongoProduct struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SKU       string             `bson:"sku"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category,omitempty"`
	Price     float64            `bson:"price"`
	Stock     int                `bson:"stock"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (mp *mongoProduct) toDomain() *domain.Product {
	return &domain.Product{
		ID:        mp.ID.Hex(),
		SKU:       mp.SKU,
		Name:      mp.Name,
		Category:  mp.Category,
		Price:     mp.Price,
		Stock:     mp.Stock,
		CreatedAt: mp.CreatedAt.UTC(),
		UpdatedAt: mp.UpdatedAt.UTC(),
	}
}

type mongoSaleItem struct {
	ProductID string  `bson:"product_id"`
	SKU       string  `bson:"sku"`
	Name      string  `bson:"name"`
	UnitPrice float64 `bson:"unit_price"`
	Quantity  int     `bson:"quantity"`
}

type mongoSale struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Folio     string             `bson:"folio"`
	Items     []mongoSaleItem    `bson:"items"`
	Total     float64            `bson:"total"`
	SoldBy    string             `bson:"sold_by"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (ms *mongoSale) toDomain() *domain.Sale {
	items := make([]domain.SaleItem, 0, len(ms.Items))
	for _, it := range ms.Items {
		items = append(items, domain.SaleItem{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return &domain.Sale{
		ID:        ms.ID.Hex(),
		Folio:     ms.Folio,
		Items:     items,
		Total:     ms.Total,
		SoldBy:    ms.SoldBy,
		CreatedAt: ms.CreatedAt.UTC(),
	}
}

func (r *InventoryRepository) CreateProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	doc := mongoProduct{
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Stock:     p.Stock,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: p.UpdatedAt.UTC(),
	}

	res, err := r.db.Collection(productsCollection).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateSKU
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *InventoryRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	var mp mongoProduct
	if err := r.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *InventoryRepository) ListProducts(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = []bson.M{{"name": rx}, {"sku": rx}}
	}

	coll := r.db.Collection(productsCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var mp mongoProduct
		if err := cursor.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, mp.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}
	return products, total, nil
}

// AdjustStock applies the delta in one atomic update. For decrements the
// filter requires enough stock, so the counter can never go negative.
func (r *InventoryRepository) AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["stock"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"stock": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var mp mongoProduct
	if err := r.db.Collection(productsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&mp); err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, fmt.Errorf("adjust stock: %w", err)
		}
		// Disambiguate: missing product vs guard rejection.
		if _, findErr := r.FindProductByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, domain.ErrInsufficientStock
	}
	return mp.toDomain(), nil
}

func (r *InventoryRepository) InsertSale(ctx context.Context, s *domain.Sale) (*domain.Sale, error) {
	items := make([]mongoSaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, mongoSaleItem{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	doc := mongoSale{
		Folio:     s.Folio,
		Items:     items,
		Total:     s.Total,
		SoldBy:    s.SoldBy,
		CreatedAt: s.CreatedAt.UTC(),
	}

	res, err := r.db.Collection(salesCollection).InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *InventoryRepository) ListSales(ctx context.Context, filter ports.ListSalesFilter) ([]*domain.Sale, int64, error) {
	query := bson.M{}
	if filter.SoldBy != "" {
		query["sold_by"] = filter.SoldBy
	}
	created := bson.M{}
	if !filter.DateFrom.IsZero() {
		created["$gte"] = filter.DateFrom.UTC()
	}
	if !filter.DateTo.IsZero() {
		created["$lte"] = filter.DateTo.UTC()
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	coll := r.db.Collection(salesCollection)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []*domain.Sale
	for cursor.Next(ctx) {
		var ms mongoSale
		if err := cursor.Decode(&ms); err != nil {
			return nil, 0, fmt.Errorf("decode sale: %w", err)
		}
		sales = append(sales, ms.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, total, nil
}

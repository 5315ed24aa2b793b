package repository

import (
	"context"
	"regexp"
	"slices"
	"time"

	"github.com/deppfellow/storefront/internal/database"
	"github.com/deppfellow/storefront/internal/dberr"
	"github.com/deppfellow/storefront/internal/model/product"
	"github.com/deppfellow/storefront/internal/query"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	Feature   bool               `bson:"feature"`
	Rating    float64            `bson:"rating"`
	CreatedAt time.Time          `bson:"createdAt"`
	Company   string             `bson:"company,omitempty"`
}

func newProductDocument(p product.Product) productDocument {
	return productDocument{
		ID:        primitive.NewObjectID(),
		Name:      p.Name,
		Price:     p.Price,
		Feature:   p.Feature,
		Rating:    p.Rating,
		// BSON dates hold milliseconds.
		CreatedAt: p.CreatedAt.UTC().Truncate(time.Millisecond),
		Company:   string(p.Company),
	}
}

func (d productDocument) toProduct() product.Product {
	p := product.Product{
		Name:      d.Name,
		Price:     d.Price,
		Feature:   d.Feature,
		Rating:    d.Rating,
		CreatedAt: d.CreatedAt,
		Company:   product.Company(d.Company),
	}
	// _id is absent when projected away.
	if !d.ID.IsZero() {
		p.ID = d.ID.Hex()
	}
	return p
}

var mongoOps = map[query.Op]string{
	query.OpLT:  "$lt",
	query.OpLTE: "$lte",
	query.OpEQ:  "$eq",
	query.OpGTE: "$gte",
	query.OpGT:  "$gt",
}

// mongoFilter translates f into a find filter.
func mongoFilter(f query.Filter) bson.M {
	filter := bson.M{}

	if f.Featured != nil {
		filter["feature"] = *f.Featured
	}
	if f.Company != "" {
		filter["company"] = f.Company
	}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}

	for _, cond := range f.Numeric {
		ops, ok := filter[cond.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[cond.Field] = ops
		}
		ops[mongoOps[cond.Op]] = cond.Value
	}

	return filter
}

// mongoSort orders by sort (createdAt when empty) with _id as the tiebreaker.
func mongoSort(sort []query.SortField) bson.D {
	if len(sort) == 0 {
		sort = []query.SortField{{Field: product.FieldCreatedAt}}
	}

	d := make(bson.D, 0, len(sort)+1)
	for _, s := range sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: s.Field, Value: dir})
	}
	return append(d, bson.E{Key: "_id", Value: 1})
}

// mongoProjection returns nil when every field is wanted.
func mongoProjection(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}

	d := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	if !slices.Contains(fields, product.FieldID) {
		d = append(d, bson.E{Key: "_id", Value: 0})
	}
	return d
}

type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Collection(database.ProductsCollection)}
}

func (r *MongoProductRepository) ListProducts(ctx context.Context, q query.ProductQuery) ([]product.Product, error) {
	opts := options.Find().SetSort(mongoSort(q.Sort))
	if projection := mongoProjection(q.Fields); projection != nil {
		opts.SetProjection(projection)
	}
	if q.Skip > 0 {
		opts.SetSkip(int64(q.Skip))
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := r.collection.Find(ctx, mongoFilter(q.Filter), opts)
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}

	products := make([]product.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.toProduct())
	}
	return products, nil
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	doc := newProductDocument(p)
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "insert product")
	}

	created := doc.toProduct()
	return &created, nil
}

func (r *MongoProductRepository) GetProductByID(ctx context.Context, id string) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dberr.NotFound(database.ProductsCollection)
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "find product %s", id)
	}

	p := doc.toProduct()
	return &p, nil
}

func (r *MongoProductRepository) UpdateProduct(ctx context.Context, id string, update product.Update) (*product.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, dberr.NotFound(database.ProductsCollection)
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Feature != nil {
		set["feature"] = *update.Feature
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Company != nil {
		set["company"] = string(*update.Company)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, errors.Wrapf(err, "update product %s", id)
	}

	p := doc.toProduct()
	return &p, nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return dberr.NotFound(database.ProductsCollection)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrapf(err, "delete product %s", id)
	}
	if res.DeletedCount == 0 {
		return dberr.NotFound(database.ProductsCollection)
	}
	return nil
}

func (r *MongoProductRepository) ReplaceAll(ctx context.Context, products []product.Product) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, errors.Wrap(err, "delete products")
	}

	if len(products) == 0 {
		return res.DeletedCount, nil
	}

	docs := make([]any, 0, len(products))
	for _, p := range products {
		docs = append(docs, newProductDocument(p))
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return res.DeletedCount, errors.Wrap(err, "insert products")
	}

	return res.DeletedCount, nil
}

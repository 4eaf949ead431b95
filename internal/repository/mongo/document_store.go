package mongo

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/reptrack/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// documentStore implements repository.DocumentStore on a MongoDB database.
type documentStore struct {
	db *mongo.Database
}

// NewDocumentStore creates a DocumentStore backed by MongoDB.
func NewDocumentStore(db *mongo.Database) repository.DocumentStore {
	return &documentStore{db: db}
}

func (s *documentStore) NewID(string) string {
	return primitive.NewObjectID().Hex()
}

func (s *documentStore) GetByID(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (s *documentStore) Find(ctx context.Context, collection string, filter repository.Filter, out any) error {
	cursor, err := s.db.Collection(collection).Find(ctx, toFilter(filter))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var raws []bson.Raw
	if err := cursor.All(ctx, &raws); err != nil {
		return err
	}
	return repository.DecodeAll(raws, out)
}

func (s *documentStore) FindPage(ctx context.Context, collection string, filter repository.Filter, q repository.PageQuery, out any) (repository.Cursor, error) {
	dir := int(q.Direction)
	if dir == 0 {
		dir = int(repository.Ascending)
	}
	query := toFilter(filter)
	if q.After != "" {
		value, id, err := repository.DecodeCursor(q.After)
		if err != nil {
			return "", err
		}
		op := "$gt"
		if dir < 0 {
			op = "$lt"
		}
		keyset := bson.M{"$or": bson.A{
			bson.M{q.OrderBy: bson.M{op: value}},
			bson.M{q.OrderBy: value, "_id": bson.M{op: id}},
		}}
		query = bson.M{"$and": bson.A{query, keyset}}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	cursor, err := s.db.Collection(collection).Find(ctx, query, findOptions)
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	var raws []bson.Raw
	if err := cursor.All(ctx, &raws); err != nil {
		return "", err
	}
	if err := repository.DecodeAll(raws, out); err != nil {
		return "", err
	}
	if len(raws) == 0 {
		return "", nil
	}
	last := raws[len(raws)-1]
	id, ok := last.Lookup("_id").StringValueOK()
	if !ok {
		return "", fmt.Errorf("find page %s: non-string _id", collection)
	}
	return repository.EncodeCursor(last.Lookup(q.OrderBy), id)
}

func (s *documentStore) Count(ctx context.Context, collection string, filter repository.Filter) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, toFilter(filter))
}

func (s *documentStore) Create(ctx context.Context, collection, id string, doc any) error {
	m, err := repository.ToDocument(id, doc)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *documentStore) Set(ctx context.Context, collection, id string, doc any) error {
	m, err := repository.ToDocument(id, doc)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	return err
}

func (s *documentStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	return s.updateOne(ctx, collection, id, bson.M{"$set": patch})
}

func (s *documentStore) Delete(ctx context.Context, collection, id string) (bool, error) {
	result, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (s *documentStore) Increment(ctx context.Context, collection, id, field string, delta int) error {
	return s.updateOne(ctx, collection, id, bson.M{"$inc": bson.M{field: delta}})
}

func (s *documentStore) ArrayUnion(ctx context.Context, collection, id, field string, value any) error {
	return s.updateOne(ctx, collection, id, bson.M{"$addToSet": bson.M{field: value}})
}

func (s *documentStore) ArrayRemove(ctx context.Context, collection, id, field string, value any) error {
	return s.updateOne(ctx, collection, id, bson.M{"$pull": bson.M{field: value}})
}

// Batch groups ops per collection and sends each group as one unordered bulk write.
func (s *documentStore) Batch(ctx context.Context, ops []repository.WriteOp) error {
	var order []string
	models := make(map[string][]mongo.WriteModel)
	for _, op := range ops {
		var model mongo.WriteModel
		switch op.Kind {
		case repository.OpSet:
			doc, err := repository.ToDocument(op.ID, op.Doc)
			if err != nil {
				return err
			}
			model = mongo.NewReplaceOneModel().SetFilter(bson.M{"_id": op.ID}).SetReplacement(doc).SetUpsert(true)
		case repository.OpUpdate:
			model = mongo.NewUpdateOneModel().SetFilter(bson.M{"_id": op.ID}).SetUpdate(bson.M{"$set": op.Patch})
		case repository.OpDelete:
			model = mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": op.ID})
		default:
			return fmt.Errorf("unknown batch op %d", op.Kind)
		}
		if _, ok := models[op.Collection]; !ok {
			order = append(order, op.Collection)
		}
		models[op.Collection] = append(models[op.Collection], model)
	}

	var errs []error
	for _, collection := range order {
		_, err := s.db.Collection(collection).BulkWrite(ctx, models[collection], options.BulkWrite().SetOrdered(false))
		if err != nil {
			errs = append(errs, fmt.Errorf("batch %s: %w", collection, err))
		}
	}
	return errors.Join(errs...)
}

func (s *documentStore) updateOne(ctx context.Context, collection, id string, update bson.M) error {
	result, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toFilter(filter repository.Filter) bson.M {
	m := bson.M{}
	for k, v := range filter {
		m[k] = v
	}
	return m
}

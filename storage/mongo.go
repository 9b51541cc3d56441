package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	fxreturns "github.com/ftsfr/fx-returns"
)

type mongoStorage struct {
	ctx        context.Context
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(config MongoDBConfig) (fxreturns.Storage, error) {
	ctx := config.Cxt

	if ctx == nil {
		ctx = context.Background()
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(config.ConnectionString))

	if err != nil {
		return nil, err
	}

	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	st := mongoStorage{
		ctx:        ctx,
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}

	if config.Migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (m mongoStorage) Store(computed []fxreturns.FxReturn) ([]fxreturns.FxReturnWithID, error) {
	if len(computed) == 0 {
		return []fxreturns.FxReturnWithID{}, nil
	}

	createdAt := time.Now()
	documents := make([]interface{}, 0, len(computed))

	for _, ret := range computed {
		documents = append(documents, bson.M{
			"date":      ret.Date,
			"currency":  string(ret.Currency),
			"return":    ret.Return,
			"createdAt": createdAt,
		})
	}

	result, err := m.collection.InsertMany(m.ctx, documents)

	if err != nil {
		return nil, err
	}

	rows := make([]fxreturns.FxReturnWithID, 0, len(computed))

	for i, ret := range computed {
		rows = append(rows, fxreturns.FxReturnWithID{
			FxReturn: ret,
			ID:       result.InsertedIDs[i],
		})
	}

	return rows, nil
}

func (m mongoStorage) find(filter bson.M, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	skip := (page - 1) * perPage
	cursor, err := m.collection.Find(m.ctx, filter, &options.FindOptions{
		Limit: &perPage,
		Skip:  &skip,
		Sort:  bson.D{{Key: "currency", Value: 1}, {Key: "date", Value: 1}},
	})

	if err != nil {
		return nil, err
	}

	defer cursor.Close(m.ctx)

	rows := make([]fxreturns.FxReturnWithID, 0, perPage)

	for cursor.Next(m.ctx) {
		current := cursor.Current

		rows = append(rows, fxreturns.FxReturnWithID{
			FxReturn: fxreturns.FxReturn{
				Date:     current.Lookup("date").Time().UTC(),
				Currency: fxreturns.Currency(current.Lookup("currency").StringValue()),
				Return:   current.Lookup("return").Double(),
			},
			ID: current.Lookup("_id").ObjectID(),
		})
	}

	return rows, cursor.Err()
}

func (m mongoStorage) GetByCurrency(currency fxreturns.Currency, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	return m.find(bson.M{"currency": string(currency)}, page, perPage)
}

func (m mongoStorage) GetByDateRange(dateRange fxreturns.DateRange, page, perPage int64) ([]fxreturns.FxReturnWithID, error) {
	return m.find(bson.M{
		"date": bson.M{
			"$gte": dateRange.Start,
			"$lte": dateRange.End,
		},
	}, page, perPage)
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

func (m mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}, {Key: "currency", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return err
}

func (m mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}

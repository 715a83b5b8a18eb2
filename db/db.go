package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"carewell-server/config"
)

// Collection names.
const (
	UserCollection          = "users"
	DoctorCollection        = "doctors"
	AppointmentCollection   = "appointments"
	BedCollection           = "beds"
	InventoryCollection     = "inventory"
	SalesRecordCollection   = "salesrecords"
	MedicalRecordCollection = "medicalrecords"
)

// Connect opens the Mongo client and verifies the connection.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}

// TxRunner runs a function inside a Mongo multi-document transaction. The
// session rides on the context, so any store call made with the callback's
// ctx joins the transaction.
type TxRunner struct {
	client *mongo.Client
}

func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

func (r *TxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

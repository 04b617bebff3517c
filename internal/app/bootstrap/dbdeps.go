// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
//
// Services is allocated by ConnectDB and filled in by Startup; WAFFLE passes
// DBDeps by value, so the pointer is how BuildHandler and Shutdown see what
// Startup built.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	NATS          *nats.Conn // nil when change events are disabled

	Services *Services
}

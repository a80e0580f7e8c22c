// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Closers collects the stop functions of services BuildHandler starts.
	// Shutdown runs them before disconnecting MongoDB.
	Closers *Closers
}

// Closers is a list of stop functions run once at shutdown. A nil
// *Closers ignores registrations.
type Closers struct {
	mu  sync.Mutex
	fns []func()
}

// Add registers fn to run at shutdown.
func (c *Closers) Add(fn func()) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

// Close runs the registered functions in reverse order and forgets them.
func (c *Closers) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

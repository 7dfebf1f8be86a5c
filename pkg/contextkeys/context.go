package contextkeys

// Custom key type to avoid context collisions.
type contextKey string

// DBContextKey is the key under which a *gorm.DB (pool or per-request
// transaction) is stored in a request context.
const DBContextKey = contextKey("db")

package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
    "strconv"
)

// Storage backend identifiers accepted in STORAGE_BACKEND.  The local
// backend writes uploads to a directory on disk and serves them from the
// same process; the remote backend talks to an HTTP blob service.
const (
    StorageLocal  = "local"
    StorageRemote = "remote"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign JWTs
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing

    StorageBackend string // attachment backend: "local" or "remote"
    UploadDir      string // directory for the local backend's files
    PublicBaseURL  string // base URL under which local uploads are served
    BlobBaseURL    string // base URL of the remote blob service
    BlobAPIKey     string // API key sent to the remote blob service
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Attachment storage
// defaults to the local backend so the service runs without any external
// blob dependency.
func Load() Config {
    cfg := Config{
        Env:          must("APP_ENV"),      // environment (dev/test/prod)
        Port:         must("APP_PORT"),     // port to bind the HTTP server
        DBUser:       must("DB_USER"),      // database user
        DBPass:       os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:       must("DB_HOST"),      // database host
        DBPort:       must("DB_PORT"),      // database port
        DBName:       must("DB_NAME"),      // database name
        JWTSecret:    must("JWT_SECRET"),   // secret used for signing JWTs
        AccessTTLMin: envInt("ACCESS_TOKEN_TTL_MIN", 30),
        BcryptCost:   envInt("BCRYPT_COST", 10),

        StorageBackend: envStr("STORAGE_BACKEND", StorageLocal),
        UploadDir:      envStr("UPLOAD_DIR", "uploads"),
        PublicBaseURL:  envStr("PUBLIC_BASE_URL", "http://localhost:"+os.Getenv("APP_PORT")),
        BlobBaseURL:    os.Getenv("BLOB_BASE_URL"),
        BlobAPIKey:     os.Getenv("BLOB_API_KEY"),
    }
    if cfg.StorageBackend != StorageLocal && cfg.StorageBackend != StorageRemote {
        log.Fatalf("invalid STORAGE_BACKEND: %q (want %q or %q)", cfg.StorageBackend, StorageLocal, StorageRemote)
    }
    if cfg.StorageBackend == StorageRemote && cfg.BlobBaseURL == "" {
        log.Fatal("BLOB_BASE_URL is required when STORAGE_BACKEND=remote")
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	// PublicBaseURL is the externally reachable URL of this app. It is used
	// as the notification target URL and in the frame manifest.
	PublicBaseURL string

	NeynarAPIKey string
	NeynarHubURL string
	NeynarAPIURL string

	// BotFID is the fid of the token-creation bot whose replies the status
	// poller classifies.
	BotFID int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string

	AllowedOrigins []string // CORS allowed origins

	Manifest ManifestAssociation
}

// ManifestAssociation is the signed account-association triple served in the
// frame manifest. The values are opaque base64url strings produced by the
// account owner's custody key; the app only serves them.
type ManifestAssociation struct {
	Header    string
	Payload   string
	Signature string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Announcements      string
	NotificationTokens string
	TokenRequests      string
}

// Load reads all configuration from environment variables. Credentials the
// app cannot run without are fatal when absent.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		PublicBaseURL: mustEnv("PUBLIC_BASE_URL"),

		NeynarAPIKey: mustEnv("NEYNAR_API_KEY"),
		NeynarHubURL: getEnv("NEYNAR_HUB_URL", "https://hub-api.neynar.com/v1"),
		NeynarAPIURL: getEnv("NEYNAR_API_URL", "https://api.neynar.com"),

		BotFID: int64(getEnvInt("BOT_FID", 912361)),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Announcements:      getEnv("DYNAMO_TABLE_ANNOUNCEMENTS", "announcements"),
			NotificationTokens: getEnv("DYNAMO_TABLE_NOTIFICATION_TOKENS", "notification_tokens"),
			TokenRequests:      getEnv("DYNAMO_TABLE_TOKEN_REQUESTS", "token_requests"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "clankpad-images"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		Manifest: ManifestAssociation{
			Header:    getEnv("ACCOUNT_ASSOCIATION_HEADER", ""),
			Payload:   getEnv("ACCOUNT_ASSOCIATION_PAYLOAD", ""),
			Signature: getEnv("ACCOUNT_ASSOCIATION_SIGNATURE", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("missing required environment variable %s", key)
	}
	return v
}

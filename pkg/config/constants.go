package config

const EnvPrefix = "dukapos"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                = "DUKAPOS_APP_ENV"
	EnvPort                  = "DUKAPOS_APP_PORT"
	EnvRedisURL              = "DUKAPOS_REDIS_URL"
	EnvCatalogBaseURL        = "DUKAPOS_CATALOG_BASE_URL"
	EnvCatalogConsumerKey    = "DUKAPOS_CATALOG_CONSUMER_KEY"
	EnvCatalogConsumerSecret = "DUKAPOS_CATALOG_CONSUMER_SECRET"
	EnvCacheTTL              = "DUKAPOS_CACHE_TTL"
	EnvCartStorageKey        = "DUKAPOS_CART_STORAGE_KEY"
	EnvCartTaxRate           = "DUKAPOS_CART_TAX_RATE"
)

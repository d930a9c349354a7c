package config

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "XENO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "XENO_DB_DSN"
	EnvDBHost = "XENO_DB_HOST"
	EnvDBUser = "XENO_DB_USER"
	EnvDBName = "XENO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

package config

const (
	EnvPrefix = "EVENTOCAIXA"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvDBDSN        = "EVENTOCAIXA_DB_DSN"
	EnvDBHost       = "EVENTOCAIXA_DB_HOST"
	EnvDBUser       = "EVENTOCAIXA_DB_USER"
	EnvDBName       = "EVENTOCAIXA_DB_NAME"
	EnvDBSQLitePath = "EVENTOCAIXA_DB_SQLITE_PATH"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

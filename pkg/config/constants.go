package config

const (
	EnvPrefix = "vms"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VMS_DB_DSN"
	EnvDBHost = "VMS_DB_HOST"
	EnvDBUser = "VMS_DB_USER"
	EnvDBName = "VMS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

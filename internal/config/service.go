package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	// PublicURL is the externally reachable base URL of this service.
	// Webhook endpoints and checkout redirect URLs are built from it.
	PublicURL string `yaml:"public_url"`
	// ClientURL is the form frontend origin allowed by CORS.
	ClientURL string `yaml:"client_url"`
	JWTSecret string `yaml:"jwt_secret"`
	// EncryptionKey seals stored gateway credentials at rest.
	// 64 hex chars; empty stores credentials unsealed.
	EncryptionKey string `yaml:"encryption_key"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

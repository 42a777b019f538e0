package service

type Config struct {
	// Type selects the storage backend, "sqlite" or "postgres".
	Type           string   `toml:"type"`
	SqliteFile     string   `toml:"sqlite_file"`
	Token          string   `toml:"token" env:"AUTH_TOKEN_SECRET"`
	Expiration     string   `toml:"expiration"`
	RootPassword   string   `toml:"root_password" env:"AUTH_ROOT_PASSWORD"`
	PasswordPepper string   `toml:"password_pepper" env:"AUTH_PASSWORD_PEPPER"`
	Roles          []string `toml:"roles"`
	// Rules are checked top to bottom, the first path and method hit
	// decides access.
	Rules   []Rule        `toml:"rules"`
	Storage StorageConfig `toml:"db"`
}

type Rule struct {
	Name   string   `toml:"name"`
	Path   string   `toml:"path"`
	Method []string `toml:"method"`
	Allow  []string `toml:"allow"`
}

type StorageConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	DBName   string `toml:"dbname"`
	Username string `toml:"username"`
	Password string `toml:"password" env:"AUTH_DB_PASSWORD"`
}

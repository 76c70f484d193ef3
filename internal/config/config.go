package config

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Jwt struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
		Folder    string
	}
	Stripe struct {
		SecretKey string
	}
	Exchange struct {
		// UsdToNpr is the fallback conversion rate when the cached rate
		// is unavailable.
		UsdToNpr          string
		ServiceFeePercent int64
	}
	RedisAddr    string
	KafkaServers string
	Cors         struct {
		AllowedOrigins []string
	}
}

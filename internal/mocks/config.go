package mocks

import "github.com/yatrapay/yatrapay/internal/config"

var MockConfig = &config.Config{
	BaseURL:  "http://localhost",
	HttpPort: 8080,
	Db: struct {
		Dsn         string
		Automigrate bool
	}{
		Dsn:         "mock_dsn",
		Automigrate: false,
	},
	Jwt: struct {
		SecretKey string
	}{
		SecretKey: "test_secret",
	},
	Notifications: struct {
		Email string
	}{
		Email: "no-reply@example.com",
	},
	Smtp: struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user@example.com",
		Password: "password",
		From:     "no-reply@example.com",
	},
	Exchange: struct {
		UsdToNpr          string
		ServiceFeePercent int64
	}{
		UsdToNpr:          "130",
		ServiceFeePercent: 2,
	},
	RedisAddr:    "localhost:6379",
	KafkaServers: "localhost:9092",
}

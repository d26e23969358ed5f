package utils

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppEnv   string `yaml:"APP_ENV"`
	AppPort  string `yaml:"APP_PORT"`
	LogLevel string `yaml:"LOG_LEVEL"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBDSN      string `yaml:"DB_DSN"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Redis product cache, disabled when REDIS_ADDR is empty
	RedisAddr     string `yaml:"REDIS_ADDR"`
	RedisPassword string `yaml:"REDIS_PASSWORD"`
	RedisDB       string `yaml:"REDIS_DB"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var (
	config     Config
	configOnce sync.Once
)

var defaults = map[string]string{
	"APP_ENV":   "development",
	"APP_PORT":  "8080",
	"LOG_LEVEL": "info",
	"DB_DRIVER": "postgres",
	"DB_DSN":    "grocery.db",
	"REDIS_DB":  "0",
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_ENV":        &c.AppEnv,
		"APP_PORT":       &c.AppPort,
		"LOG_LEVEL":      &c.LogLevel,
		"DB_DRIVER":      &c.DBDriver,
		"DB_USER":        &c.DBUser,
		"DB_NAME":        &c.DBName,
		"DB_PASSWORD":    &c.DBPassword,
		"DB_PORT":        &c.DBPort,
		"DB_HOST":        &c.DBHost,
		"DB_DSN":         &c.DBDSN,
		"JWT_SECRET":     &c.JWTSecret,
		"REDIS_ADDR":     &c.RedisAddr,
		"REDIS_PASSWORD": &c.RedisPassword,
		"REDIS_DB":       &c.RedisDB,
		"AWS_S3_BUCKET":  &c.AWSS3Bucket,
		"AWS_S3_REGION":  &c.AWSS3Region,
		"AWS_ACCESS_KEY": &c.AWSAccessKey,
		"AWS_SECRET_KEY": &c.AWSSecretKey,
	}
}

// LoadConfig reads config.yaml, then lets the environment (and .env) override
// any key. Safe to call more than once; only the first call does any work.
func LoadConfig() {
	configOnce.Do(func() {
		file, err := os.ReadFile("config.yaml")
		if err != nil {
			log.Printf("Error reading YAML file: %s\n", err)
		} else if err := yaml.Unmarshal(file, &config); err != nil {
			log.Printf("Error parsing YAML file: %s\n", err)
		}

		_ = godotenv.Load()

		for key, field := range config.fields() {
			if value, ok := os.LookupEnv(key); ok {
				*field = value
			}
			if *field == "" {
				*field = defaults[key]
			}
		}
	})
}

func GetConfig(key string) string {
	field, ok := config.fields()[key]
	if !ok {
		return ""
	}
	return *field
}

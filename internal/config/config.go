package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabasesConfig    `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Decision     DecisionConfig     `mapstructure:"decision"`
	Notification NotificationConfig `mapstructure:"notification"`
	Security     SecurityConfig     `mapstructure:"security"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Hostname     string        `mapstructure:"hostname"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`
}

// DatabasesConfig holds all database configurations
type DatabasesConfig struct {
	Decision DatabaseConfig `mapstructure:"decision"`
}

// DatabaseConfig holds individual database configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"`
	Hostname        string        `mapstructure:"hostname"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DecisionConfig holds the patient verification workflow settings
type DecisionConfig struct {
	MaxRetryCount                           int      `mapstructure:"max_retry_count"`
	PatientValidationCodeExpireAfterMinutes int      `mapstructure:"patient_validation_code_expire_after_minutes"`
	ValidatedCodeValidForMinutes            int      `mapstructure:"validated_code_valid_for_minutes"`
	DecisionWorkflowRoles                   []string `mapstructure:"decision_workflow_roles"`
	NhsLoginRoles                           []string `mapstructure:"nhs_login_roles"`
}

// NotificationConfig holds notification provider configuration
type NotificationConfig struct {
	BaseURL   string                `mapstructure:"base_url"`
	ServiceID string                `mapstructure:"service_id"`
	APIKey    string                `mapstructure:"api_key"`
	Timeout   time.Duration         `mapstructure:"timeout"`
	Templates NotificationTemplates `mapstructure:"templates"`
}

// NotificationTemplates holds the provider template ids per channel and purpose
type NotificationTemplates struct {
	EmailCode               string `mapstructure:"email_code"`
	SmsCode                 string `mapstructure:"sms_code"`
	LetterCode              string `mapstructure:"letter_code"`
	EmailSubmissionSuccess  string `mapstructure:"email_submission_success"`
	SmsSubmissionSuccess    string `mapstructure:"sms_submission_success"`
	LetterSubmissionSuccess string `mapstructure:"letter_submission_success"`
	EmailSubscriberUsage    string `mapstructure:"email_subscriber_usage"`
	SmsSubscriberUsage      string `mapstructure:"sms_subscriber_usage"`
	LetterSubscriberUsage   string `mapstructure:"letter_subscriber_usage"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	JWT       JWTConfig       `mapstructure:"jwt"`
	ReCaptcha ReCaptchaConfig `mapstructure:"recaptcha"`
}

// JWTConfig holds bearer token validation settings
type JWTConfig struct {
	SigningKey string `mapstructure:"signing_key"`
	Issuer     string `mapstructure:"issuer"`
	Audience   string `mapstructure:"audience"`
}

// ReCaptchaConfig holds captcha verification settings
type ReCaptchaConfig struct {
	SecretKey      string        `mapstructure:"secret_key"`
	VerifyURL      string        `mapstructure:"verify_url"`
	ScoreThreshold float64       `mapstructure:"score_threshold"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

var globalConfig *Config

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("DECISION_MGT")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	globalConfig = &config
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.hostname", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("decision.max_retry_count", 3)
	v.SetDefault("decision.patient_validation_code_expire_after_minutes", 1440)
	v.SetDefault("decision.validated_code_valid_for_minutes", 60)
	v.SetDefault("notification.timeout", 10*time.Second)
	v.SetDefault("security.recaptcha.verify_url", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("security.recaptcha.score_threshold", 0.5)
	v.SetDefault("security.recaptcha.timeout", 5*time.Second)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Database.Decision.Hostname == "" {
		return fmt.Errorf("database hostname is required")
	}

	if config.Database.Decision.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Decision.MaxRetryCount <= 0 {
		return fmt.Errorf("decision max retry count must be positive: %d", config.Decision.MaxRetryCount)
	}

	if config.Decision.PatientValidationCodeExpireAfterMinutes <= 0 {
		return fmt.Errorf("validation code expiry must be positive: %d",
			config.Decision.PatientValidationCodeExpireAfterMinutes)
	}

	if config.Decision.ValidatedCodeValidForMinutes < 0 {
		return fmt.Errorf("validated code window cannot be negative: %d",
			config.Decision.ValidatedCodeValidForMinutes)
	}

	if len(config.Decision.DecisionWorkflowRoles) == 0 {
		return fmt.Errorf("at least one decision workflow role is required")
	}

	if config.Notification.BaseURL == "" {
		return fmt.Errorf("notification base URL is required")
	}

	if config.Security.ReCaptcha.ScoreThreshold < 0 || config.Security.ReCaptcha.ScoreThreshold > 1 {
		return fmt.Errorf("recaptcha score threshold must be between 0 and 1: %v",
			config.Security.ReCaptcha.ScoreThreshold)
	}

	return nil
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// SetGlobal sets the global configuration (for testing purposes)
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// GetDSN returns the database connection string
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&clientFoundRows=true",
		d.User,
		d.Password,
		d.Hostname,
		d.Port,
		d.Database,
	)
}

// GetServerAddress returns the server address in host:port format
func (s *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", s.Hostname, s.Port)
}

// CodeExpiry returns how long a freshly issued validation code stays usable
func (d *DecisionConfig) CodeExpiry() time.Duration {
	return time.Duration(d.PatientValidationCodeExpireAfterMinutes) * time.Minute
}

// MatchedCodeWindow returns how long a matched code may be reused, zero meaning no limit
func (d *DecisionConfig) MatchedCodeWindow() time.Duration {
	return time.Duration(d.ValidatedCodeValidForMinutes) * time.Minute
}

// TemplateID returns the configured template for a channel ("Email", "Sms", "Letter")
// and purpose ("Code", "SubmissionSuccess", "SubscriberUsage")
func (t *NotificationTemplates) TemplateID(channel, purpose string) string {
	switch channel + purpose {
	case "EmailCode":
		return t.EmailCode
	case "SmsCode":
		return t.SmsCode
	case "LetterCode":
		return t.LetterCode
	case "EmailSubmissionSuccess":
		return t.EmailSubmissionSuccess
	case "SmsSubmissionSuccess":
		return t.SmsSubmissionSuccess
	case "LetterSubmissionSuccess":
		return t.LetterSubmissionSuccess
	case "EmailSubscriberUsage":
		return t.EmailSubscriberUsage
	case "SmsSubscriberUsage":
		return t.SmsSubscriberUsage
	case "LetterSubscriberUsage":
		return t.LetterSubscriberUsage
	default:
		return ""
	}
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	College   CollegeConfig
	Server    ServerConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	Data      DataConfig
	LLM       LLMConfig
	Engine    EngineConfig
	Guardrail GuardrailConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type CollegeConfig struct {
	Name string
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

// IsDevelopment reports whether the server runs in development mode.
func (s ServerConfig) IsDevelopment() bool {
	return s.Env == "development"
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// DataConfig points at the JSON files owned by the admin panel.
type DataConfig struct {
	KnowledgeBasePath string
	AdminDataPath     string
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	TopP        float32
	MaxTokens   int
	TimeoutSec  int
}

type EngineConfig struct {
	SimilarityThreshold float64
}

// GuardrailConfig carries the denylists and the fixed category messages.
// The lists live in configuration so admins can audit and extend them
// without a rebuild; the regex heuristics stay in code as named pattern
// tables.
type GuardrailConfig struct {
	BlockedWords             []string
	PersonalQuestionKeywords []string
	OffTopicKeywords         []string
	Messages                 GuardrailMessages
}

// GuardrailMessages are the fixed texts returned per failure category.
// They never echo the triggering content back to the user.
type GuardrailMessages struct {
	Empty            string
	TooShort         string
	TooLong          string
	NoText           string
	Spam             string
	BlockedContent   string
	PersonalQuestion string
	OffTopic         string
	Privacy          string
	Fallback         string
}

type AuthConfig struct {
	Accounts            []AdminAccount
	OTPValiditySec      int
	MaxLoginAttempts    int
	LockoutDurationSec  int
	SessionValidityMin  int
	RevealOTPInResponse bool
}

// AdminAccount is a pre-created admin login. PasswordHash is a bcrypt
// hash; there is no self-registration.
type AdminAccount struct {
	Username     string
	PasswordHash string
	FullName     string
	Email        string
	Role         string
}

type RateLimitConfig struct {
	MaxRequestsPerMinute int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/campus-helpdesk")

	viper.SetEnvPrefix("CAMPUS_HELPDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("college.name", "ABC College of Engineering")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.env", "production")
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("sqlite.path", "./data/helpdesk.db")

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("data.knowledgeBasePath", "./data/knowledge_base.json")
	viper.SetDefault("data.adminDataPath", "./data/admin_data.json")

	viper.SetDefault("llm.provider", "groq")
	viper.SetDefault("llm.model", "llama-3.1-8b-instant")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.topP", 0.9)
	viper.SetDefault("llm.maxTokens", 150)
	viper.SetDefault("llm.timeoutSec", 30)

	viper.SetDefault("engine.similarityThreshold", 0.6)

	viper.SetDefault("guardrail.blockedWords", []string{
		"hack", "cheat", "exploit", "crack", "breach",
		"inappropriate", "offensive", "abuse", "harass",
		"stupid", "idiot", "dumb",
		"kill", "attack", "threat", "bomb",
		"fake", "forge", "bribe",
	})
	viper.SetDefault("guardrail.personalQuestionKeywords", []string{
		"girlfriend", "boyfriend", "wife", "husband", "married",
		"salary", "income", "how much earn", "personal life",
		"home address", "where does", "live", "phone number of",
		"age of", "how old is", "private", "secret",
	})
	viper.SetDefault("guardrail.offTopicKeywords", []string{
		"politics", "election", "vote", "government", "minister", "party",
		"religion", "god", "prayer", "temple", "church", "mosque",
		"dating", "movie", "cricket", "football", "game score",
		"gambling", "betting", "cryptocurrency", "bitcoin", "stock market",
		"personal advice", "relationship advice", "life advice",
		"illegal", "drugs", "alcohol",
	})

	viper.SetDefault("guardrail.messages.empty", "Please enter a message.")
	viper.SetDefault("guardrail.messages.tooShort", "Your message is too short. Please provide more details.")
	viper.SetDefault("guardrail.messages.tooLong", "Your message is too long. Please keep it under 500 characters.")
	viper.SetDefault("guardrail.messages.noText", "Please enter a valid message with some text.")
	viper.SetDefault("guardrail.messages.spam", "Please send a proper message without excessive repetition.")
	viper.SetDefault("guardrail.messages.blockedContent", "I cannot respond to this type of query. Please keep your questions appropriate and college-related.")
	viper.SetDefault("guardrail.messages.personalQuestion", "I cannot provide personal information about individuals. For faculty contact details, please visit the college website or contact the admin office.")
	viper.SetDefault("guardrail.messages.offTopic", "I can only help with college-related queries. Please ask questions about admissions, courses, fees, timings, faculty, or other college matters.")
	viper.SetDefault("guardrail.messages.privacy", "For your privacy and security, please don't share personal information like phone numbers, email addresses, or ID numbers in this chat.")
	viper.SetDefault("guardrail.messages.fallback", "I'm sorry, I couldn't find an answer to your question. Please contact the college admin office for further assistance.")

	viper.SetDefault("auth.otpValiditySec", 300)
	viper.SetDefault("auth.maxLoginAttempts", 5)
	viper.SetDefault("auth.lockoutDurationSec", 900)
	viper.SetDefault("auth.sessionValidityMin", 60)
	viper.SetDefault("auth.revealOTPInResponse", false)

	viper.SetDefault("ratelimit.maxRequestsPerMinute", 60)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}

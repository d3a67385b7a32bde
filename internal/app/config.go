package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/mentorbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
	"github.com/yungbote/mentorbridge-backend/internal/services"
)

type Config struct {
	ServiceName  string
	Environment  string
	Version      string
	HTTPAddr     string
	AllowOrigins []string

	JWTSecretKey string

	SimilarityBaseURL string
	SimilarityAPIKey  string
	SimilarityTimeout time.Duration

	BatchTTL       time.Duration
	MiniSessionTTL time.Duration
	SweepInterval  time.Duration

	RiskWindowDays      int
	RecentFeedbackCount int
	RiskRatingThreshold float64

	Scoring services.ScorerConfig
}

// tuningFile is the optional yaml knob file for the ranking pipeline.
// Everything in it has a sane default, ops only ship it to retune.
type tuningFile struct {
	Scoring struct {
		Weights   services.ScoringWeights `yaml:"weights"`
		Limit     int                     `yaml:"limit"`
		Threshold float64                 `yaml:"threshold"`
	} `yaml:"scoring"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName:  "mentorbridge",
		Environment:  envutil.GetEnv("APP_ENV", "development", log),
		Version:      envutil.GetEnv("APP_VERSION", "dev", log),
		HTTPAddr:     envutil.GetEnv("HTTP_ADDR", ":8080", log),
		JWTSecretKey: envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),

		SimilarityBaseURL: envutil.GetEnv("SIMILARITY_BASE_URL", "", log),
		SimilarityAPIKey:  envutil.GetEnv("SIMILARITY_API_KEY", "", log),
		SimilarityTimeout: envutil.GetEnvAsDuration("SIMILARITY_TIMEOUT", 10*time.Second, log),

		BatchTTL:       envutil.GetEnvAsDuration("BATCH_TTL", 7*24*time.Hour, log),
		MiniSessionTTL: envutil.GetEnvAsDuration("MINI_SESSION_TTL", 72*time.Hour, log),
		SweepInterval:  envutil.GetEnvAsDuration("SWEEP_INTERVAL", 5*time.Minute, log),

		RiskWindowDays:      envutil.GetEnvAsInt("RISK_WINDOW_DAYS", 30, log),
		RecentFeedbackCount: envutil.GetEnvAsInt("RECENT_FEEDBACK_COUNT", 3, log),
		RiskRatingThreshold: float64(envutil.GetEnvAsInt("RISK_RATING_THRESHOLD", 3, log)),
	}

	if origins := envutil.GetEnv("CORS_ALLOW_ORIGINS", "", log); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	cfg.Scoring = services.ScorerConfig{
		Weights:       services.DefaultScoringWeights(),
		OracleTimeout: cfg.SimilarityTimeout,
	}
	if path := envutil.GetEnv("MATCHING_TUNING_PATH", "", log); path != "" {
		applyTuningFile(log, &cfg, path)
	}
	return cfg
}

func applyTuningFile(log *logger.Logger, cfg *Config, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("tuning file unreadable, using defaults", "path", path, "error", err)
		return
	}
	var tf tuningFile
	if err := yaml.Unmarshal(raw, &tf); err != nil {
		log.Warn("tuning file malformed, using defaults", "path", path, "error", err)
		return
	}
	zero := services.ScoringWeights{}
	if tf.Scoring.Weights != zero {
		cfg.Scoring.Weights = tf.Scoring.Weights
	}
	if tf.Scoring.Limit > 0 {
		cfg.Scoring.Limit = tf.Scoring.Limit
	}
	if tf.Scoring.Threshold > 0 {
		cfg.Scoring.Threshold = tf.Scoring.Threshold
	}
	log.Info("matching tuning loaded", "path", path)
}

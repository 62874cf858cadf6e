package app

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/cinesync/internal/pkg/logger"
	"github.com/yungbote/cinesync/internal/utils"
)

// Config is the full externally-supplied surface: store endpoints,
// credentials, the per-run record cap, the batch input path, and the
// thresholds the analytical queries take as parameters.
type Config struct {
	MongoURI        string `yaml:"mongo_uri"`
	MongoDatabase   string `yaml:"mongo_database"`
	MongoCollection string `yaml:"mongo_collection"`

	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`

	RecordLimit   int    `yaml:"record_limit"`
	Wipe          bool   `yaml:"wipe"`
	EnsureSchema  bool   `yaml:"ensure_schema"`
	AwardsCSVPath string `yaml:"awards_csv_path"`

	TargetGenre      string   `yaml:"target_genre"`
	MinScore         float64  `yaml:"min_score"`
	MinBudget        float64  `yaml:"min_budget"`
	MinProfit        float64  `yaml:"min_profit"`
	TopN             int      `yaml:"top_n"`
	NomineeCategory  string   `yaml:"nominee_category"`
	ActingCategories []string `yaml:"acting_categories"`
	MinNominations   int      `yaml:"min_nominations"`
}

func defaults() Config {
	return Config{
		MongoURI:        "mongodb://localhost:27017/",
		MongoDatabase:   "movies",
		MongoCollection: "movies",
		Neo4jURI:        "bolt://localhost:7687",
		Neo4jUser:       "neo4j",
		RecordLimit:     1000,
		EnsureSchema:    true,
		TargetGenre:     "Action",
		MinScore:        75,
		MinBudget:       100_000_000,
		MinProfit:       100_000_000,
		TopN:            5,
		NomineeCategory: "BEST PICTURE",
		ActingCategories: []string{
			"ACTOR IN A LEADING ROLE",
			"ACTRESS IN A LEADING ROLE",
		},
		MinNominations: 2,
	}
}

// LoadConfig layers defaults, an optional YAML file (CINESYNC_CONFIG), and
// environment variables, in that order of increasing precedence.
func LoadConfig(log *logger.Logger) Config {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CINESYNC_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("Config file unreadable, continuing with env only", "path", path, "error", err)
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Warn("Config file unparseable, continuing with env only", "path", path, "error", err)
		}
	}

	cfg.MongoURI = utils.GetEnv("MONGO_URI", cfg.MongoURI, log)
	cfg.MongoDatabase = utils.GetEnv("MONGO_DATABASE", cfg.MongoDatabase, log)
	cfg.MongoCollection = utils.GetEnv("MONGO_COLLECTION", cfg.MongoCollection, log)

	cfg.Neo4jURI = utils.GetEnv("NEO4J_URI", cfg.Neo4jURI, log)
	cfg.Neo4jUser = utils.GetEnv("NEO4J_USER", cfg.Neo4jUser, log)
	cfg.Neo4jPassword = utils.GetEnv("NEO4J_PASSWORD", cfg.Neo4jPassword, log)
	cfg.Neo4jDatabase = utils.GetEnv("NEO4J_DATABASE", cfg.Neo4jDatabase, log)

	cfg.RecordLimit = utils.GetEnvAsInt("SYNC_RECORD_LIMIT", cfg.RecordLimit, log)
	cfg.Wipe = utils.GetEnvAsBool("SYNC_WIPE", cfg.Wipe, log)
	cfg.EnsureSchema = utils.GetEnvAsBool("SYNC_ENSURE_SCHEMA", cfg.EnsureSchema, log)
	cfg.AwardsCSVPath = utils.GetEnv("AWARDS_CSV_PATH", cfg.AwardsCSVPath, log)

	cfg.TargetGenre = utils.GetEnv("ANALYSIS_TARGET_GENRE", cfg.TargetGenre, log)
	cfg.MinScore = utils.GetEnvAsFloat("ANALYSIS_MIN_SCORE", cfg.MinScore, log)
	cfg.MinBudget = utils.GetEnvAsFloat("ANALYSIS_MIN_BUDGET", cfg.MinBudget, log)
	cfg.MinProfit = utils.GetEnvAsFloat("ANALYSIS_MIN_PROFIT", cfg.MinProfit, log)
	cfg.TopN = utils.GetEnvAsInt("ANALYSIS_TOP_N", cfg.TopN, log)
	cfg.NomineeCategory = utils.GetEnv("ANALYSIS_NOMINEE_CATEGORY", cfg.NomineeCategory, log)
	if raw := utils.GetEnv("ANALYSIS_ACTING_CATEGORIES", "", log); raw != "" {
		parts := strings.Split(raw, ",")
		cats := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cats = append(cats, p)
			}
		}
		if len(cats) > 0 {
			cfg.ActingCategories = cats
		}
	}
	cfg.MinNominations = utils.GetEnvAsInt("ANALYSIS_MIN_NOMINATIONS", cfg.MinNominations, log)

	return cfg
}

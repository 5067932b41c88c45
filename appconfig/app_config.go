package appconfig

import (
	"strings"

	"github.com/SaiNageswarS/go-api-boot/config"
)

type AppConfig struct {
	config.BootConfig `ini:",extends"`

	Neo4jUri      string `env:"NEO4J-URI" ini:"neo4j_uri"`
	Neo4jUser     string `env:"NEO4J-USER" ini:"neo4j_user"`
	Neo4jPassword string `env:"NEO4J-PASSWORD" ini:"neo4j_password"`

	OllamaModel    string `env:"OLLAMA-MODEL" ini:"ollama_model"`
	EmbeddingModel string `env:"EMBEDDING-MODEL" ini:"embedding_model"`

	// UseVectorIndex forces the retrieval strategy: "true" pins the native
	// vector index, "false" pins brute-force cosine, empty lets the startup
	// probe decide.
	UseVectorIndex string `env:"USE-VECTOR-INDEX" ini:"use_vector_index"`

	HTTPPort string `env:"HTTP-PORT" ini:"http_port"`
}

// HasNeo4jConfig reports whether the required knowledge-base connection
// parameters are present. Startup is fatal without them.
func (c *AppConfig) HasNeo4jConfig() bool {
	return c.Neo4jUri != "" && c.Neo4jUser != "" && c.Neo4jPassword != ""
}

// VectorIndexOverride returns the forced strategy and whether one is set.
func (c *AppConfig) VectorIndexOverride() (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(c.UseVectorIndex)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration. Everything has a working default;
// credentials come from the environment, never from the file.
type fileConfig struct {
	Backend string       `yaml:"backend"` // live | table
	Board   boardConfig  `yaml:"board"`
	Tables  tablesConfig `yaml:"tables"`
	LLM     llmConfig    `yaml:"llm"`
	Answer  answerConfig `yaml:"answer"`
}

type boardConfig struct {
	URL           string         `yaml:"url"`
	RemoteBrowser string         `yaml:"remote_browser"`
	ClientBoards  map[string]int `yaml:"client_boards"` // name -> pid
	DetailFetches int            `yaml:"detail_fetches"`
	SettleDelay   time.Duration  `yaml:"settle_delay"`
	NavTimeout    time.Duration  `yaml:"nav_timeout"`
}

type tablesConfig struct {
	Posts    string `yaml:"posts"`
	Comments string `yaml:"comments"`
}

type llmConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int32   `yaml:"max_tokens"`
}

type answerConfig struct {
	ClientLimit  int `yaml:"client_limit"`
	DefaultLimit int `yaml:"default_limit"`
	HistoryDepth int `yaml:"history_depth"`
}

// loadConfig reads the YAML file when it exists and applies environment
// overrides on top.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := os.Getenv("BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("BOARD_URL"); v != "" {
		cfg.Board.URL = v
	}
	if v := os.Getenv("REMOTE_BROWSER"); v != "" {
		cfg.Board.RemoteBrowser = v
	}
	if v := os.Getenv("POSTS_CSV"); v != "" {
		cfg.Tables.Posts = v
	}
	if v := os.Getenv("COMMENTS_CSV"); v != "" {
		cfg.Tables.Comments = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *fileConfig) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "table"
	}
	if c.Board.URL == "" {
		c.Board.URL = "https://ppm.malgn.co.kr/"
	}
	if c.Tables.Posts == "" {
		c.Tables.Posts = "data/posts.csv"
	}
	if c.Tables.Comments == "" {
		c.Tables.Comments = "data/comments.csv"
	}
}

// knownClients returns the configured client names, sorted so detection
// order does not depend on map iteration.
func (c *fileConfig) knownClients() []string {
	names := make([]string, 0, len(c.Board.ClientBoards))
	for name := range c.Board.ClientBoards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Package config monta a configuração explícita do processo: defaults,
// depois o arquivo TOML opcional, depois as variáveis de ambiente.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr    = ":8080"
	DefaultTimeout = 12 * time.Second
)

// Config é passada na construção dos componentes; nada lê ambiente depois
// daqui.
type Config struct {
	// SheetsURL é o endpoint do Apps Script. Vazio desabilita as operações
	// de dados com erro fixo de configuração.
	SheetsURL string
	Addr      string
	Timeout   time.Duration
}

type fileConfig struct {
	SheetsURL      *string `toml:"sheets-url"`
	Addr           *string `toml:"addr"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// Load resolve a configuração. Arquivo ausente não é erro; arquivo ilegível é.
// Ambiente: SHEETS_URL, WORKOUT_ADDR, WORKOUT_TIMEOUT (segundos).
func Load(path string) (Config, error) {
	cfg := Config{
		Addr:    DefaultAddr,
		Timeout: DefaultTimeout,
	}

	if path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		if fc.SheetsURL != nil {
			cfg.SheetsURL = *fc.SheetsURL
		}
		if fc.Addr != nil {
			cfg.Addr = *fc.Addr
		}
		if fc.TimeoutSeconds != nil {
			cfg.Timeout = time.Duration(*fc.TimeoutSeconds) * time.Second
		}
	}

	if v := os.Getenv("SHEETS_URL"); v != "" {
		cfg.SheetsURL = v
	}
	if v := os.Getenv("WORKOUT_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("WORKOUT_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return Config{}, fmt.Errorf("WORKOUT_TIMEOUT inválido: %q", v)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fileConfig{}, nil
		}
		return fileConfig{}, fmt.Errorf("stat do arquivo de config: %w", err)
	}
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("decode do arquivo de config: %w", err)
	}
	return fc, nil
}

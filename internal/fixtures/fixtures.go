package fixtures

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/tradejournal/internal/journal"
)

// Fixtures is a seed file: strategies first, then trades that may point at them by name
type Fixtures struct {
	Strategies []journal.StrategyInput `yaml:"strategies" json:"strategies"`
	Trades     []Trade                 `yaml:"trades" json:"trades"`
}

// Trade is a trade fixture. Strategy names a fixture strategy;
// strategy_id may instead reference one already stored.
type Trade struct {
	Strategy           string `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	journal.TradeInput `yaml:",inline"`
}

// Load reads a YAML seed file and returns Fixtures with the raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Fixtures, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	fx, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, data, err
	}

	return fx, data, nil
}

// Decode parses and validates fixtures from r
func Decode(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(&fx); err != nil && err != io.EOF {
		return nil, err
	}

	if err := Validate(&fx); err != nil {
		return nil, err
	}

	return &fx, nil
}

// Hash fingerprints the fixtures (canonical JSON) so seed runs can be told apart in logs
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(fx *Fixtures) (string, error) {
	jsonBytes, err := json.Marshal(fx)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}
